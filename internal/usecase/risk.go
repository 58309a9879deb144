package usecase

import (
	"fmt"
	"strings"

	"aslan-support-client/internal/domain/model"
)

// crisisKeywords is the fixed set of high-risk terms. Matching is
// case-insensitive substring, any position.
var crisisKeywords = []string{
	"suicide",
	"kill",
	"die",
	"end it all",
	"self harm",
	"hurt myself",
}

// highEmotionLabels are the emotion labels that escalate without a crisis
// keyword.
var highEmotionLabels = map[string]bool{
	"angry":   true,
	"sad":     true,
	"anxious": true,
}

// Verdict is the outcome of a risk assessment.
type Verdict struct {
	NeedsAlert  bool
	AlertType   model.AlertType
	Description string
}

// AssessRisk evaluates a classified message. It is a pure function: no
// randomness, no I/O, and running it twice on the same message yields the
// same verdict. Rule order is fixed, first match wins:
//
//  1. any crisis keyword in the text -> crisis, regardless of emotion;
//  2. emotion in {angry, sad, anxious} -> high_emotion;
//  3. otherwise no alert.
func AssessRisk(msg *model.Message) Verdict {
	text := strings.ToLower(msg.Text)
	for _, kw := range crisisKeywords {
		if strings.Contains(text, kw) {
			return Verdict{
				NeedsAlert:  true,
				AlertType:   model.AlertCrisis,
				Description: fmt.Sprintf("crisis keyword detected in message %s", msg.ID),
			}
		}
	}
	if highEmotionLabels[msg.EmotionLabel] {
		return Verdict{
			NeedsAlert:  true,
			AlertType:   model.AlertHighEmotion,
			Description: fmt.Sprintf("high emotional state detected: %s", msg.EmotionLabel),
		}
	}
	return Verdict{}
}
