package usecase

import (
	"strings"
)

// Mood is a one-tap check-in value from the mood selector.
type Mood string

const (
	MoodGreat    Mood = "great"
	MoodGood     Mood = "good"
	MoodOkay     Mood = "okay"
	MoodBad      Mood = "bad"
	MoodTerrible Mood = "terrible"
)

// KnownMood reports whether the value is one of the selectable moods.
func KnownMood(m Mood) bool {
	switch m {
	case MoodGreat, MoodGood, MoodOkay, MoodBad, MoodTerrible:
		return true
	}
	return false
}

// Greeting is the assistant's opening message for a new session.
const Greeting = "Hello! I'm Aslan, your emotional support companion. How are you feeling today?"

var greetingReplies = []string{
	"Hello! How can I support you today?",
	"Hi there! I'm here to listen and help.",
	"Welcome! How are you feeling right now?",
}

var moodReplies = map[Mood]string{
	MoodGreat:    "I'm glad you're feeling great! What's contributing to your positive mood?",
	MoodGood:     "That's good to hear! Would you like to share what's going well?",
	MoodOkay:     "Thank you for sharing. Would you like to talk about what's on your mind?",
	MoodBad:      "I'm here to support you. Would you like to talk about what's troubling you?",
	MoodTerrible: "I'm sorry you're feeling this way. Let's work through this together. What's happening?",
}

var defaultReplies = []string{
	"I hear you. Can you tell me more about that?",
	"Thank you for sharing. How does that make you feel?",
	"I understand. What support do you need right now?",
	"I'm here to listen. Would you like to explore this further?",
}

// CompanionReply picks the local canned assistant reply for a user message.
// pendingMood, when set, takes precedence over content matching. Selection is
// deterministic (keyed on message length) so repeated evaluation of the same
// input produces the same reply.
func CompanionReply(text string, pendingMood Mood) string {
	if reply, ok := moodReplies[pendingMood]; ok {
		return reply
	}
	lower := strings.ToLower(text)
	if strings.Contains(lower, "hello") || strings.Contains(lower, "hi") {
		return greetingReplies[len(text)%len(greetingReplies)]
	}
	return defaultReplies[len(text)%len(defaultReplies)]
}
