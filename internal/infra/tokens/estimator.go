package tokens

import (
	"strings"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// Estimator provides a local token-cost estimate for a message, used when
// the backend response omits totalTokens.
type Estimator struct {
	enc *tiktoken.Tiktoken
}

// NewEstimator builds an estimator on the cl100k_base encoding. When the
// encoding cannot be loaded (offline first run), the estimator falls back to
// a character heuristic instead of failing.
func NewEstimator() *Estimator {
	enc, err := tiktoken.GetEncoding(tiktoken.MODEL_CL100K_BASE)
	if err != nil {
		return &Estimator{}
	}
	return &Estimator{enc: enc}
}

func (e *Estimator) Estimate(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	if e.enc != nil {
		return len(e.enc.Encode(text, nil, nil))
	}
	// Rough heuristic: one token per four characters, at least one.
	n := len(text) / 4
	if n < 1 {
		n = 1
	}
	return n
}
