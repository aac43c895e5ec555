package genai

import (
	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter estimates prompt token counts. It uses the cl100k_base
// encoding when available and falls back to the four-characters-per-token
// heuristic, so counting never fails.
type TokenCounter struct {
	encoding *tiktoken.Tiktoken
}

// NewTokenCounter creates a token counter. Encoding load failures are
// swallowed; the counter then runs on the heuristic only.
func NewTokenCounter() *TokenCounter {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return &TokenCounter{}
	}
	return &TokenCounter{encoding: enc}
}

// Count estimates the token count for text
func (c *TokenCounter) Count(text string) int {
	if c.encoding != nil {
		return len(c.encoding.Encode(text, nil, nil))
	}
	return len(text) / 4
}
