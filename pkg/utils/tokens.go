package utils

import (
	"github.com/pkoukk/tiktoken-go"
)

// NumTokens estimates the prompt size with the cl100k tokenizer. Counts for
// non-OpenAI providers are approximations.
func NumTokens(text string) (int, error) {
	tkm, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return 0, err
	}

	return len(tkm.Encode(text, nil, nil)), nil
}
