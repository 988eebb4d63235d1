package hf

import (
	"sync"

	"github.com/tiktoken-go/tokenizer"
)

var (
	codecOnce sync.Once
	codec     tokenizer.Codec
)

// approxTokens estimates prompt size with cl100k_base. The hosted model uses
// its own vocabulary, so this is only a rough number for logs. Returns -1
// when the encoding is unavailable.
func approxTokens(text string) int {
	codecOnce.Do(func() {
		c, err := tokenizer.Get(tokenizer.Cl100kBase)
		if err == nil {
			codec = c
		}
	})
	if codec == nil {
		return -1
	}
	_, tokens, err := codec.Encode(text)
	if err != nil {
		return -1
	}
	return len(tokens)
}
