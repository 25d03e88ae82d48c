package analysis

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

const approxCharsPerToken = 4

var (
	tokenEncoderOnce sync.Once
	tokenEncoder     *tiktoken.Tiktoken

	estimateTokensFunc = defaultEstimateTokens
)

func estimateTokens(text string) int {
	return estimateTokensFunc(text)
}

func defaultEstimateTokens(text string) int {
	enc := getTokenEncoder()
	if enc != nil {
		tokens := enc.Encode(text, nil, nil)
		if len(tokens) > 0 {
			return len(tokens)
		}
	}
	return max(1, len(text)/approxCharsPerToken)
}

func getTokenEncoder() *tiktoken.Tiktoken {
	tokenEncoderOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err == nil {
			tokenEncoder = enc
		}
	})
	return tokenEncoder
}
