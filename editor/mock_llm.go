package editor

import (
	"context"
	"strings"
)

// MockLLM is an offline stand-in that never calls a model. It echoes the
// request so the full edit flow can be exercised without an API key.
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	var sb strings.Builder
	sb.WriteString("[offline suggestion]\n")
	sb.WriteString(prompt.User)
	return sb.String(), nil
}
