package editor

import (
	"context"
	"errors"
	"fmt"
)

// Agent turns editing requests into model calls and normalizes the output.
type Agent struct {
	llm LLMClient
}

func NewAgent(llm LLMClient) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	return &Agent{llm: llm}, nil
}

// SuggestRewrite produces the full-document rewrite suggestion.
func (a *Agent) SuggestRewrite(ctx context.Context, essayText string) (string, error) {
	return a.complete(ctx, BuildFullRewritePrompt(essayText))
}

// EditPassage produces a replacement for one passage using the template
// selected by op.
func (a *Agent) EditPassage(ctx context.Context, op Operation, passage string) (string, error) {
	if !op.Valid() {
		return "", fmt.Errorf("unknown operation %q", op)
	}
	return a.complete(ctx, BuildPassagePrompt(op, passage))
}

// RefinePassage regenerates a rejected suggestion from the user's feedback.
func (a *Agent) RefinePassage(ctx context.Context, passage, feedback string) (string, error) {
	return a.complete(ctx, BuildRefinePrompt(passage, feedback))
}

func (a *Agent) complete(ctx context.Context, prompt Prompt) (string, error) {
	raw, err := a.llm.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	return PostProcess(raw)
}
