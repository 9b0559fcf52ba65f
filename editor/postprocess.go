package editor

import (
	"errors"
	"strings"
)

// PostProcess normalizes raw model output: trims whitespace and unwraps a
// code fence when the model returns the text inside one.
func PostProcess(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	text = stripFence(text)
	if text == "" {
		return "", errors.New("model returned empty text")
	}
	return text, nil
}

// stripFence removes a single surrounding ``` block, including a language
// tag on the opening line.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") {
		return s
	}
	body := strings.TrimSuffix(s, "```")
	if idx := strings.IndexByte(body, '\n'); idx >= 0 {
		body = body[idx+1:]
	} else {
		return s
	}
	return strings.TrimSpace(body)
}
