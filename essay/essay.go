package essay

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrPassageNotFound is returned when a selected passage does not occur in
// the working text (e.g. it was changed by an earlier accepted edit).
var ErrPassageNotFound = errors.New("passage not found in essay")

// Essay holds the document being edited: the text as loaded and the working
// copy that accumulates accepted edits. Suggested keeps the one-shot
// full-document rewrite for reference; it is never applied automatically.
type Essay struct {
	Filename   string
	Original   string
	Working    string
	Suggested  string
	HasChanges bool
}

// New creates an essay whose working text starts equal to the loaded text.
func New(filename, text string) *Essay {
	return &Essay{
		Filename: filename,
		Original: text,
		Working:  text,
	}
}

// Contains reports whether passage occurs in the current working text.
func (e *Essay) Contains(passage string) bool {
	return passage != "" && strings.Contains(e.Working, passage)
}

// Apply replaces the first exact occurrence of passage in the working text
// with replacement. The working text is left untouched on error.
func (e *Essay) Apply(passage, replacement string) error {
	if !e.Contains(passage) {
		return ErrPassageNotFound
	}
	e.Working = strings.Replace(e.Working, passage, replacement, 1)
	e.HasChanges = true
	return nil
}

// Lines splits the working text into lines.
func (e *Essay) Lines() []string {
	return strings.Split(e.Working, "\n")
}

// SelectLines returns lines start through end of the working text,
// 1-based and inclusive.
func (e *Essay) SelectLines(start, end int) (string, error) {
	lines := e.Lines()
	if start < 1 || end > len(lines) || start > end {
		return "", fmt.Errorf("invalid line range %d-%d: essay has %d lines", start, end, len(lines))
	}
	return strings.Join(lines[start-1:end], "\n"), nil
}

// OutputPath derives the save path from the input name: the extension is
// dropped and "_edited.txt" appended, so essays/draft.docx saves to
// essays/draft_edited.txt.
func (e *Essay) OutputPath() string {
	base := strings.TrimSuffix(e.Filename, filepath.Ext(e.Filename))
	return base + "_edited.txt"
}

// Save writes the working text to OutputPath. It reports false without
// writing when no edit was ever accepted.
func (e *Essay) Save() (string, bool, error) {
	if !e.HasChanges {
		return "", false, nil
	}
	out := e.OutputPath()
	if err := os.WriteFile(out, []byte(e.Working), 0o644); err != nil {
		return "", false, err
	}
	return out, true, nil
}
