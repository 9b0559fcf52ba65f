package session

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"essay_editor/editor"
	"essay_editor/essay"
)

// queueLLM returns scripted responses in order.
type queueLLM struct {
	responses []string
}

func (q *queueLLM) Complete(_ context.Context, _ editor.Prompt) (string, error) {
	if len(q.responses) == 0 {
		return "", errors.New("no scripted response left")
	}
	resp := q.responses[0]
	q.responses = q.responses[1:]
	return resp, nil
}

func newTestSession(t *testing.T, text string, responses []string, input string) (*Session, *bytes.Buffer, string) {
	t.Helper()

	agent, err := editor.NewAgent(&queueLLM{responses: responses})
	if err != nil {
		t.Fatalf("new agent: %v", err)
	}

	path := filepath.Join(t.TempDir(), "essay.txt")
	es := essay.New(path, text)
	var out bytes.Buffer
	return New(es, agent, strings.NewReader(input), &out), &out, path
}

func TestRunAcceptedEdit(t *testing.T) {
	// suggest → rephrase "cat sat" → accept → save
	input := "1\ncat sat\ny\n4\n"
	responses := []string{"A fully rewritten essay.", "feline rested"}

	s, out, path := newTestSession(t, "The cat sat on the mat.", responses, input)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if s.Essay.Working != "The feline rested on the mat." {
		t.Errorf("unexpected working text: %q", s.Essay.Working)
	}

	if s.Essay.Suggested != "A fully rewritten essay." {
		t.Errorf("full-document suggestion not recorded: %q", s.Essay.Suggested)
	}

	saved := strings.TrimSuffix(path, ".txt") + "_edited.txt"
	data, err := os.ReadFile(saved)
	if err != nil {
		t.Fatalf("saved file missing: %v", err)
	}
	if string(data) != "The feline rested on the mat." {
		t.Errorf("saved content mismatch: %q", string(data))
	}

	if len(s.History) != 1 || !s.History[0].Accepted || s.History[0].Op != editor.OpRephrase {
		t.Errorf("unexpected history: %+v", s.History)
	}

	if !strings.Contains(out.String(), "SUGGESTED REWRITE") {
		t.Error("the full-document suggestion should be shown")
	}
}

func TestRunRejectedEditLeavesTextUnchanged(t *testing.T) {
	// rewrite → reject → feedback → refined suggestion → reject again (EOF ends input)
	input := "0\ncat sat\nn\nshorter\nn\n"
	responses := []string{"suggestion", "first try", "second try"}

	s, _, _ := newTestSession(t, "The cat sat on the mat.", responses, input)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if s.Essay.Working != "The cat sat on the mat." {
		t.Errorf("rejected edits must not mutate the text, got %q", s.Essay.Working)
	}

	if len(s.History) != 2 {
		t.Fatalf("expected 2 recorded turns, got %d", len(s.History))
	}
	for _, turn := range s.History {
		if turn.Accepted {
			t.Errorf("turn should be rejected: %+v", turn)
		}
	}
	if s.History[1].Suggested != "second try" {
		t.Errorf("refine should review the regenerated suggestion, got %q", s.History[1].Suggested)
	}
}

func TestRunFeedbackThenAccept(t *testing.T) {
	input := "0\ncat sat\nn\nmake it shorter\ny\n4\n"
	responses := []string{"suggestion", "verbose replacement", "cat"}

	s, _, _ := newTestSession(t, "The cat sat on the mat.", responses, input)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if s.Essay.Working != "The cat on the mat." {
		t.Errorf("refined replacement should be applied, got %q", s.Essay.Working)
	}
}

func TestRunLineRangeSelection(t *testing.T) {
	input := "2\n2-3\ny\n4\n"
	responses := []string{"suggestion", "expanded middle"}

	s, _, _ := newTestSession(t, "one\ntwo\nthree\nfour", responses, input)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if s.Essay.Working != "one\nexpanded middle\nfour" {
		t.Errorf("unexpected working text: %q", s.Essay.Working)
	}
}

func TestRunRepromptsOnBadSelection(t *testing.T) {
	// a missing passage and an invalid range are both re-prompted before a
	// valid selection succeeds
	input := "1\nnot in the essay\n9-12\ncat sat\ny\n4\n"
	responses := []string{"suggestion", "feline rested"}

	s, out, _ := newTestSession(t, "The cat sat on the mat.", responses, input)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if !strings.Contains(out.String(), "Text not found in essay") {
		t.Error("missing passage should report a selection error")
	}

	if s.Essay.Working != "The feline rested on the mat." {
		t.Errorf("unexpected working text: %q", s.Essay.Working)
	}
}

func TestRunSaveWithoutChanges(t *testing.T) {
	input := "4\n"
	responses := []string{"suggestion"}

	s, out, path := newTestSession(t, "untouched", responses, input)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if !strings.Contains(out.String(), "No changes made to save.") {
		t.Error("saving without changes should be reported")
	}

	saved := strings.TrimSuffix(path, ".txt") + "_edited.txt"
	if _, err := os.Stat(saved); !os.IsNotExist(err) {
		t.Error("no file should be written when nothing changed")
	}
}

func TestRunShowEssay(t *testing.T) {
	input := "3\n4\n"
	responses := []string{"suggestion"}

	s, out, _ := newTestSession(t, "visible body text", responses, input)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if !strings.Contains(out.String(), "CURRENT ESSAY") {
		t.Error("menu option 3 should print the current essay")
	}
	if !strings.Contains(out.String(), "visible body text") {
		t.Error("the essay body should be printed")
	}
}

func TestRunInvalidMenuChoiceReprompts(t *testing.T) {
	input := "7\nx\n4\n"
	responses := []string{"suggestion"}

	s, out, _ := newTestSession(t, "text", responses, input)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if !strings.Contains(out.String(), "Invalid choice") {
		t.Error("invalid menu input should re-prompt")
	}
}
