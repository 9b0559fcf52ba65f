// Package session drives one interactive editing run over a single essay.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"essay_editor/editor"
	"essay_editor/essay"
)

// Turn records one passage edit: what was asked, what the model proposed,
// and whether the user took it.
type Turn struct {
	Op        editor.Operation `json:"operation"`
	Passage   string           `json:"passage"`
	Suggested string           `json:"suggested"`
	Accepted  bool             `json:"accepted"`
	CreatedAt time.Time        `json:"created_at"`
}

// Session holds the essay, the agent, and the audit trail of edits for one
// interactive run.
type Session struct {
	Essay   *essay.Essay
	Agent   *editor.Agent
	History []Turn

	in  *bufio.Scanner
	out io.Writer
}

// New wires a session to its input and output streams. Tests pass scripted
// readers; main passes stdin/stdout.
func New(es *essay.Essay, agent *editor.Agent, in io.Reader, out io.Writer) *Session {
	sc := bufio.NewScanner(in)
	// Pasted passages can exceed the default token limit.
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Session{Essay: es, Agent: agent, in: sc, out: out}
}

// Run executes the session: one full-document suggestion up front, then the
// menu loop until the user saves or input ends.
func (s *Session) Run(ctx context.Context) error {
	fmt.Fprintf(s.out, "\nLoaded essay: %s (%d characters)\n", s.Essay.Filename, len(s.Essay.Original))
	fmt.Fprintln(s.out, "\nGenerating a suggested rewrite of your essay...")

	suggested, err := s.Agent.SuggestRewrite(ctx, s.Essay.Original)
	if err != nil {
		return fmt.Errorf("generating rewrite: %w", err)
	}
	s.Essay.Suggested = suggested
	s.printBlock("SUGGESTED REWRITE", suggested)

	for {
		choice, ok := s.menu()
		if !ok {
			return nil
		}
		switch choice {
		case "0", "1", "2":
			if err := s.editOnce(ctx, operationFor(choice)); err != nil {
				return err
			}
		case "3":
			s.printBlock("CURRENT ESSAY", s.Essay.Working)
		case "4":
			return s.save()
		}
	}
}

func operationFor(choice string) editor.Operation {
	switch choice {
	case "1":
		return editor.OpRephrase
	case "2":
		return editor.OpExpand
	default:
		return editor.OpRewrite
	}
}

// editOnce runs one select → propose → review cycle, including the
// feedback-driven refine loop after a rejection.
func (s *Session) editOnce(ctx context.Context, op editor.Operation) error {
	passage, ok := s.selectPassage()
	if !ok {
		return nil
	}

	fmt.Fprintln(s.out, "\nProcessing your request...")
	suggested, err := s.Agent.EditPassage(ctx, op, passage)
	if err != nil {
		return fmt.Errorf("editing passage: %w", err)
	}

	for {
		s.printBlock("ORIGINAL PASSAGE", passage)
		s.printBlock("SUGGESTED REVISION", suggested)

		accept, ok := s.confirm("\nDo you want to accept this revision? (y/n): ")
		if !ok {
			return nil
		}
		s.History = append(s.History, Turn{
			Op:        op,
			Passage:   passage,
			Suggested: suggested,
			Accepted:  accept,
			CreatedAt: time.Now(),
		})

		if accept {
			if err := s.Essay.Apply(passage, suggested); err != nil {
				if errors.Is(err, essay.ErrPassageNotFound) {
					fmt.Fprintln(s.out, "Selection error: the passage is no longer present in the essay.")
					return nil
				}
				return err
			}
			fmt.Fprintln(s.out, "\nPassage updated.")
			return nil
		}

		fmt.Fprintln(s.out, "\nWhat would you like me to change? (e.g. 'make it simpler', 'more formal', 'shorter')")
		feedback, ok := s.readLine("Your feedback: ")
		if !ok {
			return nil
		}

		fmt.Fprintln(s.out, "\nRevising...")
		suggested, err = s.Agent.RefinePassage(ctx, suggested, feedback)
		if err != nil {
			return fmt.Errorf("refining passage: %w", err)
		}
	}
}

var lineRangeRe = regexp.MustCompile(`^(\d+)\s*-\s*(\d+)$`)

// selectPassage prompts until the user supplies either an exact substring of
// the working text or a valid 1-based line range like "5-8".
func (s *Session) selectPassage() (string, bool) {
	lines := s.Essay.Lines()

	fmt.Fprintln(s.out, "\nSelect the passage you want to edit: paste the exact text,")
	fmt.Fprintln(s.out, "or give a line range like '5-8'.")
	fmt.Fprintf(s.out, "\nThe essay has %d lines. First lines for reference:\n", len(lines))
	for i, line := range lines {
		if i == 5 {
			break
		}
		if len(line) > 80 {
			line = line[:80] + "..."
		}
		fmt.Fprintf(s.out, "%d: %s\n", i+1, line)
	}

	for {
		selection, ok := s.readLine("\nEnter your selection: ")
		if !ok {
			return "", false
		}

		if m := lineRangeRe.FindStringSubmatch(selection); m != nil {
			start, _ := strconv.Atoi(m[1])
			end, _ := strconv.Atoi(m[2])
			passage, err := s.Essay.SelectLines(start, end)
			if err != nil {
				fmt.Fprintln(s.out, err)
				continue
			}
			s.printBlock("SELECTED PASSAGE", passage)
			return passage, true
		}

		if selection == "" {
			fmt.Fprintln(s.out, "Please paste the passage text or give a line range like '5-8'.")
			continue
		}
		if !s.Essay.Contains(selection) {
			fmt.Fprintln(s.out, "Text not found in essay. Please check your selection.")
			continue
		}
		s.printBlock("SELECTED PASSAGE", selection)
		return selection, true
	}
}

func (s *Session) save() error {
	path, saved, err := s.Essay.Save()
	if err != nil {
		return fmt.Errorf("saving essay: %w", err)
	}
	if !saved {
		fmt.Fprintln(s.out, "\nNo changes made to save.")
		return nil
	}
	fmt.Fprintf(s.out, "\nEssay saved as: %s\n", path)
	return nil
}

func (s *Session) menu() (string, bool) {
	fmt.Fprintln(s.out, "\n"+strings.Repeat("=", 50))
	fmt.Fprintln(s.out, "What would you like to do?")
	fmt.Fprintln(s.out, "0 - Rewrite a portion or phrase")
	fmt.Fprintln(s.out, "1 - Rephrase a portion or phrase")
	fmt.Fprintln(s.out, "2 - Write for me (expand on a portion or phrase)")
	fmt.Fprintln(s.out, "3 - Show full essay")
	fmt.Fprintln(s.out, "4 - Save and exit")
	fmt.Fprintln(s.out, strings.Repeat("=", 50))

	for {
		choice, ok := s.readLine("Choice: ")
		if !ok {
			return "", false
		}
		switch choice {
		case "0", "1", "2", "3", "4":
			return choice, true
		}
		fmt.Fprintln(s.out, "Invalid choice. Please enter 0, 1, 2, 3, or 4.")
	}
}

func (s *Session) confirm(prompt string) (answer, ok bool) {
	for {
		line, ok := s.readLine(prompt)
		if !ok {
			return false, false
		}
		switch strings.ToLower(line) {
		case "y", "yes":
			return true, true
		case "n", "no":
			return false, true
		}
		fmt.Fprintln(s.out, "Please enter 'y' for yes or 'n' for no.")
	}
}

func (s *Session) readLine(prompt string) (string, bool) {
	fmt.Fprint(s.out, prompt)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

func (s *Session) printBlock(title, body string) {
	bar := strings.Repeat("=", 80)
	fmt.Fprintf(s.out, "\n%s\n%s:\n%s\n%s\n", bar, title, bar, body)
}
