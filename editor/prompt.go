package editor

import "fmt"

// Prompt is the message pair sent to the model.
type Prompt struct {
	System string
	User   string
}

// BuildFullRewritePrompt asks for the one-shot rewrite of the whole essay
// shown to the user at the start of a session.
func BuildFullRewritePrompt(essayText string) Prompt {
	return Prompt{
		System: "You are an academic writing assistant. The user has uploaded an essay. " +
			"Rewrite the entire essay for clarity, logical flow, grammar, and readability, " +
			"while preserving its original meaning and depth. " +
			"Do not shorten unless absolutely necessary. Return only the rewritten essay text.",
		User: fmt.Sprintf("Essay to rewrite:\n\n%s", essayText),
	}
}

// BuildPassagePrompt asks for a targeted replacement of a single passage.
func BuildPassagePrompt(op Operation, passage string) Prompt {
	switch op {
	case OpRephrase:
		return Prompt{
			System: "You are a stylistic writing assistant. Rephrase the passage the user provides " +
				"so that it has a different style and sentence structure but retains the same meaning. " +
				"Keep the academic tone consistent with the rest of the essay. " +
				"Return only the rephrased passage.",
			User: fmt.Sprintf("Passage to rephrase:\n\n%s", passage),
		}
	case OpExpand:
		return Prompt{
			System: "You are an essay writer. Expand the passage the user provides by adding new " +
				"original content that deepens the discussion, provides examples, or adds reasoning. " +
				"Keep the tone consistent with the rest of the essay and do not repeat sentences verbatim. " +
				"Return only the expanded passage.",
			User: fmt.Sprintf("Passage to expand:\n\n%s", passage),
		}
	default: // OpRewrite
		return Prompt{
			System: "You are an academic editor. Rewrite the passage the user provides. " +
				"Keep the meaning intact, but improve grammar, clarity, structure, and logical flow. " +
				"Maintain the same academic tone as the original essay. " +
				"Return only the rewritten passage.",
			User: fmt.Sprintf("Passage to rewrite:\n\n%s", passage),
		}
	}
}

// BuildRefinePrompt revises a rejected suggestion according to the user's
// feedback.
func BuildRefinePrompt(passage, feedback string) Prompt {
	return Prompt{
		System: "You are an academic editor. The user rejected the following passage and provided " +
			"feedback. Revise the passage according to their feedback while maintaining academic " +
			"quality. Provide only the revised passage.",
		User: fmt.Sprintf("Rejected passage:\n\n%s\n\nUser feedback: %s", passage, feedback),
	}
}
