package council

import (
	"strings"
)

// DefaultSynthesisInstruction directs the synthesizer when the caller doesn't
// supply one.
const DefaultSynthesisInstruction = "Below are several AI models' independent answers to the same question. Write one unified answer: combine their strongest points, note where they genuinely disagree, and resolve disagreements where the evidence allows."

// AllFailedSynthesis is the verbatim synthesis text of a round where every
// model failed. It is a fixed fallback string, never a model output.
const AllFailedSynthesis = "All models failed to respond. No synthesis available."

// queryEchoLimit bounds the query echoed into the synthesis prompt.
const queryEchoLimit = 600

// buildSynthesisPrompt concatenates each successful model's name and output
// under the synthesis instruction. Failed results are excluded entirely: a
// failed model's empty text must never reach the synthesizer.
func buildSynthesisPrompt(query, instruction string, results []ModelCallResult) string {
	if instruction == "" {
		instruction = DefaultSynthesisInstruction
	}

	var b strings.Builder
	b.WriteString(instruction)
	b.WriteString("\n\nQuestion: ")
	b.WriteString(truncate(query, queryEchoLimit))
	b.WriteString("\n\n")

	for _, r := range results {
		if !r.Success {
			continue
		}
		b.WriteString("--- ")
		b.WriteString(r.Name)
		b.WriteString(" ---\n")
		b.WriteString(r.Response)
		b.WriteString("\n\n")
	}

	return b.String()
}

// truncate clips s to at most n bytes, appending an ellipsis when clipped.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
