package council

import (
	"fmt"
	"strings"

	"github.com/leandrotocalini/quorum/internal/catalog"
	"github.com/leandrotocalini/quorum/internal/provider/openrouter"
)

// systemInstruction is sent to every fanned-out model unchanged.
const systemInstruction = "You are one of several AI assistants answering the same question independently. Answer directly and completely using your own knowledge and judgment."

// buildMessages constructs the per-model prompt. Models with vision get the
// attachments as typed parts; models without get a plain-text note ahead of
// the query, so every model sees a textually complete question and the
// synthesizer can reason about "model X couldn't see the image" uniformly.
func buildMessages(spec catalog.ModelSpec, query string, atts []Attachment) []openrouter.Message {
	system := openrouter.SystemMessage(systemInstruction)

	if len(atts) == 0 {
		return []openrouter.Message{system, openrouter.UserMessage(openrouter.Text(query))}
	}

	if !spec.Vision {
		return []openrouter.Message{
			system,
			openrouter.UserMessage(openrouter.Text(blindnessNote(atts) + query)),
		}
	}

	parts := []openrouter.ContentPart{openrouter.Text(query)}
	for _, a := range atts {
		switch a.Kind {
		case AttachmentImage:
			parts = append(parts, openrouter.Image(a.DataURI))
		case AttachmentFile:
			parts = append(parts, openrouter.File(a.Name, a.DataURI))
		}
	}
	return []openrouter.Message{system, openrouter.UserMessage(parts...)}
}

// blindnessNote describes attachments a model cannot see. The note precedes
// the query text so the model's answer acknowledges the gap.
func blindnessNote(atts []Attachment) string {
	var images, files int
	for _, a := range atts {
		switch a.Kind {
		case AttachmentImage:
			images++
		case AttachmentFile:
			files++
		}
	}

	var kinds []string
	if images > 0 {
		kinds = append(kinds, fmt.Sprintf("%d image(s)", images))
	}
	if files > 0 {
		kinds = append(kinds, fmt.Sprintf("%d file(s)", files))
	}
	if len(kinds) == 0 {
		return ""
	}

	return fmt.Sprintf("[Note: %s were attached to this question but are not visible to you.] ",
		strings.Join(kinds, " and "))
}

// promptText flattens the text parts of a message list, for the character
// heuristic of the cost estimator.
func promptText(messages []openrouter.Message) string {
	var b strings.Builder
	for _, m := range messages {
		for _, p := range m.Parts {
			if p.Type == "text" {
				b.WriteString(p.Text)
			}
		}
	}
	return b.String()
}

// reasoningOption maps a spec's reasoning mode to the provider option.
// This is a pass-through, not a policy decision.
func reasoningOption(effort catalog.ReasoningEffort) *openrouter.Reasoning {
	switch effort {
	case catalog.ReasoningNone:
		return nil
	case catalog.ReasoningEnabled:
		enabled := true
		return &openrouter.Reasoning{Enabled: &enabled}
	default:
		return &openrouter.Reasoning{Effort: string(effort)}
	}
}
