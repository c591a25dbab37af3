// Package openrouter provides the HTTP client for OpenRouter chat completions
// with multipart (text/image/file) message content, retry logic, circuit
// breaker, and generation cost lookup.
package openrouter

import "encoding/json"

// Message is a single chat message. Content is a list of typed parts; a
// message with a single text part marshals as a plain string for
// compatibility with text-only models.
type Message struct {
	Role  string
	Parts []ContentPart
}

// ContentPart is one element of a multipart message body.
type ContentPart struct {
	Type     string    `json:"type"` // "text", "image_url", "file"
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
	File     *FileData `json:"file,omitempty"`
}

// ImageURL carries an image as a URL or data URI.
type ImageURL struct {
	URL string `json:"url"`
}

// FileData carries a document (e.g. PDF) as a data URI.
type FileData struct {
	Filename string `json:"filename,omitempty"`
	FileData string `json:"file_data"`
}

// Text builds a text part.
func Text(s string) ContentPart {
	return ContentPart{Type: "text", Text: s}
}

// Image builds an image part from a URL or data URI.
func Image(uri string) ContentPart {
	return ContentPart{Type: "image_url", ImageURL: &ImageURL{URL: uri}}
}

// File builds a file part from a data URI.
func File(name, uri string) ContentPart {
	return ContentPart{Type: "file", File: &FileData{Filename: name, FileData: uri}}
}

// SystemMessage builds a plain-text system message.
func SystemMessage(text string) Message {
	return Message{Role: "system", Parts: []ContentPart{Text(text)}}
}

// UserMessage builds a user message from content parts.
func UserMessage(parts ...ContentPart) Message {
	return Message{Role: "user", Parts: parts}
}

// messageJSON is the wire shape of a message.
type messageJSON struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

// MarshalJSON emits string content for single-text messages and an array of
// parts otherwise.
func (m Message) MarshalJSON() ([]byte, error) {
	var content json.RawMessage
	var err error
	if len(m.Parts) == 1 && m.Parts[0].Type == "text" {
		content, err = json.Marshal(m.Parts[0].Text)
	} else {
		content, err = json.Marshal(m.Parts)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(messageJSON{Role: m.Role, Content: content})
}

// UnmarshalJSON accepts both string and multipart content.
func (m *Message) UnmarshalJSON(data []byte) error {
	var raw messageJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.Role = raw.Role
	m.Parts = nil
	if len(raw.Content) == 0 {
		return nil
	}
	var text string
	if err := json.Unmarshal(raw.Content, &text); err == nil {
		m.Parts = []ContentPart{Text(text)}
		return nil
	}
	return json.Unmarshal(raw.Content, &m.Parts)
}

// Reasoning is the provider-specific reasoning-effort option. The council
// forwards a model's configured mode here unchanged.
type Reasoning struct {
	Effort  string `json:"effort,omitempty"` // "low", "high"
	Enabled *bool  `json:"enabled,omitempty"`
}

// ChatRequest is the request body for OpenRouter chat completions.
type ChatRequest struct {
	Model       string     `json:"model"`
	Messages    []Message  `json:"messages"`
	Reasoning   *Reasoning `json:"reasoning,omitempty"`
	Temperature *float64   `json:"temperature,omitempty"`
	MaxTokens   *int       `json:"max_tokens,omitempty"`
}

// ChatResponse is the response from OpenRouter chat completions. ID is the
// generation identifier, usable to query the exact billed cost afterwards.
type ChatResponse struct {
	ID      string     `json:"id"`
	Model   string     `json:"model"`
	Choices []Choice   `json:"choices"`
	Usage   TokenUsage `json:"usage"`
}

// Choice represents one completion choice from the model.
type Choice struct {
	Index        int           `json:"index"`
	Message      ChoiceMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

// ChoiceMessage is the assistant message inside a choice. Responses always
// use plain string content.
type ChoiceMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TokenUsage tracks token consumption for a single LLM call.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// TextContent extracts the text content from the first choice, if any.
func (r *ChatResponse) TextContent() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

// generationData is the billing record returned by the /generation endpoint.
type generationData struct {
	Data struct {
		ID        string  `json:"id"`
		TotalCost float64 `json:"total_cost"`
	} `json:"data"`
}
