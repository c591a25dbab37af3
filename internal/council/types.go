// Package council runs one question against many models at once: it fans out
// one upstream call per selected model, streams a progress event as each call
// settles, prices every call, and folds the successful answers into a single
// synthesis pass.
package council

import (
	"time"

	"github.com/leandrotocalini/quorum/internal/classify"
	"github.com/leandrotocalini/quorum/internal/cost"
)

// AttachmentKind distinguishes image from document attachments.
type AttachmentKind string

const (
	AttachmentImage AttachmentKind = "image"
	AttachmentFile  AttachmentKind = "file"
)

// Attachment is pre-decoded attachment content. Validation and size checks
// happen upstream; the council only decides whether a model can see it.
type Attachment struct {
	Kind    AttachmentKind `json:"kind"`
	Name    string         `json:"name,omitempty"`
	DataURI string         `json:"dataUri"`
}

// Request is one round: a query fanned out to the selected models.
type Request struct {
	Query                string       `json:"query"`
	ModelIDs             []string     `json:"models"`
	Synthesizer          string       `json:"synthesizer,omitempty"`
	SynthesisInstruction string       `json:"synthesisPrompt,omitempty"`
	Attachments          []Attachment `json:"attachments,omitempty"`

	// APIKey is the caller-supplied credential (BYOK). Empty means the
	// server-held key. Never serialized.
	APIKey string `json:"-"`
}

// ModelCallResult is the outcome of one dispatched model call. Created when
// the call settles and immutable afterwards; it belongs to exactly one round.
type ModelCallResult struct {
	Model         string        `json:"model"`
	Name          string        `json:"name"`
	Response      string        `json:"response"` // empty on failure
	Success       bool          `json:"success"`
	Error         string        `json:"error,omitempty"`
	ErrorCode     classify.Code `json:"errorCode,omitempty"`
	DurationMS    int64         `json:"durationMs"`
	Tokens        *cost.Usage   `json:"tokens,omitempty"`
	CostUSD       float64       `json:"costUsd"`
	CostEstimated bool          `json:"costEstimated"`
}

// AggregateResult is the final record for one round. Responses are in
// dispatch order, not completion order, so runs are comparable.
type AggregateResult struct {
	Query             string            `json:"query"`
	Responses         []ModelCallResult `json:"responses"`
	Synthesis         string            `json:"synthesis"`
	DurationMS        int64             `json:"durationMs"`
	ModelCount        int               `json:"modelCount"`
	SuccessCount      int               `json:"successCount"`
	TotalCostUSD      float64           `json:"totalCostUsd"`
	HasEstimatedCosts bool              `json:"hasEstimatedCosts"`
	CompletedAt       time.Time         `json:"completedAt"`
	SynthesizerModel  string            `json:"synthesizerModel"`
}
