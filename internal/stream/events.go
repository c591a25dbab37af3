// Package stream carries per-request progress events from the council to a
// client over a single server-to-client channel. Each request's stream emits
// any number of model_complete events, at most one synthesis_start, and then
// exactly one terminal event: complete or error. There is no consumer-side
// flow control; events are small and flushed as they occur.
package stream

// EventName tags the event variant on the wire.
type EventName string

const (
	EventModelComplete  EventName = "model_complete"
	EventSynthesisStart EventName = "synthesis_start"
	EventComplete       EventName = "complete"
	EventError          EventName = "error"
)

// Event is one progress record. Data is the JSON payload for the variant:
// ModelCompletePayload, an empty struct, the aggregate result, or
// ErrorPayload respectively.
type Event struct {
	Name EventName
	Data any
}

// ModelCompletePayload reports one settled upstream call.
type ModelCompletePayload struct {
	Model     string `json:"model"`
	Success   bool   `json:"success"`
	ErrorCode string `json:"errorCode,omitempty"`
}

// ErrorPayload is the terminal error variant.
type ErrorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ModelComplete builds a model_complete event.
func ModelComplete(model string, success bool, errorCode string) Event {
	return Event{
		Name: EventModelComplete,
		Data: ModelCompletePayload{Model: model, Success: success, ErrorCode: errorCode},
	}
}

// SynthesisStart builds the querying → synthesizing phase transition event.
func SynthesisStart() Event {
	return Event{Name: EventSynthesisStart, Data: struct{}{}}
}

// Complete builds the terminal success event carrying the aggregate result.
func Complete(result any) Event {
	return Event{Name: EventComplete, Data: result}
}

// Error builds the terminal error event.
func Error(message, code string) Event {
	return Event{Name: EventError, Data: ErrorPayload{Message: message, Code: code}}
}
