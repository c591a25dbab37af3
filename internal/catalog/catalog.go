// Package catalog holds the immutable model registry: one ModelSpec per
// upstream model, with display metadata, capability flags, and per-million-token
// pricing. The registry is built once at startup from config and injected into
// the council; it is never mutated afterwards.
package catalog

// ReasoningEffort is the reasoning mode forwarded to the upstream provider.
// It is a pass-through: the council attaches it to the call unchanged.
type ReasoningEffort string

const (
	ReasoningNone    ReasoningEffort = ""
	ReasoningLow     ReasoningEffort = "low"
	ReasoningHigh    ReasoningEffort = "high"
	ReasoningEnabled ReasoningEffort = "enabled"
)

// ModelSpec describes a single selectable model.
type ModelSpec struct {
	ID             string          `json:"id"`       // OpenRouter model ID
	Name           string          `json:"name"`     // display name (e.g., "Claude Sonnet")
	Provider       string          `json:"provider"` // provider name (e.g., "Anthropic")
	Vision         bool            `json:"vision"`   // accepts image/file parts
	Reasoning      ReasoningEffort `json:"reasoning,omitempty"`
	BlendedPerMTok float64         `json:"blended_per_mtok"` // single blended $/M figure
	InputPerMTok   float64         `json:"input_per_mtok"`
	OutputPerMTok  float64         `json:"output_per_mtok"`
}

// Default prices for models missing from the registry.
const (
	defaultInputPrice  = 3.0
	defaultOutputPrice = 15.0
)

// defaultMaxSelection caps how many models one request may fan out to.
const defaultMaxSelection = 12

// Registry is a read-only lookup table of ModelSpecs.
type Registry struct {
	specs        map[string]ModelSpec
	order        []string
	maxSelection int
}

// NewRegistry builds a registry from a spec list. maxSelection <= 0 uses the
// default cap. Later duplicates of the same ID are ignored.
func NewRegistry(specs []ModelSpec, maxSelection int) *Registry {
	if maxSelection <= 0 {
		maxSelection = defaultMaxSelection
	}
	r := &Registry{
		specs:        make(map[string]ModelSpec, len(specs)),
		maxSelection: maxSelection,
	}
	for _, s := range specs {
		if _, ok := r.specs[s.ID]; ok {
			continue
		}
		r.specs[s.ID] = s
		r.order = append(r.order, s.ID)
	}
	return r
}

// Lookup returns the spec for a model ID.
func (r *Registry) Lookup(id string) (ModelSpec, bool) {
	s, ok := r.specs[id]
	return s, ok
}

// Resolve maps requested model IDs to specs, preserving request order.
// Unknown IDs are silently dropped, duplicates collapse to the first
// occurrence, and the result is capped at the selection limit.
func (r *Registry) Resolve(ids []string) []ModelSpec {
	seen := make(map[string]bool, len(ids))
	var out []ModelSpec
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		s, ok := r.specs[id]
		if !ok {
			continue
		}
		out = append(out, s)
		if len(out) == r.maxSelection {
			break
		}
	}
	return out
}

// Rates returns the input/output per-million-token prices for a model,
// falling back to defaults for unknown models or zero-priced specs.
func (r *Registry) Rates(id string) (input, output float64) {
	s, ok := r.specs[id]
	if !ok || (s.InputPerMTok == 0 && s.OutputPerMTok == 0) {
		return defaultInputPrice, defaultOutputPrice
	}
	return s.InputPerMTok, s.OutputPerMTok
}

// List returns all specs in registration order.
func (r *Registry) List() []ModelSpec {
	out := make([]ModelSpec, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.specs[id])
	}
	return out
}

// MaxSelection returns the per-request model cap.
func (r *Registry) MaxSelection() int {
	return r.maxSelection
}
