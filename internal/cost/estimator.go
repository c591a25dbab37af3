// Package cost computes the monetary cost of one LLM call under a three-tier
// fallback: exact billed cost from the provider's generation record, then
// token-rate math from reported usage, then a character-length heuristic.
// Providers don't reliably report both exact billing and token counts
// synchronously, so the chain stops at the first tier that produces a nonzero
// figure and tags heuristic results as estimated for downstream
// reconciliation.
package cost

import (
	"context"
	"log/slog"
	"time"
)

// charsPerToken is the fixed ratio used by the character heuristic.
// Rough token estimate: 1 token ≈ 4 chars.
const charsPerToken = 4

// lookupTimeout bounds the generation-record fetch so a slow billing endpoint
// can't stall result assembly.
const lookupTimeout = 5 * time.Second

// Usage is the token-usage triple reported by a provider.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Estimate is the outcome of one cost computation. Estimated marks figures
// derived from the character heuristic rather than billing data or real usage.
type Estimate struct {
	USD       float64
	Estimated bool
}

// RateTable supplies per-million-token input/output prices for a model.
// Satisfied by catalog.Registry.
type RateTable interface {
	Rates(model string) (input, output float64)
}

// GenerationLookup fetches the exact billed cost for a settled generation.
// Satisfied by the OpenRouter client. A zero cost with nil error means the
// billing record isn't available.
type GenerationLookup interface {
	GenerationCost(ctx context.Context, generationID string) (float64, error)
}

// Estimator resolves call costs through the fallback chain.
type Estimator struct {
	rates  RateTable
	lookup GenerationLookup // nil disables the exact tier
	logger *slog.Logger
}

// NewEstimator creates an estimator. lookup may be nil, in which case the
// exact tier is skipped entirely.
func NewEstimator(rates RateTable, lookup GenerationLookup, logger *slog.Logger) *Estimator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Estimator{rates: rates, lookup: lookup, logger: logger}
}

// Estimate computes the cost of one call. usage may be nil, and any of
// generationID, promptText, outputText may be empty; each tier applies only
// when its inputs are present and stops the chain on a nonzero figure.
// When every tier comes up empty the cost is zero and not estimated.
func (e *Estimator) Estimate(ctx context.Context, model string, usage *Usage, generationID, promptText, outputText string) Estimate {
	tiers := []func(context.Context) (Estimate, bool){
		func(ctx context.Context) (Estimate, bool) {
			return e.exactCost(ctx, model, generationID)
		},
		func(context.Context) (Estimate, bool) {
			return e.tokenRateCost(model, usage)
		},
		func(context.Context) (Estimate, bool) {
			return e.heuristicCost(model, promptText, outputText)
		},
	}

	for _, tier := range tiers {
		if est, ok := tier(ctx); ok {
			return est
		}
	}
	return Estimate{}
}

// exactCost queries the billing-reconciliation endpoint for the generation's
// recorded cost. Lookup failures degrade to the next tier, never to an error.
func (e *Estimator) exactCost(ctx context.Context, model, generationID string) (Estimate, bool) {
	if e.lookup == nil || generationID == "" {
		return Estimate{}, false
	}

	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	usd, err := e.lookup.GenerationCost(ctx, generationID)
	if err != nil {
		e.logger.Debug("generation cost lookup failed, falling back",
			"model", model,
			"generation_id", generationID,
			"error", err,
		)
		return Estimate{}, false
	}
	if usd <= 0 {
		return Estimate{}, false
	}
	return Estimate{USD: usd, Estimated: false}, true
}

// tokenRateCost prices reported usage against the rate table. Real token
// counts priced at real rates are exact, not estimated.
func (e *Estimator) tokenRateCost(model string, usage *Usage) (Estimate, bool) {
	if usage == nil || (usage.PromptTokens == 0 && usage.CompletionTokens == 0) {
		return Estimate{}, false
	}
	return Estimate{USD: TokenRateCost(e.rates, model, *usage), Estimated: false}, true
}

// heuristicCost approximates token counts from character lengths and prices
// them at the same rates. Always tagged estimated.
func (e *Estimator) heuristicCost(model, promptText, outputText string) (Estimate, bool) {
	if outputText == "" {
		return Estimate{}, false
	}
	usage := Usage{
		PromptTokens:     len(promptText) / charsPerToken,
		CompletionTokens: len(outputText) / charsPerToken,
	}
	return Estimate{USD: TokenRateCost(e.rates, model, usage), Estimated: true}, true
}

// TokenRateCost prices a usage triple against the rate table:
// promptTokens/1e6 * input rate + completionTokens/1e6 * output rate.
func TokenRateCost(rates RateTable, model string, usage Usage) float64 {
	input, output := rates.Rates(model)
	return float64(usage.PromptTokens)/1_000_000*input +
		float64(usage.CompletionTokens)/1_000_000*output
}
