package council

import "time"

// buildResult assembles the final record for one round. Pure assembly, no
// I/O. Success and failure counts are recomputed by scanning the settled
// results rather than trusting counters maintained along the way.
func buildResult(query string, results []ModelCallResult, synthesis, synthesizer string, synthCostUSD float64, synthEstimated bool, start time.Time) *AggregateResult {
	res := &AggregateResult{
		Query:             query,
		Responses:         results,
		Synthesis:         synthesis,
		ModelCount:        len(results),
		TotalCostUSD:      synthCostUSD,
		HasEstimatedCosts: synthEstimated,
		SynthesizerModel:  synthesizer,
		DurationMS:        time.Since(start).Milliseconds(),
		CompletedAt:       time.Now().UTC(),
	}

	for _, r := range results {
		if r.Success {
			res.SuccessCount++
		}
		res.TotalCostUSD += r.CostUSD
		if r.CostEstimated {
			res.HasEstimatedCosts = true
		}
	}

	return res
}

// countSuccesses scans settled results. Used instead of a running counter so
// no call path can drift the invariant successCount + failureCount == N.
func countSuccesses(results []ModelCallResult) int {
	n := 0
	for _, r := range results {
		if r.Success {
			n++
		}
	}
	return n
}
