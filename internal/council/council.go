package council

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leandrotocalini/quorum/internal/catalog"
	"github.com/leandrotocalini/quorum/internal/classify"
	"github.com/leandrotocalini/quorum/internal/cost"
	"github.com/leandrotocalini/quorum/internal/provider/openrouter"
	"github.com/leandrotocalini/quorum/internal/stream"
)

// Configuration failures surfaced before any upstream call is made.
var (
	ErrNoCredential = errors.New("no API key available: supply one with the request or configure a server key")
	ErrNoModels     = errors.New("no valid models selected")
)

// LLMProvider makes chat completion calls and resolves generation billing
// records. Satisfied by the OpenRouter client.
type LLMProvider interface {
	ChatCompletion(ctx context.Context, req openrouter.ChatRequest) (*openrouter.ChatResponse, error)
	GenerationCost(ctx context.Context, generationID string) (float64, error)
}

// EventSink receives progress events for one round. Satisfied by the SSE
// writer and the WebSocket sink.
type EventSink interface {
	Send(ev stream.Event) error
}

// Alerter receives the credit-exhaustion alert. Implementations must be safe
// to call from a detached goroutine; the council never waits for them.
type Alerter interface {
	CreditExhausted(model, detail string)
}

// Coordinator runs rounds. One Coordinator serves many concurrent rounds;
// all per-round state lives on the stack of Run.
type Coordinator struct {
	registry           *catalog.Registry
	providerFor        func(apiKey string) LLMProvider
	serverKey          string
	defaultSynthesizer string
	alerter            Alerter
	logger             *slog.Logger
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithServerKey sets the server-held fallback credential.
func WithServerKey(key string) Option {
	return func(c *Coordinator) {
		c.serverKey = key
	}
}

// WithDefaultSynthesizer sets the synthesis model used when a round doesn't
// name one.
func WithDefaultSynthesizer(id string) Option {
	return func(c *Coordinator) {
		c.defaultSynthesizer = id
	}
}

// WithAlerter sets the credit-exhaustion notifier.
func WithAlerter(a Alerter) Option {
	return func(c *Coordinator) {
		c.alerter = a
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = l
	}
}

// New creates a Coordinator. providerFor builds a provider bound to one API
// key; it is called once per round so BYOK rounds get their own client.
func New(registry *catalog.Registry, providerFor func(apiKey string) LLMProvider, opts ...Option) *Coordinator {
	c := &Coordinator{
		registry:           registry,
		providerFor:        providerFor,
		defaultSynthesizer: catalog.DefaultSynthesizer,
		logger:             slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes one round: resolve models, fan out, stream completions,
// synthesize, and emit exactly one terminal event — complete on success,
// error otherwise. The returned result is non-nil iff complete was emitted.
//
// All dispatched calls are waited for; no call's failure aborts or delays a
// sibling. There is no early exit and no per-call timeout beyond the HTTP
// client's own — callers needing an SLA bound ctx at the transport boundary.
func (c *Coordinator) Run(ctx context.Context, req Request, sink EventSink) (*AggregateResult, error) {
	start := time.Now()

	key := req.APIKey
	byok := key != ""
	if key == "" {
		key = c.serverKey
	}
	if key == "" {
		c.sendEvent(sink, stream.Error(ErrNoCredential.Error(), "NO_CREDENTIAL"))
		return nil, ErrNoCredential
	}

	specs := c.registry.Resolve(req.ModelIDs)
	if len(specs) == 0 {
		c.sendEvent(sink, stream.Error(ErrNoModels.Error(), "NO_MODELS"))
		return nil, ErrNoModels
	}

	provider := c.providerFor(key)
	estimator := cost.NewEstimator(c.registry, provider, c.logger)

	// Each call owns its slot by index; the settled channel carries slot
	// indexes in actual completion order so events go out FIFO as calls
	// finish, while the results slice keeps dispatch order.
	results := make([]ModelCallResult, len(specs))
	settled := make(chan int, len(specs))
	var alertOnce sync.Once

	g, gctx := errgroup.WithContext(ctx)
	for i, spec := range specs {
		g.Go(func() error {
			results[i] = c.queryModel(gctx, provider, estimator, spec, req, byok, &alertOnce)
			settled <- i
			return nil
		})
	}

	for range specs {
		i := <-settled
		r := results[i]
		c.sendEvent(sink, stream.ModelComplete(r.Model, r.Success, string(r.ErrorCode)))
	}
	g.Wait() //nolint:errcheck // workers never return errors

	if countSuccesses(results) == 0 {
		res := buildResult(req.Query, results, AllFailedSynthesis, c.synthesizerID(req), 0, false, start)
		c.sendEvent(sink, stream.Complete(res))
		return res, nil
	}

	c.sendEvent(sink, stream.SynthesisStart())

	synthesis, synthCost, err := c.synthesize(ctx, provider, estimator, req, results)
	if err != nil {
		// Synthesis failure is fatal to the round: an explicit error beats
		// a result with no synthesis.
		c.logger.Error("synthesis failed", "synthesizer", c.synthesizerID(req), "error", err)
		c.sendEvent(sink, stream.Error("synthesis failed: "+err.Error(), string(classify.Classify(err.Error()))))
		return nil, fmt.Errorf("synthesis: %w", err)
	}

	res := buildResult(req.Query, results, synthesis, c.synthesizerID(req), synthCost.USD, synthCost.Estimated, start)
	c.sendEvent(sink, stream.Complete(res))
	return res, nil
}

// queryModel issues one upstream call and settles it into a ModelCallResult,
// success or failure. Never returns an error: per-model failures are data.
func (c *Coordinator) queryModel(ctx context.Context, provider LLMProvider, estimator *cost.Estimator, spec catalog.ModelSpec, req Request, byok bool, alertOnce *sync.Once) ModelCallResult {
	callStart := time.Now()

	messages := buildMessages(spec, req.Query, req.Attachments)
	chatReq := openrouter.ChatRequest{
		Model:     spec.ID,
		Messages:  messages,
		Reasoning: reasoningOption(spec.Reasoning),
	}

	resp, err := provider.ChatCompletion(ctx, chatReq)
	duration := time.Since(callStart)

	if err != nil {
		code := classify.Classify(err.Error())

		// Alert once per round, only when burning the shared server key.
		// Detached on purpose: the alert must never block or fail the round.
		if code == classify.CreditExhausted && !byok && c.alerter != nil {
			detail := err.Error()
			alertOnce.Do(func() {
				go c.alerter.CreditExhausted(spec.ID, detail)
			})
		}

		c.logger.Warn("model call failed",
			"model", spec.ID,
			"error", err,
			"error_code", code,
			"duration", duration,
		)
		return ModelCallResult{
			Model:      spec.ID,
			Name:       spec.Name,
			Error:      err.Error(),
			ErrorCode:  code,
			DurationMS: duration.Milliseconds(),
		}
	}

	output := resp.TextContent()
	var usage *cost.Usage
	if resp.Usage.PromptTokens > 0 || resp.Usage.CompletionTokens > 0 {
		usage = &cost.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}

	est := estimator.Estimate(ctx, spec.ID, usage, resp.ID, promptText(messages), output)

	c.logger.Info("model completed",
		"model", spec.ID,
		"tokens", resp.Usage.TotalTokens,
		"cost_usd", est.USD,
		"duration", duration,
	)

	return ModelCallResult{
		Model:         spec.ID,
		Name:          spec.Name,
		Response:      output,
		Success:       true,
		DurationMS:    duration.Milliseconds(),
		Tokens:        usage,
		CostUSD:       est.USD,
		CostEstimated: est.Estimated,
	}
}

// synthesize issues the single synthesis call over the successful outputs.
func (c *Coordinator) synthesize(ctx context.Context, provider LLMProvider, estimator *cost.Estimator, req Request, results []ModelCallResult) (string, cost.Estimate, error) {
	prompt := buildSynthesisPrompt(req.Query, req.SynthesisInstruction, results)
	chatReq := openrouter.ChatRequest{
		Model: c.synthesizerID(req),
		Messages: []openrouter.Message{
			openrouter.UserMessage(openrouter.Text(prompt)),
		},
	}

	resp, err := provider.ChatCompletion(ctx, chatReq)
	if err != nil {
		return "", cost.Estimate{}, err
	}

	output := resp.TextContent()
	var usage *cost.Usage
	if resp.Usage.PromptTokens > 0 || resp.Usage.CompletionTokens > 0 {
		usage = &cost.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}
	est := estimator.Estimate(ctx, chatReq.Model, usage, resp.ID, prompt, output)

	return output, est, nil
}

// synthesizerID resolves the synthesis model for a round.
func (c *Coordinator) synthesizerID(req Request) string {
	if req.Synthesizer != "" {
		return req.Synthesizer
	}
	return c.defaultSynthesizer
}

// sendEvent pushes an event, logging (not failing) when the client is gone.
func (c *Coordinator) sendEvent(sink EventSink, ev stream.Event) {
	if err := sink.Send(ev); err != nil {
		c.logger.Warn("dropping progress event", "event", ev.Name, "error", err)
	}
}
