// Package alert posts operational alerts to Slack. The council fires these
// from detached goroutines, so every method here swallows its errors after
// logging — an alert failure must never surface into a round.
package alert

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/slack-go/slack"
)

// postTimeout bounds each webhook post.
const postTimeout = 10 * time.Second

// Notifier posts alerts to a Slack incoming webhook.
type Notifier struct {
	webhookURL string
	logger     *slog.Logger
	postFn     func(ctx context.Context, url string, msg *slack.WebhookMessage) error // for testing
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(n *Notifier) {
		n.logger = l
	}
}

// WithPostFunc overrides the webhook post function (for testing).
func WithPostFunc(fn func(ctx context.Context, url string, msg *slack.WebhookMessage) error) Option {
	return func(n *Notifier) {
		n.postFn = fn
	}
}

// New creates a Notifier for the given Slack webhook URL.
func New(webhookURL string, opts ...Option) *Notifier {
	n := &Notifier{
		webhookURL: webhookURL,
		logger:     slog.Default(),
		postFn:     slack.PostWebhookContext,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// CreditExhausted reports that the shared server credential ran out of
// credits during a call to the given model. Safe to call from a detached
// goroutine; never returns an error.
func (n *Notifier) CreditExhausted(model, detail string) {
	ctx, cancel := context.WithTimeout(context.Background(), postTimeout)
	defer cancel()

	msg := &slack.WebhookMessage{
		Text: fmt.Sprintf(":rotating_light: OpenRouter credits exhausted (model %s): %s", model, detail),
	}
	if err := n.postFn(ctx, n.webhookURL, msg); err != nil {
		n.logger.Warn("credit alert failed", "model", model, "error", err)
		return
	}
	n.logger.Info("credit alert posted", "model", model)
}
