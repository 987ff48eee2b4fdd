package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/bobmcallan/agripulse/internal/client"
	"github.com/bobmcallan/agripulse/internal/common"
	"github.com/bobmcallan/agripulse/internal/models"
)

// Bridge forwards click events to the host embedding the dashboard.
// Notify must not block and never reports failure to the caller.
type Bridge interface {
	Notify(ctx context.Context, ev models.ClickEvent)
}

// NoopBridge drops every event.
type NoopBridge struct{}

func (NoopBridge) Notify(context.Context, models.ClickEvent) {}

// WebhookBridge posts each event to a host webhook from its own goroutine.
type WebhookBridge struct {
	client  *client.HostClient
	timeout time.Duration
	logger  *common.Logger
	wg      sync.WaitGroup
}

// NewWebhookBridge creates a bridge posting to url.
func NewWebhookBridge(url string, timeout time.Duration, logger *common.Logger) *WebhookBridge {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &WebhookBridge{
		client:  client.NewHostClient(url, timeout),
		timeout: timeout,
		logger:  logger,
	}
}

// Notify posts ev in the background. The post outlives ctx cancellation but
// is bounded by the bridge timeout.
func (b *WebhookBridge) Notify(ctx context.Context, ev models.ClickEvent) {
	msg := ev.Message()
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		postCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.timeout)
		defer cancel()

		if err := b.client.PostMessage(postCtx, msg); err != nil {
			b.logger.Warn().Str("message", msg).Str("url", b.client.URL()).Err(err).Msg("host bridge notification failed")
			return
		}
		b.logger.Debug().Str("message", msg).Msg("host bridge notified")
	}()
}

// Wait blocks until in-flight notifications finish.
func (b *WebhookBridge) Wait() {
	b.wg.Wait()
}
