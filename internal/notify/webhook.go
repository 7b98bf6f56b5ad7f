package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/memberhub/memberledger/internal/config"
	"github.com/memberhub/memberledger/internal/events"
	"go.uber.org/zap"
)

const (
	maxRetries    = 3
	retryInterval = time.Second * 1
)

type HTTPClient interface {
	Post(url, contentType string, body io.Reader) (statusCode int, respBody []byte, err error)
}

// Notifier pushes change events to an external webhook, one at a time so the
// receiver sees them in publish order.
type Notifier struct {
	url    string
	client HTTPClient
	broker *events.Broker
}

func New(cfg *config.Config, client HTTPClient, broker *events.Broker) *Notifier {
	return &Notifier{
		url:    cfg.WebhookURL,
		client: client,
		broker: broker,
	}
}

func (n *Notifier) Start(ctx context.Context) {
	if n.url == "" {
		zap.L().Info("Webhook notifier disabled, no url configured")
		return
	}

	ch, cancel := n.broker.Subscribe()
	zap.L().Info("Webhook notifier started", zap.String("url", n.url))

	go func() {
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				zap.L().Info("Context canceled, stopping webhook notifier")
				return
			case e, ok := <-ch:
				if !ok {
					return
				}
				n.send(ctx, e)
			}
		}
	}()
}

func (n *Notifier) send(ctx context.Context, e events.Event) {
	body, err := json.Marshal(e)
	if err != nil {
		zap.L().Error("Failed to marshal change event", zap.Error(err))
		return
	}

	for attempt := 1; attempt <= maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return
		default:
		}

		statusCode, _, err := n.client.Post(n.url, "application/json", bytes.NewReader(body))
		if err == nil && statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices {
			return
		}

		zap.L().Warn("Webhook delivery failed, retrying",
			zap.String("collection", string(e.Collection)),
			zap.Int("attempt", attempt),
			zap.Int("status", statusCode),
			zap.Error(err),
		)
		if attempt < maxRetries {
			time.Sleep(retryInterval * time.Duration(attempt))
		}
	}

	zap.L().Error("Webhook delivery dropped after retries",
		zap.String("collection", string(e.Collection)),
		zap.Int("userID", e.UserID),
	)
}
