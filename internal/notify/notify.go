// Package notify delivers table events (template created, renamed,
// removed...) to whoever is listening. Delivery is best effort: failures
// are logged and never reach the caller.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Event names emitted by the table handlers.
const (
	EventTemplateCreated = "lg.template.created"
	EventTemplateUpdated = "lg.template.updated"
	EventTemplateCopied  = "lg.template.copied"
	EventTemplateRemoved = "lg.template.removed"
	EventFileParsed      = "lg.file.parsed"
)

// Notifier receives events.
type Notifier interface {
	Notify(ctx context.Context, event string, detail map[string]any)
}

// Log writes events to the default slog logger.
type Log struct{}

// Notify logs the event at info level.
func (Log) Notify(_ context.Context, event string, detail map[string]any) {
	args := make([]any, 0, 2+2*len(detail))
	args = append(args, "event", event)
	for k, v := range detail {
		args = append(args, k, v)
	}
	slog.Info("lg event", args...)
}

// message is the JSON payload published to Valkey.
type message struct {
	Event  string         `json:"event"`
	Detail map[string]any `json:"detail,omitempty"`
	At     time.Time      `json:"at"`
}

// Valkey publishes events as JSON on a pub/sub channel.
type Valkey struct {
	client  *redis.Client
	channel string
}

// NewValkey creates a publisher for channel.
func NewValkey(client *redis.Client, channel string) *Valkey {
	return &Valkey{client: client, channel: channel}
}

// Notify publishes the event.
func (v *Valkey) Notify(ctx context.Context, event string, detail map[string]any) {
	payload, err := json.Marshal(message{Event: event, Detail: detail, At: time.Now().UTC()})
	if err != nil {
		slog.Warn("notify encode error", "event", event, "error", err)
		return
	}
	if err := v.client.Publish(ctx, v.channel, payload).Err(); err != nil {
		slog.Warn("notify publish error", "event", event, "channel", v.channel, "error", err)
	}
}

// Multi fans an event out to several notifiers in order.
type Multi []Notifier

// Notify forwards the event to every notifier.
func (m Multi) Notify(ctx context.Context, event string, detail map[string]any) {
	for _, n := range m {
		n.Notify(ctx, event, detail)
	}
}
