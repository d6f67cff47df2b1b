// Package service holds side effects that sit next to request handling,
// currently the admin audit publisher.
package service

import (
    "context"
    "encoding/json"
    "fmt"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "go.uber.org/zap"

    q "github.com/iliyamo/fivec-menu/internal/queue"
)

// Publisher sends AdminChangeEvent messages to the admin.changes queue.
// Without a broker URL, events are written straight to the local sink; with
// neither they are dropped.
type Publisher struct {
    url    string
    direct q.Sink
    log    *zap.Logger
}

// NewPublisher returns a Publisher for the AMQP url (may be empty).  sink
// is only used when url is empty, since otherwise the consumer records.
func NewPublisher(url string, sink q.Sink, log *zap.Logger) *Publisher {
    if log == nil {
        log = zap.NewNop()
    }
    p := &Publisher{url: url, log: log.Named("audit-publisher")}
    if url == "" {
        p.direct = sink
    }
    return p
}

// Enabled reports whether events go anywhere.
func (p *Publisher) Enabled() bool { return p != nil && (p.url != "" || p.direct != nil) }

// Publish dials, declares the queue and publishes one persistent message.
// Connections are not pooled: admin writes are rare.
func (p *Publisher) Publish(ctx context.Context, event q.AdminChangeEvent) error {
    if !p.Enabled() {
        return nil
    }
    if p.url == "" {
        if err := p.direct.Record(ctx, event.Entry()); err != nil {
            return fmt.Errorf("record %s: %w", event.ID, err)
        }
        return nil
    }
    conn, err := amqp.Dial(p.url)
    if err != nil {
        return fmt.Errorf("rabbitmq dial: %w", err)
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("rabbitmq channel: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if _, err := ch.QueueDeclare(q.AuditQueueName, true, false, false, false, nil); err != nil {
        return fmt.Errorf("rabbitmq queue declare: %w", err)
    }

    body, err := json.Marshal(event)
    if err != nil {
        return fmt.Errorf("marshal event: %w", err)
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        MessageId:    event.ID,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", q.AuditQueueName, false, false, pub); err != nil {
        return fmt.Errorf("rabbitmq publish: %w", err)
    }
    return nil
}

// PublishAsync publishes in the background so the admin's request does not
// wait on the broker.  Failures are logged.
func (p *Publisher) PublishAsync(event q.AdminChangeEvent) {
    if !p.Enabled() {
        return
    }
    go func() {
        ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
        defer cancel()
        if err := p.Publish(ctx, event); err != nil {
            p.log.Warn("publish admin change failed",
                zap.String("event_id", event.ID),
                zap.String("action", event.Action),
                zap.String("resource", event.Resource),
                zap.Error(err))
        }
    }()
}
