// Package redis publishes cache revalidation batches over Redis pub/sub.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"
)

// Message is the payload frontends subscribe to.
type Message struct {
	Paths []string  `json:"paths"`
	At    time.Time `json:"at"`
}

type Publisher struct {
	client  goredis.UniversalClient
	channel string
	now     func() time.Time
}

// Connect parses a redis:// URL and pings the server.
func Connect(ctx context.Context, url, channel string) (*Publisher, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewPublisher(client, channel), nil
}

func NewPublisher(client goredis.UniversalClient, channel string) *Publisher {
	return &Publisher{client: client, channel: channel, now: time.Now}
}

func (p *Publisher) Publish(ctx context.Context, paths []string) error {
	body, err := json.Marshal(Message{Paths: paths, At: p.now().UTC()})
	if err != nil {
		return err
	}
	if err := p.client.Publish(ctx, p.channel, body).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", p.channel, err)
	}
	return nil
}

func (p *Publisher) Close() error { return p.client.Close() }
