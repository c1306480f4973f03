package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectRejectsBadURL(t *testing.T) {
	_, err := Connect(context.Background(), "http://not-redis", "ch")
	assert.ErrorContains(t, err, "parse redis url")
}

func TestPublishWrapsTransportError(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	p := NewPublisher(client, "backoffice:revalidate")
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err := p.Publish(ctx, []string{"/admin/users"})
	assert.ErrorContains(t, err, "publish to backoffice:revalidate")
}

func TestMessageShape(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	body, err := json.Marshal(Message{Paths: []string{"/salons"}, At: at})
	require.NoError(t, err)
	assert.JSONEq(t, `{"paths":["/salons"],"at":"2026-03-01T12:00:00Z"}`, string(body))
}
