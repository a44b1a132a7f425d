package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const busChannel = "realtime:events"

// Envelope carries an event for one user across instances.
type Envelope struct {
	UserID string `json:"user_id"`
	Event  Event  `json:"event"`
}

// Bus fans an envelope out to every instance, including the sender.
type Bus interface {
	Publish(ctx context.Context, env Envelope) error
	Subscribe(ctx context.Context, deliver func(Envelope)) error
}

type RedisBus struct {
	client  *redis.Client
	channel string
	log     *zap.Logger
}

func NewRedisBus(client *redis.Client, log *zap.Logger) *RedisBus {
	return &RedisBus{
		client:  client,
		channel: busChannel,
		log:     log.With(zap.String("component", "realtime_bus")),
	}
}

func (b *RedisBus) Publish(ctx context.Context, env Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish envelope: %w", err)
	}
	return nil
}

// Subscribe blocks until ctx is done, calling deliver for each envelope.
func (b *RedisBus) Subscribe(ctx context.Context, deliver func(Envelope)) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", b.channel, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var env Envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				b.log.Warn("Dropping malformed envelope", zap.Error(err))
				continue
			}
			deliver(env)
		}
	}
}
