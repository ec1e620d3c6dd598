package ws

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

const redisChannelPrefix = "lawnpool:room:"

// RedisRelay fans room events out across instances. Broadcast publishes to
// Redis; Run feeds every published event into the local hub.
type RedisRelay struct {
	client *redis.Client
	hub    *Hub
	prefix string
}

func NewRedisRelay(client *redis.Client, hub *Hub) *RedisRelay {
	return &RedisRelay{client: client, hub: hub, prefix: redisChannelPrefix}
}

func (r *RedisRelay) Broadcast(ctx context.Context, room string, data []byte) error {
	if err := r.client.Publish(ctx, r.prefix+room, data).Err(); err != nil {
		return fmt.Errorf("publishing to %s: %w", room, err)
	}
	return nil
}

// Run relays Redis messages into the hub until ctx is done.
func (r *RedisRelay) Run(ctx context.Context) error {
	sub := r.client.PSubscribe(ctx, r.prefix+"*")
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribing to rooms: %w", err)
	}
	log.Info().Str("pattern", r.prefix+"*").Msg("redis relay subscribed")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			room := strings.TrimPrefix(msg.Channel, r.prefix)
			_ = r.hub.Broadcast(ctx, room, []byte(msg.Payload))
		}
	}
}
