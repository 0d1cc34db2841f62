package xredis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/strivelab/backend/pkg/pubsub"
)

type subscriber struct {
	client  *redis.Client
	topics  []string
	handler pubsub.SubscribeHandler
	inner   *redis.PubSub
}

func NewSubscriber(
	client *redis.Client,
	topics []string,
	handler pubsub.SubscribeHandler,
) pubsub.Subscriber {
	return &subscriber{
		client:  client,
		topics:  topics,
		handler: handler,
	}
}

func (s *subscriber) Subscribe(ctx context.Context) {
	s.inner = s.client.Subscribe(ctx, s.topics...)

	go func() {
		for msg := range s.inner.Channel() {
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				// A foreign payload on our topic. Skip it.
				continue
			}

			s.handler(ctx, &pubsub.Pack{Key: env.Key, Msg: env.Msg}, time.Now())
		}
	}()
}

func (s *subscriber) Stop(ctx context.Context) error {
	if s.inner == nil {
		return nil
	}

	return s.inner.Close()
}
