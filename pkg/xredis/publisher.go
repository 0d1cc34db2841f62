package xredis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/strivelab/backend/pkg/pubsub"
)

type envelope struct {
	Key []byte `json:"key"`
	Msg []byte `json:"msg"`
}

type publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) pubsub.Publisher {
	return &publisher{client: client}
}

func (p *publisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	b, err := json.Marshal(envelope{Key: pack.Key, Msg: pack.Msg})
	if err != nil {
		return err
	}

	if err := p.client.Publish(ctx, topic, b).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}

	return nil
}

func (p *publisher) Stop(ctx context.Context) error {
	return nil
}
