package pubsub

import (
	"context"
	"time"
)

type SubscribeHandler func(context.Context, *Pack, time.Time)

type Subscriber interface {
	// Subscribe starts consuming the configured topic and calls the handler
	// for every pack. It returns once the consumer loop is running.
	Subscribe(ctx context.Context)

	Stop(ctx context.Context) error
}
