package pubsub

import "context"

// Pack is the unit crossing the change-stream transport. Key identifies the
// record owner, Msg carries an opaque payload.
type Pack struct {
	Key []byte
	Msg []byte
}

type Publisher interface {
	Publish(ctx context.Context, topic string, pack *Pack) error
	Stop(ctx context.Context) error
}
