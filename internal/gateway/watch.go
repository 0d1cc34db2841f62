package gateway

import (
	"context"
	"sync"

	"github.com/strivelab/backend/internal/entity"
	"github.com/strivelab/backend/pkg/pubsub"
)

// ChallengeWatch is a live change stream over a fixed set of enrollment
// owners. Updates delivers the latest matching records after every change
// notification; stale undelivered batches are replaced, never queued. The
// channel closes when the watch stops or fails, after which Err reports the
// terminal error if any.
type ChallengeWatch struct {
	updates    chan []entity.UserChallenge
	subscriber pubsub.Subscriber

	mutex    sync.Mutex
	stopOnce sync.Once
	closed   bool
	err      error
}

func newChallengeWatch() *ChallengeWatch {
	return &ChallengeWatch{updates: make(chan []entity.UserChallenge, 1)}
}

func (w *ChallengeWatch) Updates() <-chan []entity.UserChallenge {
	return w.updates
}

func (w *ChallengeWatch) Err() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.err
}

// Stop tears down the underlying subscriber and closes Updates. Safe to call
// more than once.
func (w *ChallengeWatch) Stop() {
	w.stopOnce.Do(func() {
		if w.subscriber != nil {
			_ = w.subscriber.Stop(context.Background())
		}

		w.mutex.Lock()
		defer w.mutex.Unlock()
		w.closeLocked()
	})
}

func (w *ChallengeWatch) emit(batch []entity.UserChallenge) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.closed {
		return
	}

	select {
	case w.updates <- batch:
	default:
		// Coalesce with the undelivered batch.
		select {
		case <-w.updates:
		default:
		}
		w.updates <- batch
	}
}

func (w *ChallengeWatch) fail(err error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.closed {
		return
	}

	w.err = err
	w.closeLocked()
}

func (w *ChallengeWatch) closeLocked() {
	if !w.closed {
		w.closed = true
		close(w.updates)
	}
}
