package domain

import (
	"context"
	"sync"

	"github.com/strivelab/backend/internal/common"
	"github.com/strivelab/backend/internal/gateway"
	"github.com/strivelab/backend/internal/model"
	"github.com/strivelab/backend/pkg/errorx"
	"github.com/strivelab/backend/pkg/xcontext"
)

// FriendsSubscription is a live view over one user's friends. Updates
// delivers a fresh aggregation after every relevant change; an undelivered
// update is replaced by the next one, never queued. The channel closes when
// the subscription stops, after the terminal error update if the underlying
// watch failed.
type FriendsSubscription struct {
	userID  string
	updates chan *model.FriendsUpdate
	watch   *gateway.ChallengeWatch

	mutex    sync.Mutex
	stopOnce sync.Once
	closed   bool
}

func newFriendsSubscription(userID string, watch *gateway.ChallengeWatch) *FriendsSubscription {
	return &FriendsSubscription{
		userID:  userID,
		updates: make(chan *model.FriendsUpdate, 1),
		watch:   watch,
	}
}

func (s *FriendsSubscription) UserID() string {
	return s.userID
}

func (s *FriendsSubscription) Updates() <-chan *model.FriendsUpdate {
	return s.updates
}

// Stop tears down the subscription. Safe to call more than once.
func (s *FriendsSubscription) Stop() {
	s.stopOnce.Do(func() {
		if s.watch != nil {
			s.watch.Stop()
			return
		}

		s.finish(nil)
	})
}

func (s *FriendsSubscription) push(update *model.FriendsUpdate) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.closed {
		return
	}

	select {
	case s.updates <- update:
	default:
		// Coalesce with the undelivered update.
		select {
		case <-s.updates:
		default:
		}
		s.updates <- update
	}
}

func (s *FriendsSubscription) finish(err error) {
	if err != nil {
		s.push(&model.FriendsUpdate{Error: err.Error()})
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	if !s.closed {
		s.closed = true
		close(s.updates)
	}
}

// Subscribe opens a live subscription over userID's friends. An empty
// friend set yields an already-complete subscription carrying one empty
// update. A prior subscription of the same user is stopped and replaced.
func (d *friendsDomain) Subscribe(ctx context.Context, userID string) (*FriendsSubscription, error) {
	userID, err := resolveUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	friendIDs, err := d.gateway.GetFriendIDs(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot resolve friends of %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	if len(friendIDs) == 0 {
		sub := newFriendsSubscription(userID, nil)
		d.replace(sub)
		sub.push(&model.FriendsUpdate{})
		sub.Stop()
		d.unregister(sub)
		return sub, nil
	}

	watch, err := d.gateway.SubscribeUserChallenges(ctx, friendIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot open challenge watch for %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	sub := newFriendsSubscription(userID, watch)
	d.replace(sub)
	go d.run(ctx, sub)
	return sub, nil
}

func (d *friendsDomain) run(ctx context.Context, sub *FriendsSubscription) {
	// Initial snapshot, then one refetch per change notification. The
	// notification payload is ignored; the aggregation always reloads.
	d.deliver(ctx, sub)
	for range sub.watch.Updates() {
		d.deliver(ctx, sub)
	}

	// Deregister before closing so a drained Updates channel implies the
	// registry no longer holds this handle.
	d.unregister(sub)
	sub.watch.Stop()
	sub.finish(sub.watch.Err())
}

func (d *friendsDomain) deliver(ctx context.Context, sub *FriendsSubscription) {
	agg, err := d.aggregate(ctx, sub.userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot aggregate friends of %s: %v", sub.userID, err)
		sub.push(&model.FriendsUpdate{Error: errorx.Unknown.Error()})
		return
	}

	sub.push(&model.FriendsUpdate{
		Friends:        agg.friends,
		SkippedRecords: agg.skipped,
		FailedFriends:  agg.failed,
	})
}

func (d *friendsDomain) replace(sub *FriendsSubscription) {
	d.registryMutex.Lock()
	prior, ok := d.subscriptions.Load(sub.userID)
	d.subscriptions.Store(sub.userID, sub)
	d.registryMutex.Unlock()

	if !ok {
		common.PromGauges[common.FriendsSubscriptionsOpen].WithLabelValues().Inc()
	}

	if ok && prior != sub {
		prior.Stop()
	}
}

func (d *friendsDomain) unregister(sub *FriendsSubscription) {
	d.registryMutex.Lock()
	defer d.registryMutex.Unlock()
	if current, ok := d.subscriptions.Load(sub.userID); ok && current == sub {
		d.subscriptions.Delete(sub.userID)
		common.PromGauges[common.FriendsSubscriptionsOpen].WithLabelValues().Dec()
	}
}
