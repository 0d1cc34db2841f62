package domain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/strivelab/backend/internal/entity"
	"github.com/strivelab/backend/internal/gateway"
	"github.com/strivelab/backend/internal/model"
	"github.com/strivelab/backend/internal/repository"
	"github.com/strivelab/backend/pkg/pubsub"
	"github.com/strivelab/backend/pkg/testutil"
	"github.com/strivelab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestFriendsDomain(bus *testutil.InMemoryBus) *friendsDomain {
	var factory gateway.SubscriberFactory
	if bus != nil {
		factory = bus.Subscriber
	}

	return NewFriendsDomain(gateway.NewDatastoreGateway(
		repository.NewUserRepository(),
		repository.NewChallengeRepository(),
		repository.NewUserChallengeRepository(),
		repository.NewFriendshipRepository(),
		factory,
	))
}

// flakyGateway fails profile reads for selected users.
type flakyGateway struct {
	gateway.Gateway
	failUsers map[string]bool
}

func (g flakyGateway) GetUser(ctx context.Context, id string) (*entity.User, error) {
	if g.failUsers[id] {
		return nil, errors.New("profile store unavailable")
	}

	return g.Gateway.GetUser(ctx, id)
}

// brokenChallengeGateway fails every challenge read.
type brokenChallengeGateway struct {
	gateway.Gateway
}

func (g brokenChallengeGateway) GetChallenge(
	ctx context.Context, id string,
) (*entity.Challenge, error) {
	return nil, errors.New("challenge store unavailable")
}

func recordIDs(records []model.FriendWithProgress) []string {
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}

	return ids
}

func Test_friendsDomain_GetFriendsWithProgress(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d := newTestFriendsDomain(nil)

	// Alice has one active enrollment (the paused one is excluded), Carol
	// has none and still contributes exactly one bare record.
	resp, err := d.GetFriendsWithProgress(ctx, &model.GetFriendsWithProgressRequest{
		UserID: testutil.Ben.ID,
	})
	require.NoError(t, err)
	require.Zero(t, resp.FailedFriends)
	require.ElementsMatch(t, []string{"alice_uc1", "carol"}, recordIDs(resp.Friends))

	for _, record := range resp.Friends {
		switch record.ID {
		case "alice_uc1":
			require.NotNil(t, record.Challenge)
			require.NotNil(t, record.UserChallenge)
			require.Equal(t, "Morning Run", record.Challenge.Title)
			require.Equal(t, "Day 3, 3/10 tasks", record.DisplayProgress)
		case "carol":
			require.Nil(t, record.Challenge)
			require.Nil(t, record.UserChallenge)
			require.Equal(t, "No active challenge", record.DisplayProgress)
		}
	}
}

func Test_friendsDomain_GetFriendsWithProgress_multipleActiveEnrollments(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	err := repository.NewUserChallengeRepository().Create(ctx, &entity.UserChallenge{
		Base:        entity.Base{ID: "uc3"},
		UserID:      testutil.Alice.ID,
		ChallengeID: testutil.Challenge2.ID,
		CurrentDay:  1,
		Status:      entity.UserChallengeActive,
		TotalTasks:  60,
		StartDate:   time.Now(),
	})
	require.NoError(t, err)

	d := newTestFriendsDomain(nil)
	resp, err := d.GetFriendsWithProgress(ctx, &model.GetFriendsWithProgressRequest{
		UserID: testutil.Ben.ID,
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"alice_uc1", "alice_uc3", "carol"}, recordIDs(resp.Friends))
}

func Test_friendsDomain_GetFriendsWithProgress_deterministic(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d := newTestFriendsDomain(nil)
	req := &model.GetFriendsWithProgressRequest{UserID: testutil.Ben.ID}

	first, err := d.GetFriendsWithProgress(ctx, req)
	require.NoError(t, err)
	second, err := d.GetFriendsWithProgress(ctx, req)
	require.NoError(t, err)

	require.ElementsMatch(t, recordIDs(first.Friends), recordIDs(second.Friends))

	times := map[string]time.Time{}
	for _, record := range first.Friends {
		times[record.ID] = record.DisplayTime
	}
	for _, record := range second.Friends {
		require.Equal(t, times[record.ID], record.DisplayTime)
	}
}

func Test_friendsDomain_GetFriendsWithProgress_partialFailure(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d := newTestFriendsDomain(nil)
	d.gateway = flakyGateway{Gateway: d.gateway, failUsers: map[string]bool{"carol": true}}

	resp, err := d.GetFriendsWithProgress(ctx, &model.GetFriendsWithProgressRequest{
		UserID: testutil.Ben.ID,
	})
	require.NoError(t, err)
	require.Equal(t, 1, resp.FailedFriends)
	require.ElementsMatch(t, []string{"alice_uc1"}, recordIDs(resp.Friends))
}

func Test_friendsDomain_GetFriendsWithProgress_challengeReadFailure(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d := newTestFriendsDomain(nil)
	d.gateway = brokenChallengeGateway{Gateway: d.gateway}

	// A failing challenge join fails Alice's whole load; she must not show
	// up as having no active challenge. Carol has no active enrollment and
	// never reads a challenge.
	resp, err := d.GetFriendsWithProgress(ctx, &model.GetFriendsWithProgressRequest{
		UserID: testutil.Ben.ID,
	})
	require.NoError(t, err)
	require.Equal(t, 1, resp.FailedFriends)
	require.Zero(t, resp.SkippedRecords)
	require.ElementsMatch(t, []string{"carol"}, recordIDs(resp.Friends))
}

func Test_friendsDomain_GetFriendsWithProgress_absentChallengeSkips(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	err := repository.NewUserChallengeRepository().Create(ctx, &entity.UserChallenge{
		Base:        entity.Base{ID: "uc3"},
		UserID:      testutil.Alice.ID,
		ChallengeID: "deleted-challenge",
		CurrentDay:  1,
		Status:      entity.UserChallengeActive,
		TotalTasks:  10,
		StartDate:   time.Now(),
	})
	require.NoError(t, err)

	d := newTestFriendsDomain(nil)
	resp, err := d.GetFriendsWithProgress(ctx, &model.GetFriendsWithProgressRequest{
		UserID: testutil.Ben.ID,
	})
	require.NoError(t, err)
	require.Zero(t, resp.FailedFriends)
	require.Equal(t, 1, resp.SkippedRecords)
	require.ElementsMatch(t, []string{"alice_uc1", "carol"}, recordIDs(resp.Friends))
}

func Test_friendsDomain_GetFriendsWithProgress_noFriends(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d := newTestFriendsDomain(nil)

	// Dave's only friendship is still pending.
	resp, err := d.GetFriendsWithProgress(ctx, &model.GetFriendsWithProgressRequest{
		UserID: testutil.Dave.ID,
	})
	require.NoError(t, err)
	require.Empty(t, resp.Friends)
}

func Test_friendsDomain_GetFriendsWithProgress_requesterFromContext(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.Ben.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestFriendsDomain(nil)

	resp, err := d.GetFriendsWithProgress(ctx, &model.GetFriendsWithProgressRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Friends, 2)

	_, err = d.GetFriendsWithProgress(testutil.MockContext(), &model.GetFriendsWithProgressRequest{})
	require.Error(t, err)
}

func Test_friendsDomain_GetFriendsGrid(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d := newTestFriendsDomain(nil)

	resp, err := d.GetFriendsGrid(ctx, &model.GetFriendsGridRequest{UserID: testutil.Ben.ID})
	require.NoError(t, err)

	// One entry per friend, name ascending.
	require.Equal(t, []string{"alice_uc1", "carol"}, recordIDs(resp.Friends))
	require.True(t, resp.Friends[0].IsActive())
	require.False(t, resp.Friends[1].IsActive())
}

func Test_friendsDomain_GetActivityFeed(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	err := repository.NewUserChallengeRepository().Create(ctx, &entity.UserChallenge{
		Base:        entity.Base{ID: "uc3"},
		UserID:      testutil.Alice.ID,
		ChallengeID: testutil.Challenge2.ID,
		CurrentDay:  1,
		Status:      entity.UserChallengeActive,
		TotalTasks:  60,
		StartDate:   time.Now(),
	})
	require.NoError(t, err)

	d := newTestFriendsDomain(nil)
	resp, err := d.GetActivityFeed(ctx, &model.GetActivityFeedRequest{UserID: testutil.Ben.ID})
	require.NoError(t, err)

	// Carol has no active enrollment and is excluded.
	require.ElementsMatch(t, []string{"alice_uc1", "alice_uc3"}, recordIDs(resp.Friends))
	for i := 1; i < len(resp.Friends); i++ {
		require.False(t, resp.Friends[i-1].DisplayTime.Before(resp.Friends[i].DisplayTime))
	}
}

func receiveUpdate(t *testing.T, sub *FriendsSubscription) *model.FriendsUpdate {
	t.Helper()
	select {
	case update, ok := <-sub.Updates():
		require.True(t, ok)
		return update
	case <-time.After(time.Second):
		t.Fatal("no update delivered")
		return nil
	}
}

func Test_friendsDomain_Subscribe_emptyFriendSet(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	bus := testutil.NewInMemoryBus()
	d := newTestFriendsDomain(bus)

	sub, err := d.Subscribe(ctx, testutil.Dave.ID)
	require.NoError(t, err)

	update := receiveUpdate(t, sub)
	require.Empty(t, update.Friends)
	require.Empty(t, update.Error)

	_, ok := <-sub.Updates()
	require.False(t, ok)
	require.Zero(t, bus.SubscriberCount())
}

func Test_friendsDomain_Subscribe_notifyThenRefetch(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	bus := testutil.NewInMemoryBus()
	d := newTestFriendsDomain(bus)

	sub, err := d.Subscribe(ctx, testutil.Ben.ID)
	require.NoError(t, err)
	defer sub.Stop()

	initial := receiveUpdate(t, sub)
	require.ElementsMatch(t, []string{"alice_uc1", "carol"}, recordIDs(initial.Friends))

	// Alice pauses her run; the next update reflects the fresh join.
	err = repository.NewUserChallengeRepository().UpdateProgressByID(
		ctx, "uc1", repository.ProgressUpdate{
			CurrentDay:     3,
			CompletedTasks: 3,
			Status:         entity.UserChallengePaused,
		})
	require.NoError(t, err)
	err = bus.Publish(ctx, "user_challenges", &pubsub.Pack{Key: []byte("alice")})
	require.NoError(t, err)

	update := receiveUpdate(t, sub)
	require.ElementsMatch(t, []string{"alice", "carol"}, recordIDs(update.Friends))
}

func Test_friendsDomain_Subscribe_refetchFailureSurfaces(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	bus := testutil.NewInMemoryBus()
	d := newTestFriendsDomain(bus)

	sub, err := d.Subscribe(ctx, testutil.Ben.ID)
	require.NoError(t, err)

	initial := receiveUpdate(t, sub)
	require.Empty(t, initial.Error)

	// Notify against a database that can no longer serve the refetch; the
	// subscription ends with one error update.
	brokenCtx := testutil.MockContext()
	db, err := xcontext.DB(brokenCtx).DB()
	require.NoError(t, err)
	require.NoError(t, db.Close())
	err = bus.Publish(brokenCtx, "user_challenges", &pubsub.Pack{Key: []byte("alice")})
	require.NoError(t, err)

	update := receiveUpdate(t, sub)
	require.NotEmpty(t, update.Error)

	_, ok := <-sub.Updates()
	require.False(t, ok)
	require.Error(t, sub.watch.Err())
	require.Zero(t, bus.SubscriberCount())

	_, ok = d.subscriptions.Load(testutil.Ben.ID)
	require.False(t, ok)
}

func Test_friendsDomain_Subscribe_replacesPriorHandle(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	bus := testutil.NewInMemoryBus()
	d := newTestFriendsDomain(bus)

	first, err := d.Subscribe(ctx, testutil.Ben.ID)
	require.NoError(t, err)
	second, err := d.Subscribe(ctx, testutil.Ben.ID)
	require.NoError(t, err)
	defer second.Stop()

	// The first handle completes without a terminal error.
	deadline := time.After(time.Second)
	for {
		select {
		case update, ok := <-first.Updates():
			if !ok {
				require.NoError(t, first.watch.Err())
				require.Equal(t, 1, bus.SubscriberCount())
				return
			}
			require.Empty(t, update.Error)
		case <-deadline:
			t.Fatal("first handle never completed")
		}
	}
}

func Test_friendsDomain_Subscribe_stopIsIdempotent(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	bus := testutil.NewInMemoryBus()
	d := newTestFriendsDomain(bus)

	sub, err := d.Subscribe(ctx, testutil.Ben.ID)
	require.NoError(t, err)
	sub.Stop()
	sub.Stop()

	for range sub.Updates() {
	}
	require.Zero(t, bus.SubscriberCount())

	_, ok := d.subscriptions.Load(testutil.Ben.ID)
	require.False(t, ok)
}
