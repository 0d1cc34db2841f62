package domain

import (
	"testing"

	"github.com/strivelab/backend/internal/entity"
	"github.com/strivelab/backend/internal/gateway"
	"github.com/strivelab/backend/internal/model"
	"github.com/strivelab/backend/internal/repository"
	"github.com/strivelab/backend/pkg/errorx"
	"github.com/strivelab/backend/pkg/testutil"
	"github.com/strivelab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestChallengeDomain(bus *testutil.InMemoryBus) *challengeDomain {
	var factory gateway.SubscriberFactory
	if bus != nil {
		factory = bus.Subscriber
	}

	gw := gateway.NewDatastoreGateway(
		repository.NewUserRepository(),
		repository.NewChallengeRepository(),
		repository.NewUserChallengeRepository(),
		repository.NewFriendshipRepository(),
		factory,
	)

	if bus == nil {
		return NewChallengeDomain(gw, repository.NewUserChallengeRepository(), nil)
	}

	return NewChallengeDomain(gw, repository.NewUserChallengeRepository(), bus)
}

func Test_challengeDomain_JoinChallenge(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.Ben.ID)
	testutil.CreateFixtureDb(ctx)
	bus := testutil.NewInMemoryBus()
	d := newTestChallengeDomain(bus)

	resp, err := d.JoinChallenge(ctx, &model.JoinChallengeRequest{
		ChallengeID: testutil.Challenge1.ID,
	})
	require.NoError(t, err)
	require.Equal(t, testutil.Ben.ID, resp.UserID)
	require.Equal(t, 1, resp.CurrentDay)
	require.Equal(t, string(entity.UserChallengeActive), resp.Status)
	require.Equal(t, 10, resp.TotalTasks)

	// The mutation is announced on the change stream, keyed by the owner.
	packs := bus.Packs()
	require.Len(t, packs, 1)
	require.Equal(t, testutil.Ben.ID, string(packs[0].Key))

	_, err = d.JoinChallenge(ctx, &model.JoinChallengeRequest{ChallengeID: "missing"})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found challenge"), err)
}

func Test_challengeDomain_UpdateProgress(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.Alice.ID)
	testutil.CreateFixtureDb(ctx)
	bus := testutil.NewInMemoryBus()
	d := newTestChallengeDomain(bus)

	resp, err := d.UpdateProgress(ctx, &model.UpdateProgressRequest{
		UserChallengeID: "uc1",
		CompletedTasks:  4,
		CurrentDay:      4,
	})
	require.NoError(t, err)
	require.Equal(t, 4, resp.CompletedTasks)
	require.Equal(t, 4, resp.CurrentDay)
	require.Equal(t, string(entity.UserChallengeActive), resp.Status)
	require.Len(t, bus.Packs(), 1)

	record, err := repository.NewUserChallengeRepository().GetByID(ctx, "uc1")
	require.NoError(t, err)
	require.Equal(t, 4, record.CompletedTasks)
}

func Test_challengeDomain_UpdateProgress_autoCompletes(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.Alice.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestChallengeDomain(nil)

	resp, err := d.UpdateProgress(ctx, &model.UpdateProgressRequest{
		UserChallengeID: "uc1",
		CompletedTasks:  12,
		CurrentDay:      10,
	})
	require.NoError(t, err)
	require.Equal(t, 10, resp.CompletedTasks)
	require.Equal(t, string(entity.UserChallengeCompleted), resp.Status)
}

func Test_challengeDomain_UpdateProgress_ownershipAndStatus(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.Ben.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestChallengeDomain(nil)

	// uc1 belongs to Alice.
	_, err := d.UpdateProgress(ctx, &model.UpdateProgressRequest{
		UserChallengeID: "uc1",
		CompletedTasks:  4,
	})
	require.Equal(t, errorx.New(errorx.PermissionDenied, "Permission denied"), err)

	// uc2 is paused.
	aliceCtx := testutil.MockContextWithUserID(testutil.Alice.ID)
	testutil.CreateFixtureDb(aliceCtx)
	_, err = newTestChallengeDomain(nil).UpdateProgress(aliceCtx, &model.UpdateProgressRequest{
		UserChallengeID: "uc2",
		CompletedTasks:  21,
	})
	require.Equal(t, errorx.New(errorx.Unavailable, "Challenge progress is frozen"), err)
}

// End to end: a friend's mutation flows through the change stream into a
// live subscription.
func Test_challengeDomain_mutationWakesSubscription(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	bus := testutil.NewInMemoryBus()

	friends := newTestFriendsDomain(bus)
	sub, err := friends.Subscribe(ctx, testutil.Ben.ID)
	require.NoError(t, err)
	defer sub.Stop()

	initial := receiveUpdate(t, sub)
	require.ElementsMatch(t, []string{"alice_uc1", "carol"}, recordIDs(initial.Friends))

	challenges := newTestChallengeDomain(bus)
	_, err = challenges.UpdateProgress(
		xcontext.WithRequestUserID(ctx, testutil.Alice.ID),
		&model.UpdateProgressRequest{UserChallengeID: "uc1", CompletedTasks: 5, CurrentDay: 5},
	)
	require.NoError(t, err)

	update := receiveUpdate(t, sub)
	require.ElementsMatch(t, []string{"alice_uc1", "carol"}, recordIDs(update.Friends))
	for _, record := range update.Friends {
		if record.ID == "alice_uc1" {
			require.Equal(t, "Day 5, 5/10 tasks", record.DisplayProgress)
		}
	}
}
