package repository_test

import (
	"testing"

	"github.com/strivelab/backend/internal/entity"
	"github.com/strivelab/backend/internal/repository"
	"github.com/strivelab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_friendshipRepository_GetListByUser(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	repo := repository.NewFriendshipRepository()

	// Ben appears on both sides of the edge.
	records, err := repo.GetListByUser(ctx, testutil.Ben.ID)
	require.NoError(t, err)
	require.Len(t, records, 3)

	records, err = repo.GetListByUser(ctx, testutil.Alice.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "friendship1", records[0].ID)
}

func Test_friendshipRepository_GetListByUserAndStatus(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	repo := repository.NewFriendshipRepository()

	accepted, err := repo.GetListByUserAndStatus(ctx, testutil.Ben.ID, entity.FriendshipAccepted)
	require.NoError(t, err)
	require.Len(t, accepted, 2)

	pending, err := repo.GetListByUserAndStatus(ctx, testutil.Ben.ID, entity.FriendshipPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, testutil.Dave.ID, pending[0].UserID2)
}

func Test_friendshipRepository_UpdateStatusByID(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	repo := repository.NewFriendshipRepository()

	err := repo.UpdateStatusByID(ctx, "friendship3", entity.FriendshipAccepted)
	require.NoError(t, err)

	accepted, err := repo.GetListByUserAndStatus(ctx, testutil.Dave.ID, entity.FriendshipAccepted)
	require.NoError(t, err)
	require.Len(t, accepted, 1)
}
