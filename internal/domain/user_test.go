package domain

import (
	"testing"

	"github.com/strivelab/backend/internal/gateway"
	"github.com/strivelab/backend/internal/model"
	"github.com/strivelab/backend/internal/repository"
	"github.com/strivelab/backend/pkg/errorx"
	"github.com/strivelab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newTestUserDomain() *userDomain {
	gw := gateway.NewDatastoreGateway(
		repository.NewUserRepository(),
		repository.NewChallengeRepository(),
		repository.NewUserChallengeRepository(),
		repository.NewFriendshipRepository(),
		nil,
	)

	return NewUserDomain(gw, repository.NewUserRepository(), nil)
}

func Test_userDomain_GetUser(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d := newTestUserDomain()

	resp, err := d.GetUser(ctx, &model.GetUserRequest{ID: testutil.Alice.ID})
	require.NoError(t, err)
	require.Equal(t, "Alice", resp.Name)
	require.Equal(t, "https://cdn.example.com/alice.png", resp.AvatarURL)

	_, err = d.GetUser(ctx, &model.GetUserRequest{ID: "nobody"})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found user"), err)
}

func Test_userDomain_GetUser_defaultsToRequester(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.Ben.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestUserDomain()

	resp, err := d.GetUser(ctx, &model.GetUserRequest{})
	require.NoError(t, err)
	require.Equal(t, "Ben", resp.Name)
}

func Test_userDomain_GetUsers(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d := newTestUserDomain()

	resp, err := d.GetUsers(ctx, &model.GetUsersRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Users, 4)
	require.Zero(t, resp.SkippedRecords)
}
