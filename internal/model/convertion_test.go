package model

import (
	"testing"
	"time"

	"github.com/strivelab/backend/internal/entity"
	"github.com/stretchr/testify/require"
)

func Test_ConvertFriendWithProgress(t *testing.T) {
	now := time.Date(2023, 5, 12, 15, 0, 0, 0, time.UTC)
	user := &entity.User{Base: entity.Base{ID: "alice"}, Name: "Alice"}
	challenge := &entity.Challenge{Base: entity.Base{ID: "c1"}, Title: "Morning Run"}
	uc := &entity.UserChallenge{
		Base:           entity.Base{ID: "uc1"},
		UserID:         "alice",
		ChallengeID:    "c1",
		CurrentDay:     3,
		Status:         entity.UserChallengeActive,
		CompletedTasks: 2,
		TotalTasks:     10,
	}

	record := ConvertFriendWithProgress(user, challenge, uc, now)
	require.Equal(t, "alice_uc1", record.ID)
	require.Equal(t, "Day 3, 2/10 tasks", record.DisplayProgress)
	require.True(t, record.IsActive())

	bare := ConvertFriendWithProgress(user, nil, nil, now)
	require.Equal(t, "alice", bare.ID)
	require.Equal(t, "No active challenge", bare.DisplayProgress)
	require.False(t, bare.IsActive())
	require.Nil(t, bare.Challenge)
	require.Nil(t, bare.UserChallenge)

	// Same inputs, same derived values.
	again := ConvertFriendWithProgress(user, challenge, uc, now)
	require.Equal(t, record.DisplayTime, again.DisplayTime)
	require.NotEqual(t, record.DisplayTime, bare.DisplayTime)
}
