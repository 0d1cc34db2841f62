package testutil

import (
	"context"
	"database/sql"
	"time"

	"github.com/strivelab/backend/internal/entity"
	"github.com/strivelab/backend/internal/repository"
)

var (
	Ben = entity.User{
		Base:  entity.Base{ID: "ben"},
		Name:  "Ben",
		Email: "ben@example.com",
	}

	Alice = entity.User{
		Base:      entity.Base{ID: "alice"},
		Name:      "Alice",
		Email:     "alice@example.com",
		AvatarURL: sql.NullString{Valid: true, String: "https://cdn.example.com/alice.png"},
	}

	Carol = entity.User{
		Base:  entity.Base{ID: "carol"},
		Name:  "Carol",
		Email: "carol@example.com",
	}

	Dave = entity.User{
		Base:  entity.Base{ID: "dave"},
		Name:  "Dave",
		Email: "dave@example.com",
	}

	Challenge1 = entity.Challenge{
		Base:        entity.Base{ID: "challenge1"},
		Title:       "Morning Run",
		Description: "Run every morning before work",
		Duration:    10,
		TasksPerDay: 1,
		IsActive:    true,
	}

	Challenge2 = entity.Challenge{
		Base:        entity.Base{ID: "challenge2"},
		Title:       "Read 30 Minutes",
		Description: "Half an hour of reading a day",
		Duration:    30,
		TasksPerDay: 2,
		IsActive:    true,
	}

	// Ben is friends with Alice and Carol. Carol appears as the first
	// endpoint to cover the reverse direction. Dave is still pending.
	FriendshipBenAlice = entity.Friendship{
		ID:      "friendship1",
		UserID1: "ben",
		UserID2: "alice",
		Status:  entity.FriendshipAccepted,
	}

	FriendshipCarolBen = entity.Friendship{
		ID:      "friendship2",
		UserID1: "carol",
		UserID2: "ben",
		Status:  entity.FriendshipAccepted,
	}

	FriendshipBenDave = entity.Friendship{
		ID:      "friendship3",
		UserID1: "ben",
		UserID2: "dave",
		Status:  entity.FriendshipPending,
	}

	AliceChallenge1 = entity.UserChallenge{
		Base:           entity.Base{ID: "uc1"},
		UserID:         "alice",
		ChallengeID:    "challenge1",
		CurrentDay:     3,
		Status:         entity.UserChallengeActive,
		CompletedTasks: 3,
		TotalTasks:     10,
		StartDate:      time.Date(2023, 5, 10, 0, 0, 0, 0, time.UTC),
	}

	AliceChallenge2 = entity.UserChallenge{
		Base:           entity.Base{ID: "uc2"},
		UserID:         "alice",
		ChallengeID:    "challenge2",
		CurrentDay:     12,
		Status:         entity.UserChallengePaused,
		CompletedTasks: 20,
		TotalTasks:     60,
		StartDate:      time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
	}
)

func CreateFixtureDb(ctx context.Context) {
	InsertUsers(ctx)
	InsertChallenges(ctx)
	InsertFriendships(ctx)
	InsertUserChallenges(ctx)
}

func InsertUsers(ctx context.Context) {
	userRepo := repository.NewUserRepository()
	for _, user := range []entity.User{Ben, Alice, Carol, Dave} {
		user := user
		if err := userRepo.Create(ctx, &user); err != nil {
			panic(err)
		}
	}
}

func InsertChallenges(ctx context.Context) {
	challengeRepo := repository.NewChallengeRepository()
	for _, challenge := range []entity.Challenge{Challenge1, Challenge2} {
		challenge := challenge
		if err := challengeRepo.Create(ctx, &challenge); err != nil {
			panic(err)
		}
	}
}

func InsertFriendships(ctx context.Context) {
	friendshipRepo := repository.NewFriendshipRepository()
	friendships := []entity.Friendship{FriendshipBenAlice, FriendshipCarolBen, FriendshipBenDave}
	for _, friendship := range friendships {
		friendship := friendship
		if err := friendshipRepo.Create(ctx, &friendship); err != nil {
			panic(err)
		}
	}
}

func InsertUserChallenges(ctx context.Context) {
	userChallengeRepo := repository.NewUserChallengeRepository()
	for _, uc := range []entity.UserChallenge{AliceChallenge1, AliceChallenge2} {
		uc := uc
		if err := userChallengeRepo.Create(ctx, &uc); err != nil {
			panic(err)
		}
	}
}
