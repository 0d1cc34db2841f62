package main

import (
	"time"

	"github.com/strivelab/backend/internal/entity"
	"github.com/strivelab/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

// startSeed inserts the demo dataset the mobile app ships with, so a fresh
// environment is usable immediately.
func (s *srv) startSeed(cctx *cli.Context) error {
	s.loadConfig(cctx)
	s.loadLogger()
	s.loadDatabase()
	s.loadRepos()

	count, err := s.userRepo.Count(s.ctx)
	if err != nil {
		return err
	}

	if count > 0 {
		xcontext.Logger(s.ctx).Infof("Database is already seeded")
		return nil
	}

	users := []entity.User{
		{Base: entity.Base{ID: "ben"}, Name: "Ben", Email: "ben@example.com"},
		{Base: entity.Base{ID: "alice"}, Name: "Alice", Email: "alice@example.com"},
		{Base: entity.Base{ID: "carol"}, Name: "Carol", Email: "carol@example.com"},
		{Base: entity.Base{ID: "dave"}, Name: "Dave", Email: "dave@example.com"},
	}

	challenges := []entity.Challenge{
		{
			Base:        entity.Base{ID: "morning-run"},
			Title:       "Morning Run",
			Description: "Run every morning before work",
			Duration:    10,
			TasksPerDay: 1,
			IsActive:    true,
		},
		{
			Base:        entity.Base{ID: "reading"},
			Title:       "Read 30 Minutes",
			Description: "Half an hour of reading a day",
			Duration:    30,
			TasksPerDay: 2,
			IsActive:    true,
		},
	}

	friendships := []entity.Friendship{
		{ID: "ben-alice", UserID1: "ben", UserID2: "alice", Status: entity.FriendshipAccepted},
		{ID: "carol-ben", UserID1: "carol", UserID2: "ben", Status: entity.FriendshipAccepted},
		{ID: "ben-dave", UserID1: "ben", UserID2: "dave", Status: entity.FriendshipPending},
	}

	enrollments := []entity.UserChallenge{
		{
			Base:           entity.Base{ID: "alice-morning-run"},
			UserID:         "alice",
			ChallengeID:    "morning-run",
			CurrentDay:     3,
			Status:         entity.UserChallengeActive,
			CompletedTasks: 3,
			TotalTasks:     10,
			StartDate:      time.Now().AddDate(0, 0, -2),
		},
		{
			Base:           entity.Base{ID: "carol-reading"},
			UserID:         "carol",
			ChallengeID:    "reading",
			CurrentDay:     12,
			Status:         entity.UserChallengePaused,
			CompletedTasks: 20,
			TotalTasks:     60,
			StartDate:      time.Now().AddDate(0, 0, -11),
		},
	}

	for i := range users {
		if err := s.userRepo.Create(s.ctx, &users[i]); err != nil {
			return err
		}
	}

	for i := range challenges {
		if err := s.challengeRepo.Create(s.ctx, &challenges[i]); err != nil {
			return err
		}
	}

	for i := range friendships {
		if err := s.friendshipRepo.Create(s.ctx, &friendships[i]); err != nil {
			return err
		}
	}

	for i := range enrollments {
		if err := s.userChallengeRepo.Create(s.ctx, &enrollments[i]); err != nil {
			return err
		}
	}

	xcontext.Logger(s.ctx).Infof("Seeded %d users, %d challenges", len(users), len(challenges))
	return nil
}
