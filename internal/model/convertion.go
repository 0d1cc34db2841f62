package model

import (
	"fmt"
	"time"

	"github.com/strivelab/backend/internal/entity"
	"github.com/strivelab/backend/pkg/dateutil"
)

func ConvertUser(user *entity.User) User {
	if user == nil {
		return User{}
	}

	return User{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		AvatarURL: user.AvatarURL.String,
	}
}

func ConvertChallenge(challenge *entity.Challenge) Challenge {
	if challenge == nil {
		return Challenge{}
	}

	return Challenge{
		ID:          challenge.ID,
		Title:       challenge.Title,
		Description: challenge.Description,
		Duration:    challenge.Duration,
		TasksPerDay: challenge.TasksPerDay,
		IsActive:    challenge.IsActive,
	}
}

func ConvertUserChallenge(uc *entity.UserChallenge) UserChallenge {
	if uc == nil {
		return UserChallenge{}
	}

	return UserChallenge{
		ID:             uc.ID,
		UserID:         uc.UserID,
		ChallengeID:    uc.ChallengeID,
		CurrentDay:     uc.CurrentDay,
		Status:         string(uc.Status),
		CompletedTasks: uc.CompletedTasks,
		TotalTasks:     uc.TotalTasks,
		StartDate:      uc.StartDate,
		LastUpdated:    uc.UpdatedAt,
	}
}

// ConvertFriendWithProgress assembles a derived record. challenge and uc are
// either both nil ("no active challenge") or both non-nil.
func ConvertFriendWithProgress(
	user *entity.User,
	challenge *entity.Challenge,
	uc *entity.UserChallenge,
	now time.Time,
) FriendWithProgress {
	record := FriendWithProgress{
		ID:              user.ID,
		User:            ConvertUser(user),
		DisplayProgress: "No active challenge",
		DisplayTime:     dateutil.DisplayTimeToday(dateutil.DisplaySeed(user.ID, ""), now),
	}

	if challenge != nil && uc != nil {
		c := ConvertChallenge(challenge)
		u := ConvertUserChallenge(uc)
		record.ID = fmt.Sprintf("%s_%s", user.ID, uc.ID)
		record.Challenge = &c
		record.UserChallenge = &u
		record.DisplayProgress = fmt.Sprintf(
			"Day %d, %d/%d tasks", uc.CurrentDay, uc.CompletedTasks, uc.TotalTasks)
		record.DisplayTime = dateutil.DisplayTimeToday(dateutil.DisplaySeed(user.ID, uc.ID), now)
	}

	return record
}
