package entity

import (
	"time"

	"github.com/strivelab/backend/pkg/enum"
)

type UserChallengeStatus string

var (
	UserChallengeActive    = enum.New(UserChallengeStatus("active"))
	UserChallengeCompleted = enum.New(UserChallengeStatus("completed"))
	UserChallengePaused    = enum.New(UserChallengeStatus("paused"))
)

// UserChallenge is a user's enrollment in a challenge. UpdatedAt doubles as
// the last-progress timestamp.
type UserChallenge struct {
	Base

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	ChallengeID string
	Challenge   Challenge `gorm:"foreignKey:ChallengeID"`

	CurrentDay     int
	Status         UserChallengeStatus `gorm:"index"`
	CompletedTasks int
	TotalTasks     int
	StartDate      time.Time
}
