package entity

import (
	"time"

	"github.com/strivelab/backend/pkg/enum"
)

type FriendshipStatus string

var (
	FriendshipPending  = enum.New(FriendshipStatus("pending"))
	FriendshipAccepted = enum.New(FriendshipStatus("accepted"))
	FriendshipBlocked  = enum.New(FriendshipStatus("blocked"))
)

// Friendship is an undirected edge between two users; either endpoint may
// appear as UserID1.
type Friendship struct {
	ID        string `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	UserID1 string `gorm:"index;uniqueIndex:idx_friendship_pair"`
	User1   User   `gorm:"foreignKey:UserID1"`

	UserID2 string `gorm:"index;uniqueIndex:idx_friendship_pair"`
	User2   User   `gorm:"foreignKey:UserID2"`

	Status FriendshipStatus
}
