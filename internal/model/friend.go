package model

import "time"

// FriendWithProgress is the join of one friend with zero-or-one enrollment.
// ID is unique within one aggregation result: "<user>_<enrollment>" when an
// enrollment exists, else the bare user id.
type FriendWithProgress struct {
	ID            string         `json:"id"`
	User          User           `json:"user"`
	Challenge     *Challenge     `json:"challenge,omitempty"`
	UserChallenge *UserChallenge `json:"user_challenge,omitempty"`

	DisplayProgress string    `json:"display_progress"`
	DisplayTime     time.Time `json:"display_time"`
}

// IsActive reports whether this record carries an active enrollment.
func (f FriendWithProgress) IsActive() bool {
	return f.UserChallenge != nil && f.UserChallenge.Status == "active"
}

type GetFriendsWithProgressRequest struct {
	// UserID defaults to the requesting user.
	UserID string `json:"user_id"`
}

type GetFriendsWithProgressResponse struct {
	Friends []FriendWithProgress `json:"friends"`

	// SkippedRecords counts malformed rows dropped while scanning; see the
	// gateway's malformed-record policy.
	SkippedRecords int `json:"skipped_records,omitempty"`

	// FailedFriends counts friends excluded because their load failed.
	FailedFriends int `json:"failed_friends,omitempty"`
}

type GetFriendsGridRequest struct {
	UserID string `json:"user_id"`
}

type GetFriendsGridResponse struct {
	Friends        []FriendWithProgress `json:"friends"`
	SkippedRecords int                  `json:"skipped_records,omitempty"`
	FailedFriends  int                  `json:"failed_friends,omitempty"`
}

type GetActivityFeedRequest struct {
	UserID string `json:"user_id"`
}

type GetActivityFeedResponse struct {
	Friends        []FriendWithProgress `json:"friends"`
	SkippedRecords int                  `json:"skipped_records,omitempty"`
	FailedFriends  int                  `json:"failed_friends,omitempty"`
}

// FriendsUpdate is one delivery on a live subscription.
type FriendsUpdate struct {
	Friends        []FriendWithProgress `json:"friends"`
	SkippedRecords int                  `json:"skipped_records,omitempty"`
	FailedFriends  int                  `json:"failed_friends,omitempty"`
	Error          string               `json:"error,omitempty"`
}
