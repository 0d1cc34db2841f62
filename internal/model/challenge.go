package model

import "time"

type Challenge struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	TasksPerDay int    `json:"tasks_per_day"`
	IsActive    bool   `json:"is_active"`
}

type UserChallenge struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	ChallengeID    string    `json:"challenge_id"`
	CurrentDay     int       `json:"current_day"`
	Status         string    `json:"status"`
	CompletedTasks int       `json:"completed_tasks"`
	TotalTasks     int       `json:"total_tasks"`
	StartDate      time.Time `json:"start_date"`
	LastUpdated    time.Time `json:"last_updated"`
}

type GetChallengesRequest struct{}

type GetChallengesResponse struct {
	Challenges     []Challenge `json:"challenges"`
	SkippedRecords int         `json:"skipped_records,omitempty"`
}

type JoinChallengeRequest struct {
	ChallengeID string `json:"challenge_id"`
}

type JoinChallengeResponse UserChallenge

type UpdateProgressRequest struct {
	UserChallengeID string `json:"user_challenge_id"`
	CompletedTasks  int    `json:"completed_tasks"`
	CurrentDay      int    `json:"current_day"`
}

type UpdateProgressResponse UserChallenge
