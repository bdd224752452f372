package domain

import "time"

type RereleaseStatus string

const (
	RereleaseActive    RereleaseStatus = "active"
	RereleaseFulfilled RereleaseStatus = "fulfilled"
	RereleaseArchived  RereleaseStatus = "archived"
)

// CanTransitionTo reports whether an administrator may move a request from s
// to next. Only active requests move, and fulfilled and archived are terminal.
func (s RereleaseStatus) CanTransitionTo(next RereleaseStatus) bool {
	if s != RereleaseActive {
		return false
	}

	return next == RereleaseFulfilled || next == RereleaseArchived
}

func (s RereleaseStatus) IsValid() bool {
	switch s {
	case RereleaseActive, RereleaseFulfilled, RereleaseArchived:
		return true
	}

	return false
}

// RereleaseRequest tracks community demand for a game to be re-released.
// TotalVotes always equals the number of RereleaseVote rows of the request.
type RereleaseRequest struct {
	ID            uint            `json:"id"`
	GameID        uint            `json:"game_id"`
	GameTitle     string          `json:"game_title,omitempty"`
	TotalVotes    int             `json:"total_votes"`
	Status        RereleaseStatus `json:"status"`
	FulfilledDate *time.Time      `json:"fulfilled_date,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (r RereleaseRequest) AcceptsVotes() bool {
	return r.Status == RereleaseActive
}

type RereleaseVote struct {
	RequestID uint      `json:"request_id"`
	UserID    uint      `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	Comment   string    `json:"comment,omitempty"`
	VoteDate  time.Time `json:"vote_date"`
}

// RereleaseEvent is published after a vote, an un-vote or a status change.
type RereleaseEvent struct {
	Type       string          `json:"type"`
	GameID     uint            `json:"game_id"`
	RequestID  uint            `json:"request_id"`
	TotalVotes int             `json:"total_votes"`
	Status     RereleaseStatus `json:"status"`
}

const (
	EventVoteCast      = "vote_cast"
	EventVoteRemoved   = "vote_removed"
	EventStatusChanged = "status_changed"
)
