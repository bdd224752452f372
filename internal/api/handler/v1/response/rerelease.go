package response

import (
	"time"

	"github.com/gamevault/gamevault-api/internal/domain"
	"github.com/gamevault/gamevault-api/internal/pkg/richtext"
)

type VoteTotalResponse struct {
	GameID     uint `json:"game_id"`
	TotalVotes int  `json:"total_votes"`
}

type RereleaseRequestResponse struct {
	domain.RereleaseRequest
	HasVoted bool `json:"has_voted"`
}

type RankedRequest struct {
	Rank          int                    `json:"rank"`
	RequestID     uint                   `json:"request_id"`
	GameID        uint                   `json:"game_id"`
	GameTitle     string                 `json:"game_title"`
	TotalVotes    int                    `json:"total_votes"`
	Status        domain.RereleaseStatus `json:"status"`
	FulfilledDate *time.Time             `json:"fulfilled_date,omitempty"`
}

// NewRanking numbers reqs from offset+1 in the order given.
func NewRanking(reqs []domain.RereleaseRequest, offset int) []RankedRequest {
	ranked := make([]RankedRequest, len(reqs))
	for i, r := range reqs {
		ranked[i] = RankedRequest{
			Rank:          offset + i + 1,
			RequestID:     r.ID,
			GameID:        r.GameID,
			GameTitle:     r.GameTitle,
			TotalVotes:    r.TotalVotes,
			Status:        r.Status,
			FulfilledDate: r.FulfilledDate,
		}
	}

	return ranked
}

type VoteResponse struct {
	UserID      uint      `json:"user_id"`
	UserName    string    `json:"user_name"`
	Comment     string    `json:"comment,omitempty"`
	CommentHTML string    `json:"comment_html,omitempty"`
	VoteDate    time.Time `json:"vote_date"`
}

func NewVotes(votes []domain.RereleaseVote) []VoteResponse {
	resp := make([]VoteResponse, len(votes))
	for i, v := range votes {
		resp[i] = VoteResponse{
			UserID:      v.UserID,
			UserName:    v.UserName,
			Comment:     v.Comment,
			CommentHTML: richtext.Render(v.Comment),
			VoteDate:    v.VoteDate,
		}
	}

	return resp
}
