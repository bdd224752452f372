package response

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gamevault/gamevault-api/internal/domain"
)

func TestNewRanking(t *testing.T) {
	reqs := []domain.RereleaseRequest{
		{ID: 7, GameID: 2, GameTitle: "B", TotalVotes: 5, Status: domain.RereleaseActive},
		{ID: 10, GameID: 3, GameTitle: "C", TotalVotes: 5, Status: domain.RereleaseFulfilled},
	}

	got := NewRanking(reqs, 20)
	assert.Equal(t, 21, got[0].Rank)
	assert.Equal(t, 22, got[1].Rank)
	assert.Equal(t, uint(10), got[1].RequestID)
	assert.Equal(t, "C", got[1].GameTitle)
	assert.Empty(t, NewRanking(nil, 0))
}

func TestNewVotes_RendersComment(t *testing.T) {
	got := NewVotes([]domain.RereleaseVote{
		{UserID: 1, Comment: "**yes** <script>x()</script>"},
		{UserID: 2},
	})

	assert.Contains(t, got[0].CommentHTML, "<strong>yes</strong>")
	assert.NotContains(t, got[0].CommentHTML, "<script")
	assert.Empty(t, got[1].CommentHTML)
}
