package graphql

import (
	"context"
	"testing"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamevault/gamevault-api/internal/domain"
	"github.com/gamevault/gamevault-api/internal/service"
)

type stubReader struct {
	reqs      []domain.RereleaseRequest
	byGame    map[uint]domain.RereleaseRequest
	gotLimit  int
	gotOffset int
}

func (s *stubReader) ListMostVoted(_ context.Context, limit, offset int) ([]domain.RereleaseRequest, error) {
	s.gotLimit, s.gotOffset = limit, offset
	if limit < 0 || offset < 0 {
		return nil, service.ErrInvalidPagination
	}

	return s.reqs, nil
}

func (s *stubReader) GetRequest(_ context.Context, gameID uint) (domain.RereleaseRequest, error) {
	r, ok := s.byGame[gameID]
	if !ok {
		return domain.RereleaseRequest{}, service.ErrRequestNotFound
	}

	return r, nil
}

func run(t *testing.T, reader RereleaseReader, query string) *graphql.Result {
	t.Helper()

	schema, err := NewSchema(reader)
	require.NoError(t, err)

	return graphql.Do(graphql.Params{
		Schema:        schema,
		RequestString: query,
		Context:       context.Background(),
	})
}

func TestMostVoted(t *testing.T) {
	fulfilled := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	reader := &stubReader{reqs: []domain.RereleaseRequest{
		{ID: 7, GameID: 2, GameTitle: "B", TotalVotes: 5, Status: domain.RereleaseActive},
		{ID: 10, GameID: 3, GameTitle: "C", TotalVotes: 5, Status: domain.RereleaseFulfilled, FulfilledDate: &fulfilled},
	}}

	res := run(t, reader, `{ mostVoted(limit: 2, offset: 10) { rank requestId gameId totalVotes status } }`)
	require.Empty(t, res.Errors)
	assert.Equal(t, 2, reader.gotLimit)
	assert.Equal(t, 10, reader.gotOffset)

	rows := res.Data.(map[string]interface{})["mostVoted"].([]interface{})
	require.Len(t, rows, 2)
	first := rows[0].(map[string]interface{})
	assert.Equal(t, 11, first["rank"])
	assert.Equal(t, 7, first["requestId"])
	assert.Equal(t, "active", first["status"])

	res = run(t, reader, `{ mostVoted(limit: -1) { requestId } }`)
	assert.NotEmpty(t, res.Errors)
}

func TestRereleaseRequest(t *testing.T) {
	reader := &stubReader{byGame: map[uint]domain.RereleaseRequest{
		42: {ID: 1, GameID: 42, GameTitle: "Outcast", TotalVotes: 3, Status: domain.RereleaseActive},
	}}

	res := run(t, reader, `{ rereleaseRequest(gameId: 42) { requestId gameTitle totalVotes } }`)
	require.Empty(t, res.Errors)
	got := res.Data.(map[string]interface{})["rereleaseRequest"].(map[string]interface{})
	assert.Equal(t, "Outcast", got["gameTitle"])
	assert.Equal(t, 3, got["totalVotes"])

	res = run(t, reader, `{ rereleaseRequest(gameId: 99) { requestId } }`)
	require.Empty(t, res.Errors)
	assert.Nil(t, res.Data.(map[string]interface{})["rereleaseRequest"])
}
