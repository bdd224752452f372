package v1

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamevault/gamevault-api/internal/api/handler/v1/response"
	"github.com/gamevault/gamevault-api/internal/api/middleware"
	"github.com/gamevault/gamevault-api/internal/domain"
	"github.com/gamevault/gamevault-api/internal/service"
)

type stubUserService struct {
	users map[uint]domain.User
}

func (s *stubUserService) GetUser(_ context.Context, id uint) (domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, service.ErrUserNotFound
	}

	return u, nil
}

type stubRereleaseService struct {
	err       error
	req       domain.RereleaseRequest
	reqs      []domain.RereleaseRequest
	votes     []domain.RereleaseVote
	hasVoted  bool
	gotLimit  int
	gotOffset int
	gotDate   *time.Time
	gotUserID uint
	gotText   string
}

func (s *stubRereleaseService) CastVote(_ context.Context, gameID, userID uint, comment string) (domain.RereleaseRequest, error) {
	s.gotUserID, s.gotText = userID, comment
	return s.req, s.err
}

func (s *stubRereleaseService) RemoveVote(_ context.Context, gameID, userID uint) (domain.RereleaseRequest, error) {
	s.gotUserID = userID
	return s.req, s.err
}

func (s *stubRereleaseService) ListMostVoted(_ context.Context, limit, offset int) ([]domain.RereleaseRequest, error) {
	s.gotLimit, s.gotOffset = limit, offset
	return s.reqs, s.err
}

func (s *stubRereleaseService) GetRequest(_ context.Context, gameID uint) (domain.RereleaseRequest, error) {
	return s.req, s.err
}

func (s *stubRereleaseService) HasVoted(_ context.Context, requestID, userID uint) (bool, error) {
	return s.hasVoted, nil
}

func (s *stubRereleaseService) ListVotes(_ context.Context, gameID uint, limit, offset int) ([]domain.RereleaseVote, error) {
	return s.votes, s.err
}

func (s *stubRereleaseService) Fulfill(_ context.Context, gameID uint, fulfilledDate *time.Time) (domain.RereleaseRequest, error) {
	s.gotDate = fulfilledDate
	return s.req, s.err
}

func (s *stubRereleaseService) Archive(_ context.Context, gameID uint) (domain.RereleaseRequest, error) {
	return s.req, s.err
}

const (
	memberID uint = 1
	adminID  uint = 2
)

func newTestRouter(svc RereleaseService, asUser uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	uSvc := &stubUserService{users: map[uint]domain.User{
		memberID: {ID: memberID, Name: "member", Role: domain.RoleMember},
		adminID:  {ID: adminID, Name: "admin", Role: domain.RoleAdmin},
	}}
	h := NewRereleaseHandler(svc, uSvc)

	r := gin.New()
	authed := r.Group("/", func(ctx *gin.Context) {
		if asUser != 0 {
			ctx.Set(middleware.UserIDKey, asUser)
		}
		ctx.Next()
	})
	authed.POST("/games/:gameID/rerelease/votes", h.HandleCastVote)
	authed.DELETE("/games/:gameID/rerelease/votes", h.HandleRemoveVote)
	authed.GET("/games/:gameID/rerelease", h.HandleGetRequest)
	authed.PATCH("/admin/games/:gameID/rerelease/fulfill", h.HandleFulfill)
	authed.PATCH("/admin/games/:gameID/rerelease/archive", h.HandleArchive)
	r.GET("/games/:gameID/rerelease/votes", h.HandleListVotes)
	r.GET("/rerelease/most-voted", h.HandleMostVoted)
	r.GET("/", HandleHealthcheck)

	return r
}

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	return rec
}

func TestHandleCastVote(t *testing.T) {
	tests := []struct {
		name       string
		asUser     uint
		path       string
		body       string
		err        error
		wantStatus int
	}{
		{name: "created", asUser: memberID, path: "/games/42/rerelease/votes", body: `{"comment":"yes"}`, wantStatus: http.StatusCreated},
		{name: "no body", asUser: memberID, path: "/games/42/rerelease/votes", wantStatus: http.StatusCreated},
		{name: "unauthenticated", path: "/games/42/rerelease/votes", wantStatus: http.StatusUnauthorized},
		{name: "bad game id", asUser: memberID, path: "/games/abc/rerelease/votes", wantStatus: http.StatusBadRequest},
		{name: "comment too long", asUser: memberID, path: "/games/42/rerelease/votes", body: fmt.Sprintf(`{"comment":%q}`, strings.Repeat("a", 501)), wantStatus: http.StatusBadRequest},
		{name: "game not found", asUser: memberID, path: "/games/42/rerelease/votes", err: fmt.Errorf("wrapped -> %w", service.ErrGameNotFound), wantStatus: http.StatusNotFound},
		{name: "duplicate", asUser: memberID, path: "/games/42/rerelease/votes", err: service.ErrDuplicateVote, wantStatus: http.StatusConflict},
		{name: "not active", asUser: memberID, path: "/games/42/rerelease/votes", err: service.ErrInvalidState, wantStatus: http.StatusUnprocessableEntity},
		{name: "conflict exhausted", asUser: memberID, path: "/games/42/rerelease/votes", err: service.ErrStorageConflict, wantStatus: http.StatusServiceUnavailable},
		{name: "unexpected", asUser: memberID, path: "/games/42/rerelease/votes", err: fmt.Errorf("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubRereleaseService{err: tt.err, req: domain.RereleaseRequest{ID: 1, GameID: 42, TotalVotes: 3}}
			rec := doRequest(newTestRouter(svc, tt.asUser), http.MethodPost, tt.path, tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusCreated {
				assert.JSONEq(t, `{"game_id":42,"total_votes":3}`, rec.Body.String())
				assert.Equal(t, memberID, svc.gotUserID)
			}
		})
	}
}

func TestHandleRemoveVote(t *testing.T) {
	svc := &stubRereleaseService{req: domain.RereleaseRequest{ID: 1, GameID: 42, TotalVotes: 0}}
	rec := doRequest(newTestRouter(svc, memberID), http.MethodDelete, "/games/42/rerelease/votes", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"game_id":42,"total_votes":0}`, rec.Body.String())

	svc.err = service.ErrVoteNotFound
	rec = doRequest(newTestRouter(svc, memberID), http.MethodDelete, "/games/42/rerelease/votes", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleGetRequest(t *testing.T) {
	svc := &stubRereleaseService{
		req:      domain.RereleaseRequest{ID: 9, GameID: 42, TotalVotes: 4, Status: domain.RereleaseActive},
		hasVoted: true,
	}
	rec := doRequest(newTestRouter(svc, memberID), http.MethodGet, "/games/42/rerelease", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"has_voted":true`)
	assert.Contains(t, rec.Body.String(), `"total_votes":4`)

	svc.err = service.ErrRequestNotFound
	rec = doRequest(newTestRouter(svc, memberID), http.MethodGet, "/games/42/rerelease", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleMostVoted(t *testing.T) {
	svc := &stubRereleaseService{reqs: []domain.RereleaseRequest{
		{ID: 7, GameID: 2, GameTitle: "B", TotalVotes: 5, Status: domain.RereleaseActive},
		{ID: 10, GameID: 3, GameTitle: "C", TotalVotes: 5, Status: domain.RereleaseFulfilled},
	}}
	r := newTestRouter(svc, 0)

	rec := doRequest(r, http.MethodGet, "/rerelease/most-voted?limit=2&offset=4", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, svc.gotLimit)
	assert.Equal(t, 4, svc.gotOffset)
	assert.JSONEq(t, `[
		{"rank":5,"request_id":7,"game_id":2,"game_title":"B","total_votes":5,"status":"active"},
		{"rank":6,"request_id":10,"game_id":3,"game_title":"C","total_votes":5,"status":"fulfilled"}
	]`, rec.Body.String())

	rec = doRequest(r, http.MethodGet, "/rerelease/most-voted", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, svc.gotLimit)

	for _, q := range []string{"limit=-1", "offset=-3", "limit=abc"} {
		rec = doRequest(r, http.MethodGet, "/rerelease/most-voted?"+q, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestHandleListVotes(t *testing.T) {
	svc := &stubRereleaseService{votes: []domain.RereleaseVote{
		{UserID: 3, UserName: "carol", Comment: "*please*"},
	}}

	rec := doRequest(newTestRouter(svc, 0), http.MethodGet, "/games/42/rerelease/votes", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []response.VoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "carol", got[0].UserName)
	assert.Contains(t, got[0].CommentHTML, "<em>please</em>")
}

func TestHandleFulfillAndArchive(t *testing.T) {
	svc := &stubRereleaseService{req: domain.RereleaseRequest{ID: 1, GameID: 42, Status: domain.RereleaseFulfilled}}

	rec := doRequest(newTestRouter(svc, memberID), http.MethodPatch, "/admin/games/42/rerelease/fulfill", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(newTestRouter(svc, adminID), http.MethodPatch, "/admin/games/42/rerelease/fulfill", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.gotDate)

	rec = doRequest(newTestRouter(svc, adminID), http.MethodPatch, "/admin/games/42/rerelease/fulfill", `{"fulfilled_date":"2024-03-01T00:00:00Z"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.gotDate)
	assert.Equal(t, 2024, svc.gotDate.Year())

	svc.err = service.ErrInvalidState
	rec = doRequest(newTestRouter(svc, adminID), http.MethodPatch, "/admin/games/42/rerelease/archive", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	svc.err = service.ErrRequestNotFound
	rec = doRequest(newTestRouter(svc, adminID), http.MethodPatch, "/admin/games/42/rerelease/archive", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleHealthcheck(t *testing.T) {
	rec := doRequest(newTestRouter(&stubRereleaseService{}, 0), http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
