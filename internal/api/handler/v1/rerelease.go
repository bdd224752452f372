package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gamevault/gamevault-api/internal/api/handler/v1/request"
	"github.com/gamevault/gamevault-api/internal/api/handler/v1/response"
	"github.com/gamevault/gamevault-api/internal/domain"
	"github.com/gamevault/gamevault-api/internal/service"
)

type RereleaseService interface {
	CastVote(ctx context.Context, gameID, userID uint, comment string) (domain.RereleaseRequest, error)
	RemoveVote(ctx context.Context, gameID, userID uint) (domain.RereleaseRequest, error)
	ListMostVoted(ctx context.Context, limit, offset int) ([]domain.RereleaseRequest, error)
	GetRequest(ctx context.Context, gameID uint) (domain.RereleaseRequest, error)
	HasVoted(ctx context.Context, requestID, userID uint) (bool, error)
	ListVotes(ctx context.Context, gameID uint, limit, offset int) ([]domain.RereleaseVote, error)
	Fulfill(ctx context.Context, gameID uint, fulfilledDate *time.Time) (domain.RereleaseRequest, error)
	Archive(ctx context.Context, gameID uint) (domain.RereleaseRequest, error)
}

type RereleaseHandler struct {
	svc  RereleaseService
	uSvc UserService
}

func NewRereleaseHandler(svc RereleaseService, uSvc UserService) *RereleaseHandler {
	return &RereleaseHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleCastVote godoc
// @Summary      Vote for a game to be re-released
// @Description  Opens the game's rerelease request on the first vote. A user can vote once per request.
// @Tags         rerelease
// @Accept       json
// @Produce      json
// @Param        gameID  path      int                      true   "Game ID"
// @Param        input   body      request.CastVoteRequest  false  "Optional markdown comment"
// @Success      201     {object}  response.VoteTotalResponse
// @Failure      400     {object}  response.Err
// @Failure      401     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      409     {object}  response.Err
// @Failure      422     {object}  response.Err
// @Failure      503     {object}  response.Err
// @Router       /games/{gameID}/rerelease/votes [post]
// @Security BearerAuth
func (h *RereleaseHandler) HandleCastVote(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	gameID, respErr := parseID(ctx, "gameID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.CastVoteRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&input); err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	req, err := h.svc.CastVote(ctx.Request.Context(), gameID, user.ID, input.Comment)
	if err != nil {
		response.RenderErr(ctx, rereleaseErr("v1.HandleCastVote -> h.svc.CastVote", gameID, err))
		return
	}

	ctx.JSON(http.StatusCreated, response.VoteTotalResponse{
		GameID:     req.GameID,
		TotalVotes: req.TotalVotes,
	})
}

// HandleRemoveVote godoc
// @Summary      Withdraw a rerelease vote
// @Tags         rerelease
// @Produce      json
// @Param        gameID  path      int  true  "Game ID"
// @Success      200     {object}  response.VoteTotalResponse
// @Failure      400     {object}  response.Err
// @Failure      401     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      422     {object}  response.Err
// @Failure      503     {object}  response.Err
// @Router       /games/{gameID}/rerelease/votes [delete]
// @Security BearerAuth
func (h *RereleaseHandler) HandleRemoveVote(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	gameID, respErr := parseID(ctx, "gameID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	req, err := h.svc.RemoveVote(ctx.Request.Context(), gameID, user.ID)
	if err != nil {
		response.RenderErr(ctx, rereleaseErr("v1.HandleRemoveVote -> h.svc.RemoveVote", gameID, err))
		return
	}

	ctx.JSON(http.StatusOK, response.VoteTotalResponse{
		GameID:     req.GameID,
		TotalVotes: req.TotalVotes,
	})
}

// HandleGetRequest godoc
// @Summary      Get a game's rerelease request
// @Tags         rerelease
// @Produce      json
// @Param        gameID  path      int  true  "Game ID"
// @Success      200     {object}  response.RereleaseRequestResponse
// @Failure      400     {object}  response.Err
// @Failure      401     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /games/{gameID}/rerelease [get]
// @Security BearerAuth
func (h *RereleaseHandler) HandleGetRequest(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	gameID, respErr := parseID(ctx, "gameID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	req, err := h.svc.GetRequest(ctx.Request.Context(), gameID)
	if err != nil {
		response.RenderErr(ctx, rereleaseErr("v1.HandleGetRequest -> h.svc.GetRequest", gameID, err))
		return
	}

	voted, err := h.svc.HasVoted(ctx.Request.Context(), req.ID, user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetRequest -> h.svc.HasVoted -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.RereleaseRequestResponse{
		RereleaseRequest: req,
		HasVoted:         voted,
	})
}

// HandleListVotes godoc
// @Summary      List votes on a game's rerelease request
// @Description  Newest first. Comments are rendered from markdown into sanitised HTML.
// @Tags         rerelease
// @Produce      json
// @Param        gameID  path      int  true   "Game ID"
// @Param        limit   query     int  false  "page size"
// @Param        offset  query     int  false  "page offset"
// @Success      200     {array}   response.VoteResponse
// @Failure      400     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /games/{gameID}/rerelease/votes [get]
func (h *RereleaseHandler) HandleListVotes(ctx *gin.Context) {
	gameID, respErr := parseID(ctx, "gameID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	limit, offset, respErr := parsePage(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	votes, err := h.svc.ListVotes(ctx.Request.Context(), gameID, limit, offset)
	if err != nil {
		response.RenderErr(ctx, rereleaseErr("v1.HandleListVotes -> h.svc.ListVotes", gameID, err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewVotes(votes))
}

// HandleMostVoted godoc
// @Summary      Rerelease leaderboard
// @Description  Active and fulfilled requests, most votes first, ties broken by request id.
// @Tags         rerelease
// @Produce      json
// @Param        limit   query     int  false  "page size"
// @Param        offset  query     int  false  "page offset"
// @Success      200     {array}   response.RankedRequest
// @Failure      400     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /rerelease/most-voted [get]
func (h *RereleaseHandler) HandleMostVoted(ctx *gin.Context) {
	limit, offset, respErr := parsePage(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	reqs, err := h.svc.ListMostVoted(ctx.Request.Context(), limit, offset)
	if err != nil {
		response.RenderErr(ctx, rereleaseErr("v1.HandleMostVoted -> h.svc.ListMostVoted", 0, err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewRanking(reqs, offset))
}

// HandleFulfill godoc
// @Summary      Mark a rerelease request as fulfilled
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        gameID  path      int                     true   "Game ID"
// @Param        input   body      request.FulfillRequest  false  "Fulfilment date, defaults to now"
// @Success      200     {object}  domain.RereleaseRequest
// @Failure      400     {object}  response.Err
// @Failure      401     {object}  response.Err
// @Failure      403     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      422     {object}  response.Err
// @Router       /admin/games/{gameID}/rerelease/fulfill [patch]
// @Security BearerAuth
func (h *RereleaseHandler) HandleFulfill(ctx *gin.Context) {
	if _, respErr := requireAdmin(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	gameID, respErr := parseID(ctx, "gameID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.FulfillRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&input); err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	req, err := h.svc.Fulfill(ctx.Request.Context(), gameID, input.FulfilledDate)
	if err != nil {
		response.RenderErr(ctx, rereleaseErr("v1.HandleFulfill -> h.svc.Fulfill", gameID, err))
		return
	}

	ctx.JSON(http.StatusOK, req)
}

// HandleArchive godoc
// @Summary      Archive a rerelease request
// @Tags         admin
// @Produce      json
// @Param        gameID  path      int  true  "Game ID"
// @Success      200     {object}  domain.RereleaseRequest
// @Failure      400     {object}  response.Err
// @Failure      401     {object}  response.Err
// @Failure      403     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      422     {object}  response.Err
// @Router       /admin/games/{gameID}/rerelease/archive [patch]
// @Security BearerAuth
func (h *RereleaseHandler) HandleArchive(ctx *gin.Context) {
	if _, respErr := requireAdmin(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	gameID, respErr := parseID(ctx, "gameID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	req, err := h.svc.Archive(ctx.Request.Context(), gameID)
	if err != nil {
		response.RenderErr(ctx, rereleaseErr("v1.HandleArchive -> h.svc.Archive", gameID, err))
		return
	}

	ctx.JSON(http.StatusOK, req)
}

// rereleaseErr maps orchestrator errors onto HTTP responses.
func rereleaseErr(op string, gameID uint, err error) *response.Err {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return response.ErrNotFound("game", "ID", gameID)
	case errors.Is(err, service.ErrRequestNotFound):
		return response.ErrNotFound("rerelease request", "gameID", gameID)
	case errors.Is(err, service.ErrVoteNotFound):
		return response.ErrNotFound("vote", "gameID", gameID)
	case errors.Is(err, service.ErrUserNotFound):
		return response.ErrUnauthorized(service.ErrUserNotFound)
	case errors.Is(err, service.ErrDuplicateVote):
		return response.ErrConflict(service.ErrDuplicateVote)
	case errors.Is(err, service.ErrInvalidState):
		return response.ErrUnprocessable(service.ErrInvalidState)
	case errors.Is(err, service.ErrInvalidPagination):
		return response.ErrBadRequest(service.ErrInvalidPagination)
	case errors.Is(err, service.ErrStorageConflict):
		return response.ErrServiceUnavailable(fmt.Errorf("%s -> %w", op, err))
	}

	return response.ErrInternalServerError(fmt.Errorf("%s -> %w", op, err))
}
