package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gamevault/gamevault-api/internal/api/handler/v1/request"
	"github.com/gamevault/gamevault-api/internal/api/handler/v1/response"
	"github.com/gamevault/gamevault-api/internal/domain"
	"github.com/gamevault/gamevault-api/internal/service"
)

type GameService interface {
	CreateGame(ctx context.Context, game domain.Game) (domain.Game, error)
	GetGame(ctx context.Context, id uint) (domain.Game, error)
	ListGames(ctx context.Context) ([]domain.Game, error)
	DeleteGame(ctx context.Context, id uint) error
}

type GameHandler struct {
	svc  GameService
	uSvc UserService
}

func NewGameHandler(svc GameService, uSvc UserService) *GameHandler {
	return &GameHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleCreateGame godoc
// @Summary      Add a game to the catalogue
// @Tags         games
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreateGameRequest  true  "Game details"
// @Success      201    {object}  domain.Game
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /games [post]
// @Security BearerAuth
func (h *GameHandler) HandleCreateGame(ctx *gin.Context) {
	if _, respErr := requireAdmin(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.CreateGameRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	game, err := h.svc.CreateGame(ctx.Request.Context(), domain.Game{
		Title:       input.Title,
		Platform:    input.Platform,
		Publisher:   input.Publisher,
		ReleaseYear: input.ReleaseYear,
		Abandonware: input.Abandonware,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateGame -> h.svc.CreateGame -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, game)
}

// HandleListGames godoc
// @Summary      List games
// @Tags         games
// @Produce      json
// @Success      200  {array}   domain.Game
// @Failure      500  {object}  response.Err
// @Router       /games [get]
func (h *GameHandler) HandleListGames(ctx *gin.Context) {
	games, err := h.svc.ListGames(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListGames -> h.svc.ListGames -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, games)
}

// HandleGetGame godoc
// @Summary      Get a game
// @Tags         games
// @Produce      json
// @Param        gameID  path      int  true  "Game ID"
// @Success      200     {object}  domain.Game
// @Failure      400     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /games/{gameID} [get]
func (h *GameHandler) HandleGetGame(ctx *gin.Context) {
	gameID, respErr := parseID(ctx, "gameID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	game, err := h.svc.GetGame(ctx.Request.Context(), gameID)
	if err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("game", "ID", gameID))
			return
		}

		err = fmt.Errorf("v1.HandleGetGame -> h.svc.GetGame -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, game)
}

// HandleDeleteGame godoc
// @Summary      Delete a game
// @Description  Deletes the game together with its rerelease request and votes.
// @Tags         games
// @Param        gameID  path      int  true  "Game ID"
// @Success      204
// @Failure      400     {object}  response.Err
// @Failure      401     {object}  response.Err
// @Failure      403     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /games/{gameID} [delete]
// @Security BearerAuth
func (h *GameHandler) HandleDeleteGame(ctx *gin.Context) {
	if _, respErr := requireAdmin(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	gameID, respErr := parseID(ctx, "gameID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.DeleteGame(ctx.Request.Context(), gameID); err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("game", "ID", gameID))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteGame -> h.svc.DeleteGame -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}
