package v1

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gamevault/gamevault-api/internal/api/handler/v1/response"
)

func parseID(ctx *gin.Context, name string) (uint, *response.Err) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, response.ErrBadRequest(fmt.Errorf("invalid %s %q", name, ctx.Param(name)))
	}

	return uint(id), nil
}

// parsePage reads limit and offset query parameters. Missing values are 0.
func parsePage(ctx *gin.Context) (int, int, *response.Err) {
	limit, err := queryInt(ctx, "limit")
	if err != nil {
		return 0, 0, response.ErrBadRequest(err)
	}
	offset, err := queryInt(ctx, "offset")
	if err != nil {
		return 0, 0, response.ErrBadRequest(err)
	}
	if limit < 0 || offset < 0 {
		return 0, 0, response.ErrBadRequest(fmt.Errorf("limit and offset must not be negative"))
	}

	return limit, offset, nil
}

func queryInt(ctx *gin.Context, name string) (int, error) {
	raw := ctx.Query(name)
	if raw == "" {
		return 0, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}

	return v, nil
}
