package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/survival-explorer-go/internal/service"
	"github.com/jengzang/survival-explorer-go/internal/territory"
	"github.com/jengzang/survival-explorer-go/pkg/response"
)

// fail maps a service error onto the response envelope
func fail(c *gin.Context, err error, fallback string) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, service.ErrInvalidCoordinate):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrPathTooLong):
		response.Error(c, 413, err.Error())
	case errors.Is(err, territory.ErrInsufficientPoints):
		response.Unprocessable(c, err.Error())
	case errors.Is(err, service.ErrAlreadyLooted):
		response.Conflict(c, err.Error())
	case errors.Is(err, service.ErrPOINotFound), errors.Is(err, service.ErrTerritoryNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrUnsupportedFormat), errors.Is(err, service.ErrInvalidFilter):
		response.BadRequest(c, err.Error())
	default:
		slog.ErrorContext(c.Request.Context(), fallback, "error", err)
		response.InternalError(c, fallback)
	}
}
