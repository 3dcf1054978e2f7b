package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/survival-explorer-go/internal/middleware"
	"github.com/jengzang/survival-explorer-go/internal/models"
	"github.com/jengzang/survival-explorer-go/internal/service"
	"github.com/jengzang/survival-explorer-go/pkg/response"
)

// ExplorationHandler handles HTTP requests for exploration and presence
type ExplorationHandler struct {
	exploration *service.ExplorationService
	presence    *service.PresenceService
}

// NewExplorationHandler creates a new exploration handler
func NewExplorationHandler(exploration *service.ExplorationService, presence *service.PresenceService) *ExplorationHandler {
	return &ExplorationHandler{exploration: exploration, presence: presence}
}

// Explore handles GET /api/v1/explore
func (h *ExplorationHandler) Explore(c *gin.Context) {
	var q models.LocationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	res, err := h.exploration.Explore(c.Request.Context(), c.GetString(middleware.UserIDKey), q.Coordinate())
	if err != nil {
		fail(c, err, "Failed to explore")
		return
	}

	response.Success(c, res)
}

// ReportPresence handles POST /api/v1/presence
func (h *ExplorationHandler) ReportPresence(c *gin.Context) {
	var q models.LocationQuery
	if err := c.ShouldBindJSON(&q); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	p, err := h.presence.Report(c.Request.Context(), c.GetString(middleware.UserIDKey), q.Coordinate())
	if err != nil {
		fail(c, err, "Failed to report presence")
		return
	}

	response.Success(c, p)
}
