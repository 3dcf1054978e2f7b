package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/survival-explorer-go/internal/models"
	"github.com/jengzang/survival-explorer-go/internal/service"
	"github.com/jengzang/survival-explorer-go/pkg/response"
)

// POIHandler handles HTTP requests for points of interest
type POIHandler struct {
	service *service.POIService
}

// NewPOIHandler creates a new POI handler
func NewPOIHandler(service *service.POIService) *POIHandler {
	return &POIHandler{service: service}
}

// GetPOIs handles GET /api/v1/pois
func (h *POIHandler) GetPOIs(c *gin.Context) {
	var filter models.POIFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	pois, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		fail(c, err, "Failed to get POIs")
		return
	}

	response.Success(c, gin.H{
		"data":  pois,
		"total": len(pois),
	})
}

// GetPOIByID handles GET /api/v1/pois/:id
func (h *POIHandler) GetPOIByID(c *gin.Context) {
	poi, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err, "Failed to get POI")
		return
	}
	response.Success(c, poi)
}

// Discover handles POST /api/v1/pois/:id/discover
func (h *POIHandler) Discover(c *gin.Context) {
	poi, err := h.service.Discover(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err, "Failed to discover POI")
		return
	}
	response.Success(c, poi)
}

// Loot handles POST /api/v1/pois/:id/loot
func (h *POIHandler) Loot(c *gin.Context) {
	poi, err := h.service.Loot(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err, "Failed to loot POI")
		return
	}
	response.Success(c, poi)
}
