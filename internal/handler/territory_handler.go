package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"github.com/jengzang/survival-explorer-go/internal/middleware"
	"github.com/jengzang/survival-explorer-go/internal/models"
	"github.com/jengzang/survival-explorer-go/internal/schema"
	"github.com/jengzang/survival-explorer-go/internal/service"
	"github.com/jengzang/survival-explorer-go/pkg/response"
)

// maxUploadBytes bounds claim bodies; MaxPathPoints is enforced separately
const maxUploadBytes = 8 << 20

// TerritoryHandler handles HTTP requests for territories
type TerritoryHandler struct {
	service   *service.TerritoryService
	validator *schema.Validator
}

// NewTerritoryHandler creates a new territory handler
func NewTerritoryHandler(service *service.TerritoryService) *TerritoryHandler {
	return &TerritoryHandler{service: service, validator: schema.MustPathUpload()}
}

// Claim handles POST /api/v1/territories
func (h *TerritoryHandler) Claim(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxUploadBytes))
	if err != nil {
		response.BadRequest(c, "Failed to read request body")
		return
	}
	if err := h.validator.ValidateBytes(body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var upload models.PathUpload
	if err := json.Unmarshal(body, &upload); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	t, err := h.service.Claim(c.Request.Context(), c.GetString(middleware.UserIDKey), upload.Name, upload.Points)
	if err != nil {
		fail(c, err, "Failed to claim territory")
		return
	}

	response.Created(c, t)
}

// ClaimNMEA handles POST /api/v1/territories/nmea
func (h *TerritoryHandler) ClaimNMEA(c *gin.Context) {
	t, err := h.service.ClaimNMEA(c.Request.Context(), c.GetString(middleware.UserIDKey), c.Query("name"),
		io.LimitReader(c.Request.Body, maxUploadBytes))
	if err != nil {
		fail(c, err, "Failed to claim territory")
		return
	}

	response.Created(c, t)
}

// GetTerritories handles GET /api/v1/territories
func (h *TerritoryHandler) GetTerritories(c *gin.Context) {
	var filter models.TerritoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}
	filter.UserID = c.GetString(middleware.UserIDKey)

	res, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		fail(c, err, "Failed to get territories")
		return
	}

	response.Success(c, res)
}

// GetStats handles GET /api/v1/stats/territories
func (h *TerritoryHandler) GetStats(c *gin.Context) {
	summary, err := h.service.Stats(c.Request.Context(), c.GetString(middleware.UserIDKey))
	if err != nil {
		fail(c, err, "Failed to get territory stats")
		return
	}

	response.Success(c, summary)
}

// GetTerritory handles GET /api/v1/territories/:id, with an optional
// .geojson or .kml suffix selecting an export format
func (h *TerritoryHandler) GetTerritory(c *gin.Context) {
	userID := c.GetString(middleware.UserIDKey)
	id := c.Param("id")

	if base, format, ok := strings.Cut(id, "."); ok {
		b, contentType, err := h.service.Export(c.Request.Context(), userID, base, format)
		if err != nil {
			fail(c, err, "Failed to export territory")
			return
		}
		c.Data(http.StatusOK, contentType, b)
		return
	}

	t, err := h.service.Get(c.Request.Context(), userID, id)
	if err != nil {
		fail(c, err, "Failed to get territory")
		return
	}

	response.Success(c, t)
}

// DeleteTerritory handles DELETE /api/v1/territories/:id
func (h *TerritoryHandler) DeleteTerritory(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.GetString(middleware.UserIDKey), c.Param("id")); err != nil {
		fail(c, err, "Failed to delete territory")
		return
	}

	response.Success(c, gin.H{"id": c.Param("id")})
}
