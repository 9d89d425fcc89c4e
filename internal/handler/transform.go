package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"datumtrans-api/internal/dms"
	"datumtrans-api/internal/models"
	"datumtrans-api/internal/repository"
	"datumtrans-api/internal/service"
	"datumtrans-api/internal/trans"

	"github.com/gin-gonic/gin"
)

// TransformHandler handles datum transformation requests
type TransformHandler struct {
	service TransformService
}

// Service interface for dependency injection
type TransformService interface {
	Transform(ctx context.Context, set string, p models.Point, direction service.Direction) (models.Point, error)
	Summary(ctx context.Context, set string) (trans.Summary, error)
	ListParameterSets(ctx context.Context) ([]models.ParameterSetInfo, error)
}

// NewTransformHandler creates a new transform handler
func NewTransformHandler(svc TransformService) *TransformHandler {
	return &TransformHandler{service: svc}
}

var directions = map[service.Direction]bool{
	service.DirectionForward:        true,
	service.DirectionBackward:       true,
	service.DirectionBackwardCompat: true,
	service.DirectionBackwardSafe:   true,
}

// Transform handles GET /transform requests
func (h *TransformHandler) Transform(c *gin.Context) {
	set := c.Query("set")
	if set == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter 'set'"})
		return
	}

	lat, ok := queryFloat(c, "lat")
	if !ok {
		return
	}
	lon, ok := queryFloat(c, "lon")
	if !ok {
		return
	}

	alt := 0.0
	if s := c.Query("alt"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'alt' must be a number"})
			return
		}
		alt = v
	}

	direction := service.DirectionForward
	if s := c.Query("direction"); s != "" {
		direction = service.Direction(s)
		if !directions[direction] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'direction' must be one of forward, backward, backward_compat, backward_safe"})
			return
		}
	}

	point := models.Point{Latitude: lat, Longitude: lon, Altitude: alt}
	result, err := h.service.Transform(c.Request.Context(), set, point, direction)
	if err != nil {
		writeTransformError(c, err)
		return
	}

	if c.Query("notation") == "dms" {
		latDMS, err := dms.FromDD(result.Latitude)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		lonDMS, err := dms.FromDD(result.Longitude)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		c.JSON(http.StatusOK, models.PointDMS{
			Latitude:  latDMS.String(),
			Longitude: lonDMS.String(),
			Altitude:  result.Altitude,
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Summary handles GET /summary requests
func (h *TransformHandler) Summary(c *gin.Context) {
	set := c.Query("set")
	if set == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter 'set'"})
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), set)
	if err != nil {
		writeTransformError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ListParameterSets handles GET /parameter-sets requests
func (h *TransformHandler) ListParameterSets(c *gin.Context) {
	infos, err := h.service.ListParameterSets(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if infos == nil {
		infos = []models.ParameterSetInfo{}
	}
	c.JSON(http.StatusOK, infos)
}

func queryFloat(c *gin.Context, name string) (float64, bool) {
	s := c.Query(name)
	if s == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter '" + name + "'"})
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter '" + name + "' must be a number"})
		return 0, false
	}
	return v, true
}

// writeTransformError maps service errors onto HTTP statuses: unknown sets and
// points outside the parameter coverage are 404, a failed verified backward
// iteration is 422, anything else is a plain 500.
func writeTransformError(c *gin.Context, err error) {
	var notFound *trans.ParameterNotFoundError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "parameter set not found"})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "point is outside the parameter coverage"})
	case errors.Is(err, trans.ErrNotConverged):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "backward transformation did not converge"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
