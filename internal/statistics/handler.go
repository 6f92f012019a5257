package statistics

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/handyhub/provider-stats/pkg/common"
)

// Handler handles HTTP requests for provider statistics
type Handler struct {
	service          *Service
	defaultTimeframe int
}

// NewHandler creates a new statistics handler
func NewHandler(service *Service, defaultTimeframe int) *Handler {
	if defaultTimeframe <= 0 {
		defaultTimeframe = 30
	}
	return &Handler{service: service, defaultTimeframe: defaultTimeframe}
}

// GetProviderStatistics handles provider statistics requests
func (h *Handler) GetProviderStatistics(c *gin.Context) {
	providerID, err := strconv.ParseInt(c.Param("provider_id"), 10, 64)
	if err != nil || providerID <= 0 {
		common.AppErrorResponse(c, common.NewValidationError("invalid provider id"))
		return
	}

	timeframeStr := c.DefaultQuery("timeframe", strconv.Itoa(h.defaultTimeframe))
	timeframeDays, err := strconv.Atoi(timeframeStr)
	if err != nil || timeframeDays <= 0 {
		common.AppErrorResponse(c, common.NewValidationError("timeframe must be a positive number of days"))
		return
	}

	report, err := h.service.ComputeProviderStatistics(c.Request.Context(), providerID, timeframeDays)
	if err != nil {
		common.HandleError(c, err, "failed to compute provider statistics")
		return
	}

	common.SuccessResponse(c, report)
}

// HealthCheck provides a simple liveness response
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
