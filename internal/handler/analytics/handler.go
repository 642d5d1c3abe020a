package analytics

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/codehercare/clinic-api/internal/service/analytics"
	apperrors "github.com/codehercare/clinic-api/pkg/errors"
	"github.com/codehercare/clinic-api/pkg/httputil"
)

type Handler struct {
	service *analytics.Service
}

func NewHandler(service *analytics.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/risk-distribution", h.RiskDistribution)
	r.GET("/dashboard-stats", h.DashboardStats)
	r.GET("/cost-trends", h.CostTrends)
	r.GET("/resource-utilization-analytics", h.ResourceUtilization)
}

func (h *Handler) RiskDistribution(c *gin.Context) {
	dist, err := h.service.RiskDistribution(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, dist)
}

func (h *Handler) DashboardStats(c *gin.Context) {
	cards, err := h.service.DashboardStats(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, cards)
}

func (h *Handler) CostTrends(c *gin.Context) {
	days := 0
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			httputil.RespondWithError(c, apperrors.NewBadRequest("days must be a positive integer", err))
			return
		}
		days = parsed
	}

	trend, err := h.service.CostTrend(c.Request.Context(), days)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, trend)
}

func (h *Handler) ResourceUtilization(c *gin.Context) {
	resources, err := h.service.ResourceUtilization(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, resources)
}
