package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codehercare/clinic-api/internal/riskmodel"
)

// Handler serves the operational endpoints.
type Handler struct {
	db      *sqlx.DB
	gateway *riskmodel.Gateway
}

func NewHandler(db *sqlx.DB, gateway *riskmodel.Gateway) *Handler {
	return &Handler{db: db, gateway: gateway}
}

func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports the database and model gateway state. A missing
// model degrades the service but does not fail readiness; assessments
// return 500 while the rest of the API keeps working.
func (h *Handler) ReadinessCheck(c *gin.Context) {
	status := http.StatusOK
	dbStatus := "up"
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		dbStatus = "down"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":          "ready",
		"database":        dbStatus,
		"model_available": h.gateway.Available(),
		"time":            time.Now(),
	})
}

func (h *Handler) MetricsHandler(c *gin.Context) {
	promhttp.Handler().ServeHTTP(c.Writer, c.Request)
}
