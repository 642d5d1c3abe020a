package assessment

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/codehercare/clinic-api/internal/model"
	"github.com/codehercare/clinic-api/internal/service/assessment"
	apperrors "github.com/codehercare/clinic-api/pkg/errors"
	"github.com/codehercare/clinic-api/pkg/httputil"
)

type Handler struct {
	service *assessment.Service
}

func NewHandler(service *assessment.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/risk-assessment", h.Assess)
	r.GET("/risk-assessment-history", h.ListHistory)
	r.GET("/risk-assessment-history/:id", h.GetHistory)
	r.POST("/predict", h.Predict)
	r.GET("/patients/:id/predict", h.PredictPatient)
}

// Assess runs the scoring pipeline and returns the created history row.
func (h *Handler) Assess(c *gin.Context) {
	var req model.AssessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest(err.Error(), err))
		return
	}

	created, err := h.service.Assess(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, created)
}

func (h *Handler) ListHistory(c *gin.Context) {
	var filters model.AssessmentFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest(err.Error(), err))
		return
	}

	rows, err := h.service.List(c.Request.Context(), &filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, rows)
}

func (h *Handler) GetHistory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("invalid assessment id", err))
		return
	}

	row, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, row)
}

// Predict classifies a raw feature vector without persisting anything.
func (h *Handler) Predict(c *gin.Context) {
	var req model.PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest(err.Error(), err))
		return
	}

	resp, err := h.service.QuickPredict(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, resp)
}

func (h *Handler) PredictPatient(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("invalid patient id", err))
		return
	}

	resp, err := h.service.QuickPredictPatient(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, resp)
}
