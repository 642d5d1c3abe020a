package chatbot

import (
	"github.com/gin-gonic/gin"

	"github.com/codehercare/clinic-api/internal/service/chatbot"
	apperrors "github.com/codehercare/clinic-api/pkg/errors"
	"github.com/codehercare/clinic-api/pkg/httputil"
)

type Handler struct {
	service *chatbot.Service
}

func NewHandler(service *chatbot.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/chatbot", h.Chat)
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

type chatResponse struct {
	Response string `json:"response"`
}

func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest(err.Error(), err))
		return
	}

	reply, err := h.service.Reply(c.Request.Context(), req.Message)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, chatResponse{Response: reply})
}
