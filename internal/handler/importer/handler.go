package importer

import (
	"mime/multipart"

	"github.com/gin-gonic/gin"

	"github.com/codehercare/clinic-api/internal/importer"
	apperrors "github.com/codehercare/clinic-api/pkg/errors"
	"github.com/codehercare/clinic-api/pkg/httputil"
)

// maxUploadBytes caps uploaded spreadsheets at 10 MiB.
const maxUploadBytes = 10 << 20

type Handler struct {
	service *importer.Service
}

func NewHandler(service *importer.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	imports := r.Group("/import")
	{
		imports.POST("/resources", h.ImportResources)
		imports.POST("/costs", h.ImportCosts)
	}
}

// ImportResources accepts a multipart upload under the "file" field.
func (h *Handler) ImportResources(c *gin.Context) {
	file, err := h.openUpload(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	defer file.Close()

	result, err := h.service.ImportResources(c.Request.Context(), file)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, result)
}

func (h *Handler) ImportCosts(c *gin.Context) {
	file, err := h.openUpload(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	defer file.Close()

	result, err := h.service.ImportCosts(c.Request.Context(), file)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, result)
}

func (h *Handler) openUpload(c *gin.Context) (multipart.File, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return nil, apperrors.NewBadRequest("missing file upload", err)
	}
	if header.Size > maxUploadBytes {
		return nil, apperrors.NewBadRequest("file too large", nil)
	}

	file, err := header.Open()
	if err != nil {
		return nil, apperrors.NewBadRequest("failed to read upload", err)
	}
	return file, nil
}
