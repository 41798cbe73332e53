package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/guiatnn/portal/internal/api/metrics"
	"github.com/guiatnn/portal/internal/core/domain"
	"github.com/guiatnn/portal/internal/core/ports"
)

type UploadHandler struct {
	images ports.ImageStore
}

// NewUploadHandler serves presigned uploads. images may be nil when object
// storage is not configured.
func NewUploadHandler(images ports.ImageStore) *UploadHandler {
	return &UploadHandler{images: images}
}

type uploadRequest struct {
	Resource    string `json:"resource" validate:"required,oneof=eventos comercios galeria anuncios"`
	ContentType string `json:"content_type" validate:"required"`
}

type uploadResponse struct {
	Key       string    `json:"key"`
	UploadURL string    `json:"upload_url"`
	PublicURL string    `json:"public_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Presign hands out a presigned PUT URL for one image.
//
// @Summary      Presign image upload
// @Tags         uploads
// @Accept       json
// @Produce      json
// @Param        body  body      uploadRequest  true  "Target collection and content type"
// @Success      201   {object}  uploadResponse
// @Failure      400   {object}  map[string]any
// @Failure      415   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /api/uploads [post]
func (h *UploadHandler) Presign(c echo.Context) error {
	if _, err := ctxActor(c); err != nil {
		return err
	}
	if h.images == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "image storage not configured")
	}

	var req uploadRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resource := domain.Resource(req.Resource)
	up, err := h.images.PresignUpload(c.Request().Context(), resource, req.ContentType)
	if err != nil {
		return err
	}
	metrics.UploadsPresignedTotal.WithLabelValues(req.Resource).Inc()

	return c.JSON(http.StatusCreated, uploadResponse{
		Key:       up.Key,
		UploadURL: up.UploadURL,
		PublicURL: up.PublicURL,
		ExpiresAt: up.ExpiresAt,
	})
}
