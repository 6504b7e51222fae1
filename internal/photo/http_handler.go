package photo

import (
	"log/slog"
	"net/http"
	"strconv"

	"bookswap/internal/apperror"
	"bookswap/internal/httpx"
)

type HTTPHandler struct {
	service *Service
	logger  *slog.Logger
}

func NewHTTPHandler(service *Service, logger *slog.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, logger: logger}
}

// Upload handles POST /photos
// @Summary Upload a cover photo
// @Tags photos
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param file formData file true "Image (jpeg, png, webp, gif)"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /photos [post]
func (h *HTTPHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.service.maxBytes+1<<20)
	file, _, err := r.FormFile("file")
	if err != nil {
		httpx.WriteError(w, r, h.logger, apperror.BadRequest("fileIsRequired").WithCause(err))
		return
	}
	defer file.Close()

	p, err := h.service.Upload(r.Context(), file)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.JSONCreated(w, r, p)
}

// Get handles GET /photos/{key}
// @Summary Download a photo
// @Tags photos
// @Produce image/jpeg,image/png,image/webp,image/gif
// @Param key path string true "Photo key"
// @Success 200
// @Failure 404 {object} httpx.ErrorResponse
// @Router /photos/{key} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	data, mediaType, err := h.service.Read(r.Context(), r.PathValue("key"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", mediaType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Delete handles DELETE /photos/{key}
// @Summary Delete a photo
// @Tags photos
// @Security Bearer
// @Param key path string true "Photo key"
// @Success 204
// @Failure 404 {object} httpx.ErrorResponse
// @Router /photos/{key} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("key")); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.NoContent(w)
}
