package genre

import (
	"log/slog"
	"net/http"

	"bookswap/internal/httpx"
)

type HTTPHandler struct {
	service *Service
	logger  *slog.Logger
}

func NewHTTPHandler(service *Service, logger *slog.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, logger: logger}
}

type createReq struct {
	Name     string  `json:"name" validate:"notblank,max=100"`
	ParentID *string `json:"parentId"`
}

type setParentReq struct {
	ParentID *string `json:"parentId"`
}

// List handles GET /genres
// @Summary List genres
// @Tags genres
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Router /genres [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	genres, err := h.service.List(r.Context())
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if genres == nil {
		genres = []Genre{}
	}
	httpx.JSONSuccess(w, r, genres, map[string]any{"total": len(genres)})
}

// Get handles GET /genres/{id}
// @Summary Get a genre with its ancestors and children
// @Tags genres
// @Produce json
// @Param id path string true "Genre ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /genres/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	g, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	tree, err := h.service.Tree(r.Context())
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.JSONSuccess(w, r, map[string]any{
		"genre":     g,
		"ancestors": nonNil(tree.Ancestors(id)),
		"children":  nonNil(tree.Children(id)),
	}, nil)
}

// Create handles POST /genres
// @Summary Create a genre
// @Tags genres
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body createReq true "Genre"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /genres [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.ValidationFailed(w, r, details)
		return
	}

	g, err := h.service.Create(r.Context(), req.Name, req.ParentID)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.JSONCreated(w, r, g)
}

// SetParent handles PATCH /genres/{id}/parent
// @Summary Move a genre under another parent, or to the root with a null parentId
// @Tags genres
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Genre ID"
// @Param request body setParentReq true "New parent"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /genres/{id}/parent [patch]
func (h *HTTPHandler) SetParent(w http.ResponseWriter, r *http.Request) {
	var req setParentReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	g, err := h.service.SetParent(r.Context(), r.PathValue("id"), req.ParentID)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.JSONSuccess(w, r, g, nil)
}

func nonNil(gs []Genre) []Genre {
	if gs == nil {
		return []Genre{}
	}
	return gs
}
