package book

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"bookswap/internal/httpx"
	"bookswap/internal/swap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type HTTPHandler struct {
	service *Service
	logger  *slog.Logger
}

func NewHTTPHandler(service *Service, logger *slog.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, logger: logger}
}

type createReq struct {
	Title         string              `json:"title" validate:"notblank,max=300"`
	Author        string              `json:"author" validate:"notblank,max=200"`
	Description   string              `json:"description" validate:"max=5000"`
	Language      string              `json:"language" validate:"notblank,max=16"`
	Condition     string              `json:"condition" validate:"required"`
	GenreIDs      []string            `json:"genreIds" validate:"max=10,dive,notblank"`
	CoverPhotos   []string            `json:"coverPhotos" validate:"max=10,dive,url"`
	SwapCondition swap.ConditionInput `json:"swapCondition"`
}

type page struct {
	number int
	size   int
}

func parsePage(values url.Values) page {
	p := page{}
	p.number, _ = strconv.Atoi(values.Get("page"))
	if p.number < 1 {
		p.number = 1
	}
	p.size, _ = strconv.Atoi(values.Get("page_size"))
	if p.size <= 0 || p.size > maxPageSize {
		p.size = defaultPageSize
	}
	return p
}

func (p page) meta(total int) map[string]any {
	return map[string]any{
		"page":        p.number,
		"page_size":   p.size,
		"total":       total,
		"total_pages": (total + p.size - 1) / p.size,
	}
}

// parseQuery reads the list filters. Unknown condition or swap type codes are
// rejected rather than ignored.
func parseQuery(values url.Values) (Query, page, error) {
	q := Query{
		GenreID:  strings.TrimSpace(values.Get("genre_id")),
		Language: strings.ToLower(strings.TrimSpace(values.Get("language"))),
		OwnerID:  strings.TrimSpace(values.Get("owner_id")),
		Q:        strings.TrimSpace(values.Get("q")),
		Sort:     values.Get("sort"),
		Desc:     values.Get("desc") == "true",
	}
	if q.Sort != SortTitle {
		q.Sort = SortCreatedAt
		if values.Get("desc") == "" {
			q.Desc = true
		}
	}
	if code := values.Get("condition"); code != "" {
		c, err := ParseCondition(code)
		if err != nil {
			return Query{}, page{}, err
		}
		q.Condition = c
	}
	if code := values.Get("swap_type"); code != "" {
		t, err := swap.ParseType(code)
		if err != nil {
			return Query{}, page{}, err
		}
		q.SwapType = t
	}

	p := parsePage(values)
	q.Limit = p.size
	q.Offset = (p.number - 1) * p.size
	return q, p, nil
}

func (h *HTTPHandler) list(w http.ResponseWriter, r *http.Request, q Query, p page) {
	books, total, err := h.service.List(r.Context(), q)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if books == nil {
		books = []Book{}
	}
	httpx.JSONSuccess(w, r, books, p.meta(total))
}

// List handles GET /books
// @Summary List books
// @Description Get a paginated list of books with optional filters
// @Tags books
// @Produce json
// @Param genre_id query string false "Genre ID"
// @Param language query string false "Language"
// @Param condition query string false "NEW, LIKE_NEW, GOOD, FAIR or POOR"
// @Param swap_type query string false "GIVE_AWAY, OPEN_FOR_OFFERS, BY_GENRES or BY_BOOKS"
// @Param owner_id query string false "Owner ID"
// @Param q query string false "Search title and author"
// @Param sort query string false "created_at or title"
// @Param desc query bool false "Sort descending"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	q, p, err := parseQuery(r.URL.Query())
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	h.list(w, r, q, p)
}

// ListByOwner handles GET /users/{id}/books
// @Summary List a user's books
// @Tags books
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} httpx.SuccessResponse
// @Router /users/{id}/books [get]
func (h *HTTPHandler) ListByOwner(w http.ResponseWriter, r *http.Request) {
	q, p, err := parseQuery(r.URL.Query())
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	q.OwnerID = r.PathValue("id")
	h.list(w, r, q, p)
}

// Get handles GET /books/{id}
// @Summary Get a book
// @Tags books
// @Produce json
// @Param id path string true "Book ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// Create handles POST /books
// @Summary List a book for swapping
// @Tags books
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body createReq true "Book"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books [post]
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

	b, err := h.service.Create(r.Context(), httpx.UserIDFrom(r), CreateCommand{
		Title:         req.Title,
		Author:        req.Author,
		Description:   req.Description,
		Language:      req.Language,
		Condition:     req.Condition,
		GenreIDs:      req.GenreIDs,
		CoverPhotos:   req.CoverPhotos,
		SwapCondition: req.SwapCondition,
	})
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.JSONCreated(w, r, b)
}

// Delete handles DELETE /books/{id}
// @Summary Remove a listing
// @Tags books
// @Security Bearer
// @Param id path string true "Book ID"
// @Success 204
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), httpx.UserIDFrom(r), r.PathValue("id")); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.NoContent(w)
}
