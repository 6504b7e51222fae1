package swaprequest

import (
	"log/slog"
	"net/http"
	"strconv"

	"bookswap/internal/httpx"
	"bookswap/internal/swap"
)

type HTTPHandler struct {
	service *Service
	logger  *slog.Logger
}

func NewHTTPHandler(service *Service, logger *slog.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, logger: logger}
}

type createReq struct {
	ReceiverID       string           `json:"receiverId" validate:"notblank"`
	BookToSwapWithID string           `json:"bookToSwapWithId" validate:"notblank"`
	SwapType         string           `json:"swapType" validate:"notblank"`
	SwapOffer        *swap.OfferInput `json:"swapOffer"`
	AskForGiveaway   bool             `json:"askForGiveaway"`
	Note             string           `json:"note"`
}

type statusReq struct {
	Status string `json:"status" validate:"notblank"`
}

func viewer(r *http.Request) Viewer {
	return Viewer{UserID: httpx.UserIDFrom(r), Admin: httpx.IsAdmin(r)}
}

// Create handles POST /swap-requests
// @Summary Request a swap
// @Description Ask the owner of a book for a swap. The caller is the sender.
// @Tags swap-requests
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body createReq true "Swap request"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /swap-requests [post]
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

	d, err := h.service.Create(r.Context(), CreateInput{
		SenderID:         httpx.UserIDFrom(r),
		ReceiverID:       req.ReceiverID,
		BookToSwapWithID: req.BookToSwapWithID,
		SwapType:         req.SwapType,
		Offer:            req.SwapOffer,
		AskForGiveaway:   req.AskForGiveaway,
		Note:             req.Note,
	})
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.JSONCreated(w, r, d)
}

// Get handles GET /swap-requests/{id}
// @Summary Get a swap request
// @Tags swap-requests
// @Produce json
// @Security Bearer
// @Param id path string true "Swap request ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /swap-requests/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Get(r.Context(), viewer(r), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.JSONSuccess(w, r, d, nil)
}

// ListMine handles GET /me/swap-requests
// @Summary List my swap requests
// @Tags swap-requests
// @Produce json
// @Security Bearer
// @Param direction query string false "received (default) or sent"
// @Param status query string false "Swap status"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /me/swap-requests [get]
func (h *HTTPHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	dir, err := ParseDirection(query.Get("direction"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	f := ListFilter{UserID: httpx.UserIDFrom(r), Direction: dir}
	if code := query.Get("status"); code != "" {
		if f.Status, err = swap.ParseStatus(code); err != nil {
			httpx.WriteError(w, r, h.logger, err)
			return
		}
	}

	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(query.Get("page_size"))
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	f.Limit = pageSize
	f.Offset = (page - 1) * pageSize

	items, total, err := h.service.List(r.Context(), f)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if items == nil {
		items = []SwapRequest{}
	}
	httpx.JSONSuccess(w, r, items, map[string]any{
		"page":        page,
		"page_size":   pageSize,
		"total":       total,
		"total_pages": (total + pageSize - 1) / pageSize,
		"direction":   dir,
	})
}

// TransitionStatus handles PATCH /swap-requests/{id}/status
// @Summary Change a swap request's status
// @Description No transitions out of PENDING are available yet.
// @Tags swap-requests
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Swap request ID"
// @Param request body statusReq true "Next status"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /swap-requests/{id}/status [patch]
func (h *HTTPHandler) TransitionStatus(w http.ResponseWriter, r *http.Request) {
	var req statusReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.ValidationFailed(w, r, details)
		return
	}

	sr, err := h.service.TransitionStatus(r.Context(), viewer(r), r.PathValue("id"), req.Status)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.JSONSuccess(w, r, sr, nil)
}

// DeleteAll handles DELETE /swap-requests
// @Summary Delete every swap request
// @Tags swap-requests
// @Produce json
// @Security Bearer
// @Success 200 {object} httpx.SuccessResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Router /swap-requests [delete]
func (h *HTTPHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.DeleteAll(r.Context())
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.JSONSuccess(w, r, map[string]int64{"deleted": n}, nil)
}
