package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"slotswapper/internal/delivery/http/helpers"
	"slotswapper/internal/delivery/http/middleware"
	"slotswapper/internal/domain"
)

// CreateSwapRequestRequest is the request body for POST /api/swap-request.
type CreateSwapRequestRequest struct {
	MySlotID    string `json:"my_slot_id"`
	TheirSlotID string `json:"their_slot_id"`
	Message     string `json:"message"`
}

// Validate implements Validator.
func (c CreateSwapRequestRequest) Validate() []string {
	var errs []string
	if c.MySlotID == "" {
		errs = append(errs, "my_slot_id is required")
	}
	if c.TheirSlotID == "" {
		errs = append(errs, "their_slot_id is required")
	}
	return errs
}

// SwapResponseRequest is the request body for POST /api/swap-response/{requestID}.
type SwapResponseRequest struct {
	Accept *bool `json:"accept"`
}

// Validate implements Validator.
func (s SwapResponseRequest) Validate() []string {
	if s.Accept == nil {
		return []string{"accept is required and must be a boolean"}
	}
	return nil
}

// SwapRequestDetailSuccessResponse is the success envelope for POST /api/swap-request (201).
type SwapRequestDetailSuccessResponse struct {
	Data  *domain.SwapRequestDetail `json:"data"`
	Error *helpers.APIError         `json:"error"`
}

// SwapRequestSuccessResponse is the success envelope for POST /api/swap-response/{requestID} (200).
type SwapRequestSuccessResponse struct {
	Data  *domain.SwapRequest `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// SlotListSuccessResponse is the success envelope for GET /api/swappable-slots (200).
type SlotListSuccessResponse struct {
	Data  []*domain.SlotWithOwner `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// SwapRequestListSuccessResponse is the success envelope for GET /api/swap-requests (200).
type SwapRequestListSuccessResponse struct {
	Data  []*domain.SwapRequestDetail `json:"data"`
	Error *helpers.APIError           `json:"error"`
}

type SwapController struct {
	Logger  *slog.Logger
	Service domain.SwapService
}

func NewSwapController(logger *slog.Logger, svc domain.SwapService) *SwapController {
	return &SwapController{
		Logger:  logger,
		Service: svc,
	}
}

// ListSwappableSlots godoc
// @Summary List swappable slots
// @Description Returns other users' SWAPPABLE slots with owner details, ordered by start time ascending.
// @Tags swaps
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.SlotListSuccessResponse "data contains slots with owners"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/swappable-slots [get]
func (c *SwapController) ListSwappableSlots(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	slots, err := c.Service.ListSwappableSlots(r.Context(), userID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, slots)
}

// CreateSwapRequest godoc
// @Summary Propose a slot swap
// @Description Offer one of my SWAPPABLE slots in exchange for another user's SWAPPABLE slot. Both slots become SWAP_PENDING.
// @Tags swaps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param swap body CreateSwapRequestRequest true "Slot pair and optional message"
// @Success 201 {object} controllers.SwapRequestDetailSuccessResponse "data contains the created request with slot and user details"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 503 {object} helpers.APIResponse "error.code: conflict — transient, retry"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/swap-request [post]
func (c *SwapController) CreateSwapRequest(w http.ResponseWriter, r *http.Request) {
	var req CreateSwapRequestRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	detail, err := c.Service.CreateSwapRequest(r.Context(), userID, req.MySlotID, req.TheirSlotID, req.Message)
	if err != nil {
		c.writeSwapError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, detail)
}

// RespondToSwapRequest godoc
// @Summary Accept or reject a swap request
// @Description Only the receiver may respond, exactly once. Accepting exchanges slot ownership; rejecting re-publishes both slots.
// @Tags swaps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param requestID path string true "Swap request ID"
// @Param response body SwapResponseRequest true "accept: true or false"
// @Success 200 {object} controllers.SwapRequestSuccessResponse "data contains the resolved request"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/swap-response/{requestID} [post]
func (c *SwapController) RespondToSwapRequest(w http.ResponseWriter, r *http.Request) {
	requestID := r.PathValue("requestID")
	if requestID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing requestID")
		return
	}
	var req SwapResponseRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	resolved, err := c.Service.RespondToSwapRequest(r.Context(), userID, requestID, *req.Accept)
	if err != nil {
		c.writeSwapError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, resolved)
}

// ListSwapRequests godoc
// @Summary List my swap requests
// @Description Returns the user's swap requests with slot and user details, newest first. Filter with ?type=sent or ?type=received; anything else returns both.
// @Tags swaps
// @Produce json
// @Security BearerAuth
// @Param type query string false "sent, received, or all"
// @Success 200 {object} controllers.SwapRequestListSuccessResponse "data contains request details"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/swap-requests [get]
func (c *SwapController) ListSwapRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	direction := domain.SwapDirection(r.URL.Query().Get("type"))
	details, err := c.Service.ListSwapRequests(r.Context(), userID, direction)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, details)
}

// writeSwapError maps swap engine errors to HTTP responses.
func (c *SwapController) writeSwapError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrSelfSwap),
		errors.Is(err, domain.ErrIneligibleSlot),
		errors.Is(err, domain.ErrDuplicateRequest):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrSwapRequestNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, err.Error())
	case errors.Is(err, domain.ErrAlreadyResolved):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, err.Error())
	case errors.Is(err, domain.ErrTxConflict):
		helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeConflict, "temporary conflict, please retry")
	default:
		// Includes ErrSlotVanished: a consistency fault is a server error, and
		// the engine has already logged the details.
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}
