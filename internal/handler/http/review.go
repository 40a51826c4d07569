package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/workforce-attendance/internal/domain/review"
	"github.com/cmlabs-hris/workforce-attendance/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ReviewHandler interface {
	GetCurrent(w http.ResponseWriter, r *http.Request)
	SubmitCurrent(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Return(w http.ResponseWriter, r *http.Request)
}

type reviewHandlerImpl struct {
	reviewService review.ReviewService
}

func NewReviewHandler(reviewService review.ReviewService) ReviewHandler {
	return &reviewHandlerImpl{
		reviewService: reviewService,
	}
}

func (h *reviewHandlerImpl) GetCurrent(w http.ResponseWriter, r *http.Request) {
	resp, err := h.reviewService.GetCurrent(r.Context())
	if err != nil {
		slog.Error("Get current review service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *reviewHandlerImpl) SubmitCurrent(w http.ResponseWriter, r *http.Request) {
	// Signature data URLs are at most ~1.4MB once base64 encoded
	r.Body = http.MaxBytesReader(w, r.Body, 2<<20)

	var req review.SubmitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Submit review decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.reviewService.SubmitCurrent(r.Context(), req)
	if err != nil {
		slog.Error("Submit review service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Review submitted successfully", resp)
}

// List handles GET /reviews?cycle_id=&status=
func (h *reviewHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := review.ReviewFilter{CycleID: q.Get("cycle_id")}
	if v := q.Get("status"); v != "" {
		status := review.Status(v)
		if !status.IsValid() {
			response.BadRequest(w, "status must be pending, submitted, approved or returned", nil)
			return
		}
		filter.Status = &status
	}

	reviews, err := h.reviewService.List(r.Context(), filter)
	if err != nil {
		slog.Error("List reviews service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, reviews, &response.Meta{Total: len(reviews)})
}

func (h *reviewHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	resp, err := h.reviewService.Approve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		slog.Error("Approve review service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Review approved", resp)
}

func (h *reviewHandlerImpl) Return(w http.ResponseWriter, r *http.Request) {
	var req review.ReturnReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Return review decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	resp, err := h.reviewService.Return(r.Context(), req)
	if err != nil {
		slog.Error("Return review service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Review returned to engineer", resp)
}
