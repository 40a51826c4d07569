package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/workforce-attendance/internal/domain/worker"
	"github.com/cmlabs-hris/workforce-attendance/internal/handler/http/response"
	"github.com/cmlabs-hris/workforce-attendance/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
)

type WorkerHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type workerHandlerImpl struct {
	workerService worker.WorkerService
}

func NewWorkerHandler(workerService worker.WorkerService) WorkerHandler {
	return &workerHandlerImpl{
		workerService: workerService,
	}
}

// List handles GET /workers with optional status, site_id, search and mine=true.
func (h *workerHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filter worker.WorkerFilter
	if v := q.Get("status"); v != "" {
		status := worker.Status(v)
		if !status.IsValid() {
			response.BadRequest(w, "status must be active or inactive", nil)
			return
		}
		filter.Status = &status
	}
	if v := q.Get("site_id"); v != "" {
		filter.SiteID = &v
	}
	filter.Search = q.Get("search")

	if q.Get("mine") == "true" {
		caller, err := jwt.CallerFromContext(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}
		filter.ForemanID = &caller.UserID
	}

	workers, err := h.workerService.List(r.Context(), filter)
	if err != nil {
		slog.Error("List workers service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, workers, &response.Meta{Total: len(workers)})
}

func (h *workerHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.workerService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *workerHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req worker.CreateWorkerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create worker decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.workerService.Create(r.Context(), req)
	if err != nil {
		slog.Error("Create worker service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Worker created successfully", resp)
}

func (h *workerHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req worker.UpdateWorkerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update worker decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	resp, err := h.workerService.Update(r.Context(), req)
	if err != nil {
		slog.Error("Update worker service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Worker updated successfully", resp)
}

func (h *workerHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.workerService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		slog.Error("Delete worker service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Worker deleted successfully", nil)
}
