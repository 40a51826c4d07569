package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/workforce-attendance/internal/domain/site"
	"github.com/cmlabs-hris/workforce-attendance/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type SiteHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type siteHandlerImpl struct {
	siteService site.SiteService
}

func NewSiteHandler(siteService site.SiteService) SiteHandler {
	return &siteHandlerImpl{
		siteService: siteService,
	}
}

// List handles GET /sites. active=true returns the sites offered for Present entries.
func (h *siteHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	sites, err := h.siteService.List(r.Context(), r.URL.Query().Get("active") == "true")
	if err != nil {
		slog.Error("List sites service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, sites, &response.Meta{Total: len(sites)})
}

func (h *siteHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.siteService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *siteHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req site.CreateSiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create site decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.siteService.Create(r.Context(), req)
	if err != nil {
		slog.Error("Create site service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Site created successfully", resp)
}

func (h *siteHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req site.UpdateSiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update site decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	resp, err := h.siteService.Update(r.Context(), req)
	if err != nil {
		slog.Error("Update site service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Site updated successfully", resp)
}

func (h *siteHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.siteService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		slog.Error("Delete site service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Site deleted successfully", nil)
}
