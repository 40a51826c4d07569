package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/workforce-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-attendance/internal/domain/cycle"
	"github.com/cmlabs-hris/workforce-attendance/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	streamKeepalive = 30 * time.Second
)

type AttendanceHandler interface {
	GetCycle(w http.ResponseWriter, r *http.Request)
	GetGrid(w http.ResponseWriter, r *http.Request)
	UpdateCell(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	keepalive         time.Duration
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		keepalive:         streamKeepalive,
	}
}

// GetCycle handles GET /attendance/cycle?date=YYYY-MM-DD
func (h *attendanceHandlerImpl) GetCycle(w http.ResponseWriter, r *http.Request) {
	var date *time.Time
	if v := r.URL.Query().Get("date"); v != "" {
		d, err := cycle.ParseDate(v)
		if err != nil {
			response.BadRequest(w, "date must be in YYYY-MM-DD format", nil)
			return
		}
		date = &d
	}

	resp, err := h.attendanceService.GetCycle(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// GetGrid handles GET /attendance/grid?cycle_id=cycle-2024-1
func (h *attendanceHandlerImpl) GetGrid(w http.ResponseWriter, r *http.Request) {
	resp, err := h.attendanceService.GetGrid(r.Context(), attendance.GridRequest{
		CycleID: r.URL.Query().Get("cycle_id"),
	})
	if err != nil {
		slog.Error("Get attendance grid service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// UpdateCell handles PUT /attendance/{workerID}/{date}
func (h *attendanceHandlerImpl) UpdateCell(w http.ResponseWriter, r *http.Request) {
	var req attendance.UpdateCellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update attendance decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.WorkerID = chi.URLParam(r, "workerID")
	req.Date = chi.URLParam(r, "date")

	resp, err := h.attendanceService.UpdateCell(r.Context(), req)
	if err != nil {
		slog.Error("Update attendance service error", "error", err, "worker_id", req.WorkerID, "date", req.Date)
		response.HandleError(w, err)
		return
	}

	if !resp.Changed {
		response.SuccessWithMessage(w, "No change", resp)
		return
	}
	response.SuccessWithMessage(w, "Attendance updated successfully", resp)
}

// Summary handles POST /attendance/summary. The body is optional.
func (h *attendanceHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	var req attendance.SummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		slog.Error("Attendance summary decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.attendanceService.GenerateSummary(r.Context(), req)
	if err != nil {
		slog.Error("Attendance summary service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// Export handles GET /attendance/export?cycle_id=...
func (h *attendanceHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	filename, err := h.attendanceService.ExportTimesheet(r.Context(), attendance.GridRequest{
		CycleID: r.URL.Query().Get("cycle_id"),
	}, &buf)
	if err != nil {
		slog.Error("Export timesheet service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.File(w, filename, xlsxContentType, buf.Bytes())
}

// Stream handles GET /attendance/stream as server-sent events.
// Browsers' EventSource cannot set headers, so the token may come as ?jwt=.
func (h *attendanceHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	events, cleanup, err := h.attendanceService.Subscribe(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer cleanup()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	fmt.Fprint(w, "event: connected\ndata: {\"status\":\"connected\"}\n\n")
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				slog.Error("Attendance stream marshal error", "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			// a comment frame; EventSource ignores it
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
