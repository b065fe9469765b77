package handlers

import (
	"bytes"
	"net/http"

	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/kozaktomas/face-attendance/internal/notify"
	"github.com/kozaktomas/face-attendance/internal/recognition"
)

// AttendanceHandler handles attendance marking and reporting endpoints.
type AttendanceHandler struct {
	service *recognition.Service
	log     *attendance.Log
}

// NewAttendanceHandler creates a new attendance handler.
func NewAttendanceHandler(svc *recognition.Service, log *attendance.Log) *AttendanceHandler {
	return &AttendanceHandler{service: svc, log: log}
}

// List returns all attendance rows.
func (h *AttendanceHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.Attendance()
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if rows == nil {
		rows = []attendance.Row{}
	}
	respondJSON(w, http.StatusOK, rows)
}

// Mark records attendance for the recognised person.
func (h *AttendanceHandler) Mark(w http.ResponseWriter, r *http.Request) {
	frame, err := readFrame(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var mark recognition.Mark
	if frame != nil {
		mark, err = h.service.MarkAttendanceFrame(r.Context(), frame)
	} else {
		mark, err = h.service.MarkAttendance(r.Context())
	}
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"attendance": mark,
		"message":    "Attendance marked for " + mark.Name,
	})
}

// Clear deletes the attendance file.
func (h *AttendanceHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearAttendance(); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Export downloads the attendance report as a spreadsheet.
func (h *AttendanceHandler) Export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.log.ExportXLSX(&buf); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", notify.XLSXContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+constants.ReportFileName+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// Report emails the attendance report.
func (h *AttendanceHandler) Report(w http.ResponseWriter, r *http.Request) {
	if err := h.service.SendReport(r.Context()); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Attendance report sent successfully!",
	})
}
