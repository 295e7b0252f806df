package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/inkpadhq/inkpad-export/internal/export"
	"github.com/inkpadhq/inkpad-export/internal/pipeline"
)

// ExportRequest is the body for both sync and async export endpoints.
type ExportRequest struct {
	Format   export.Format `json:"format"`
	Markdown string        `json:"markdown"`
	Theme    string        `json:"theme,omitempty"`
	Name     string        `json:"name,omitempty"`
	Pro      bool          `json:"pro,omitempty"`
}

var contentTypes = map[export.Format]string{
	export.FormatHTML: "text/html; charset=utf-8",
	export.FormatPDF:  "application/pdf",
	export.FormatDOCX: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	export.FormatPPTX: "application/vnd.openxmlformats-officedocument.presentationml.presentation",
}

func (s *Server) decodeExportRequest(w http.ResponseWriter, r *http.Request) (ExportRequest, bool) {
	var req ExportRequest
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}
	if _, ok := contentTypes[req.Format]; !ok {
		jsonError(w, http.StatusBadRequest, fmt.Sprintf("unsupported format %q", req.Format))
		return req, false
	}
	if strings.TrimSpace(req.Markdown) == "" {
		jsonError(w, http.StatusUnprocessableEntity, "document is empty")
		return req, false
	}
	if req.Name == "" {
		req.Name = "Untitled"
	}
	return req, true
}

// handleExport runs a synchronous export and streams the artifact back.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeExportRequest(w, r)
	if !ok {
		return
	}

	markdown := export.Watermarked(req.Markdown, req.Pro)
	data, err := s.exporter.Build(req.Format, markdown, req.Theme, req.Name)
	if err != nil {
		s.log.Error("export failed", "format", req.Format, "error", err)
		jsonError(w, http.StatusInternalServerError, export.ErrExportFailed.Error())
		return
	}

	w.Header().Set("Content-Type", contentTypes[req.Format])
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.Write(data)
}

// handleExportAsync queues an export job and returns its ID.
func (s *Server) handleExportAsync(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeExportRequest(w, r)
	if !ok {
		return
	}

	job := pipeline.NewJob(req.Format, export.Watermarked(req.Markdown, req.Pro), req.Theme, req.Name)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(job.Snapshot())
}

func (s *Server) handleExportStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, http.StatusNotFound, "job not found")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

func (s *Server) handleExportResult(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, http.StatusNotFound, "job not found")
		return
	}
	snap := job.Snapshot()
	if snap.Status != pipeline.StatusCompleted {
		jsonError(w, http.StatusConflict, fmt.Sprintf("job is %s", snap.Status))
		return
	}
	data := job.Result()
	w.Header().Set("Content-Type", contentTypes[snap.Format])
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.Write(data)
}

func jsonError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
