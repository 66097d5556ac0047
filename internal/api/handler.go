// Package api provides the HTTP handlers for the reporting service REST API.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ga-reports/internal/domain"
	"ga-reports/internal/service/fieldsync"
	"ga-reports/internal/service/report"
)

// Handler serves the field catalog and report endpoints.
type Handler struct {
	fields  domain.FieldRepository
	sync    *fieldsync.Service
	reports *report.Service
	logger  *slog.Logger
}

// NewHandler creates a Handler with its service dependencies.
func NewHandler(fields domain.FieldRepository, sync *fieldsync.Service, reports *report.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		fields:  fields,
		sync:    sync,
		reports: reports,
		logger:  logger.With("component", "api"),
	}
}

// Routes mounts all endpoints on the given router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/healthz", h.Healthz)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/fields", h.ListFields)
		r.Get("/fields/status", h.FieldsStatus)
		r.Get("/fields/groups", h.FieldGroups)
		r.Get("/fields/{id}", h.GetField)
		r.Post("/fields/check", h.CheckFields)
		r.Post("/fields/import", h.ImportFields)
		r.Post("/reports", h.RunReport)
	})
}

// Healthz reports liveness.
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// errorResponse is the JSON body for all error responses.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := httpStatusFromDomainError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{Code: status, Message: err.Error()})
}
