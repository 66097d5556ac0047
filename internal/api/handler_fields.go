package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"ga-reports/internal/domain"
	"ga-reports/internal/service/fieldsync"
)

// fieldListResponse is a page of catalog entries.
type fieldListResponse struct {
	Fields        []domain.FieldDefinition `json:"fields"`
	TotalCount    int64                    `json:"totalCount"`
	NextPageToken string                   `json:"nextPageToken,omitempty"`
}

// ListFields returns a page of the field catalog, for field-selection UIs.
func (h *Handler) ListFields(w http.ResponseWriter, r *http.Request) {
	page := domain.PageRequest{PageToken: r.URL.Query().Get("page_token")}
	if v := r.URL.Query().Get("max_results"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			h.writeError(w, domain.ErrValidation("invalid max_results: %q", v))
			return
		}
		page.MaxResults = n
	}

	fields, total, err := h.fields.List(r.Context(), page)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if fields == nil {
		fields = []domain.FieldDefinition{}
	}

	writeJSON(w, http.StatusOK, fieldListResponse{
		Fields:        fields,
		TotalCount:    total,
		NextPageToken: domain.NextPageToken(page.Offset(), page.Limit(), total),
	})
}

// GetField returns a single catalog entry by field ID.
func (h *Handler) GetField(w http.ResponseWriter, r *http.Request) {
	field, err := h.fields.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, field)
}

// FieldGroups returns the distinct display groups of the catalog.
func (h *Handler) FieldGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.sync.Groups(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	if groups == nil {
		groups = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"groups": groups})
}

// statusResponse reports catalog sync state.
type statusResponse struct {
	FieldCount int64  `json:"fieldCount"`
	Etag       string `json:"etag,omitempty"`
	LastSync   int64  `json:"lastSync,omitempty"`
	Message    string `json:"message"`
}

// FieldsStatus reports the catalog size, stored etag and last sync time.
func (h *Handler) FieldsStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.sync.Status(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	message := "Google Analytics fields have never been imported."
	if status.LastSyncUnix > 0 {
		message = "Last import was " + time.Unix(status.LastSyncUnix, 0).UTC().Format(time.RFC1123) + "."
	}

	writeJSON(w, http.StatusOK, statusResponse{
		FieldCount: status.FieldCount,
		Etag:       status.Etag,
		LastSync:   status.LastSyncUnix,
		Message:    message,
	})
}

// checkResponse reports a staleness check outcome.
type checkResponse struct {
	State   string `json:"state"`
	Message string `json:"message"`
}

// CheckFields runs the etag staleness check against the metadata API.
func (h *Handler) CheckFields(w http.ResponseWriter, r *http.Request) {
	state, err := h.sync.CheckForUpdates(r.Context())
	if err != nil && state == fieldsync.StateUnknown {
		h.writeError(w, err)
		return
	}

	message := "There are no new updates for Google Analytics fields."
	if state == fieldsync.StateStale {
		message = "There are new updates for Google Analytics fields. Import them to refresh the local catalog."
	}
	writeJSON(w, http.StatusOK, checkResponse{State: string(state), Message: message})
}

// importResponse reports an import outcome.
type importResponse struct {
	Imported int    `json:"imported"`
	Message  string `json:"message"`
}

// ImportFields fetches the full metadata catalog and replaces the local copy.
func (h *Handler) ImportFields(w http.ResponseWriter, r *http.Request) {
	count, err := h.sync.ImportFields(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, importResponse{
		Imported: count,
		Message:  "Imported " + strconv.Itoa(count) + " Google Analytics fields.",
	})
}
