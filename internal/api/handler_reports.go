package api

import (
	"encoding/json"
	"net/http"

	"ga-reports/internal/domain"
	"ga-reports/internal/service/report"
)

// reportRequest is the JSON description of an abstract report query. It
// mirrors the Builder operations: fields to select, grouped filter
// conditions, sort clauses, pagination and an optional profile override.
type reportRequest struct {
	Fields []struct {
		Table  string            `json:"table,omitempty"`
		Field  string            `json:"field"`
		Alias  string            `json:"alias,omitempty"`
		Params map[string]string `json:"params,omitempty"`
	} `json:"fields"`

	// Groups predeclares filter groups with a non-default combinator.
	// Conditions referencing an undeclared group create it with AND.
	Groups []struct {
		ID         int    `json:"id"`
		Combinator string `json:"combinator"`
	} `json:"groups,omitempty"`

	Filters []struct {
		Group    int    `json:"group,omitempty"`
		Field    string `json:"field"`
		Value    string `json:"value"`
		Operator string `json:"operator"`
	} `json:"filters,omitempty"`

	// GroupOperator joins the filter groups themselves (default AND).
	GroupOperator string `json:"groupOperator,omitempty"`

	Sort []struct {
		Field     string `json:"field"`
		Direction string `json:"direction,omitempty"`
	} `json:"sort,omitempty"`

	Offset    int64 `json:"offset,omitempty"`
	Limit     int64 `json:"limit,omitempty"`
	ProfileID int64 `json:"profileId,omitempty"`
}

// reportResponse carries the interpreted result set.
type reportResponse struct {
	Rows      []domain.ReportRow `json:"rows"`
	TotalRows int64              `json:"totalRows"`
	QueryEcho string             `json:"queryEcho,omitempty"`
	ElapsedMS int64              `json:"elapsedMs"`
	Message   string             `json:"message,omitempty"`
}

// RunReport translates the JSON query description and executes it against
// the Core Reporting API.
func (h *Handler) RunReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, domain.ErrValidation("invalid request body: %v", err))
		return
	}
	if len(req.Fields) == 0 {
		h.writeError(w, domain.ErrValidation("at least one field is required"))
		return
	}

	b := report.NewBuilder("", "")
	for _, f := range req.Fields {
		b.AddField(f.Table, f.Field, f.Alias, f.Params)
	}
	for _, g := range req.Groups {
		b.SetWhereGroup(g.Combinator, g.ID)
	}
	for _, c := range req.Filters {
		b.AddWhere(c.Group, c.Field, c.Value, c.Operator)
	}
	if req.GroupOperator != "" {
		b.SetGroupOperator(req.GroupOperator)
	}
	for _, s := range req.Sort {
		b.AddOrderBy(s.Field, s.Direction)
	}
	if req.Offset > 0 || req.Limit > 0 {
		b.SetRange(req.Offset, req.Limit)
	}
	if req.ProfileID != 0 {
		b.SetProfile(req.ProfileID)
	}

	result, err := h.reports.Execute(r.Context(), b)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, reportResponse{
		Rows:      result.Rows,
		TotalRows: result.TotalRows,
		QueryEcho: result.QueryEcho,
		ElapsedMS: result.Elapsed.Milliseconds(),
		Message:   result.Message,
	})
}
