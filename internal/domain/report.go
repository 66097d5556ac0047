package domain

import "time"

// ReportQuery is the parameter bag consumed by the Core Reporting API fetch.
// It is the output of the query translator; building it performs no I/O.
type ReportQuery struct {
	// Dimensions and Metrics carry the "ga:" service prefix, e.g. "ga:sessions".
	Dimensions []string `json:"dimensions,omitempty"`
	Metrics    []string `json:"metrics,omitempty"`

	// Filters is the rendered filter expression where ";" joins with AND and
	// "," joins with OR. Empty means no filter parameter at all.
	Filters string `json:"filters,omitempty"`

	// Sort entries are field names with an optional "-" prefix for descending.
	Sort []string `json:"sort_metric,omitempty"`

	// StartDate and EndDate are unix timestamps selecting the date range.
	StartDate int64 `json:"start_date,omitempty"`
	EndDate   int64 `json:"end_date,omitempty"`

	// ProfileID selects the reporting profile (view) to query.
	ProfileID int64 `json:"profile_id,omitempty"`

	MaxResults int64 `json:"max_results,omitempty"`
	StartIndex int64 `json:"start_index,omitempty"`
}

// ReportRow maps field aliases to the scalar values of one result row.
type ReportRow map[string]string

// ReportResult is the interpreted outcome of a report execution.
// On any failure the row set is empty, never partially populated.
type ReportResult struct {
	Rows      []ReportRow   `json:"rows"`
	TotalRows int64         `json:"totalRows"`
	QueryEcho string        `json:"queryEcho,omitempty"` // diagnostic echo of the executed query
	Elapsed   time.Duration `json:"elapsed"`             // combined count+data fetch time
	// Message carries a user-facing notice (e.g. the authorization hint when
	// no credential is configured, or the remote API's error message).
	Message string `json:"message,omitempty"`
}

// ReportFeed is the raw, positional response of a single reporting fetch.
// The query translator turns it into alias-keyed ReportRows.
type ReportFeed struct {
	ColumnHeaders []string
	Rows          [][]string
	TotalResults  int64
	QueryEcho     string
}
