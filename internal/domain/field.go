// Package domain defines core types, interfaces, and errors for the
// Google Analytics reporting service.
package domain

// FieldKind distinguishes categorical dimensions from numeric metrics.
type FieldKind string

// Known field kinds in the Google Analytics column catalog.
const (
	KindDimension FieldKind = "dimension"
	KindMetric    FieldKind = "metric"
)

// FieldDefinition is one row of the local Google Analytics column catalog.
// The catalog is replaced wholesale on each successful import; the query
// translator and field-selection UIs only ever read it.
type FieldDefinition struct {
	// ID is the column identifier with the "ga:" prefix stripped,
	// e.g. "sessions" or "deviceCategory". Unique within the catalog.
	ID          string     `json:"id"`
	Kind        FieldKind  `json:"kind"`
	DataType    string     `json:"dataType"` // lower-cased, e.g. "integer", "string"
	Group       string     `json:"group"`    // display grouping from the metadata API
	UIName      string     `json:"uiName"`
	Description string     `json:"description"`
	Calculation *string    `json:"calculation,omitempty"` // formula for calculated metrics
}

// CatalogStatus summarises the state of the local field catalog.
type CatalogStatus struct {
	FieldCount   int64  `json:"fieldCount"`
	Etag         string `json:"etag,omitempty"`
	LastSyncUnix int64  `json:"lastSync,omitempty"`
}

// Settings keys for catalog metadata persisted alongside the fields.
const (
	SettingMetadataEtag     = "metadata_etag"
	SettingMetadataLastSync = "metadata_last_sync"
)

// Column is one raw item from the Google Analytics metadata endpoint,
// before normalization into a FieldDefinition.
type Column struct {
	ID         string
	Attributes map[string]string
}

// ColumnSet is the full response of the metadata endpoint.
type ColumnSet struct {
	Etag  string
	Items []Column
}

// Attribute keys used by the metadata endpoint.
const (
	AttrType        = "type"
	AttrDataType    = "dataType"
	AttrStatus      = "status"
	AttrGroup       = "group"
	AttrUIName      = "uiName"
	AttrDescription = "description"
	AttrCalculation = "calculation"
)

// StatusPublic marks columns that are safe to import. Deprecated and beta
// columns carry other statuses and are skipped.
const StatusPublic = "PUBLIC"
