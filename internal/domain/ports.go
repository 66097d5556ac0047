package domain

import "context"

// FieldRepository persists the local Google Analytics column catalog.
// Implemented by repository.FieldRepo over SQLite.
type FieldRepository interface {
	// ReplaceAll swaps the entire catalog for the given definitions inside a
	// single transaction, so concurrent readers never observe an empty or
	// partial catalog.
	ReplaceAll(ctx context.Context, fields []FieldDefinition) error
	// Get returns the definition for a field ID, or a NotFoundError.
	Get(ctx context.Context, id string) (*FieldDefinition, error)
	// GetAll returns the whole catalog keyed by field ID.
	GetAll(ctx context.Context) (map[string]FieldDefinition, error)
	// List returns a page of the catalog ordered by field ID.
	List(ctx context.Context, page PageRequest) ([]FieldDefinition, int64, error)
	// Count returns the number of catalog entries.
	Count(ctx context.Context) (int64, error)
}

// SettingsRepository stores scalar catalog metadata (etag, last sync time).
// Implemented by repository.SettingsRepo over SQLite.
type SettingsRepository interface {
	// Get returns the value for key, or empty string when unset.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// MetadataClient fetches the Google Analytics column metadata.
// Implemented by ga.Client.
type MetadataClient interface {
	// Etag fetches only the catalog version tag (the lightweight check).
	Etag(ctx context.Context) (string, error)
	// Columns fetches the full column metadata set.
	Columns(ctx context.Context) (*ColumnSet, error)
}

// ReportClient executes a built report query against the Core Reporting API.
// Implemented by ga.Client.
type ReportClient interface {
	Fetch(ctx context.Context, query *ReportQuery) (*ReportFeed, error)
}
