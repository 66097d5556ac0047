// Package fieldsync keeps the local Google Analytics column catalog in step
// with the metadata API: a cheap etag staleness check, and a full import that
// replaces the catalog wholesale.
package fieldsync

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"ga-reports/internal/config"
	"ga-reports/internal/domain"
)

// UpdateState is the outcome of a staleness check.
type UpdateState string

// States reported by CheckForUpdates.
const (
	StateUpToDate UpdateState = "up_to_date"
	StateStale    UpdateState = "stale"
	StateUnknown  UpdateState = "unknown"
)

// AlterHook lets the embedding application adjust a normalized field before
// it is stored. Called once per imported field.
type AlterHook func(*domain.FieldDefinition)

// Service synchronizes the field catalog with the metadata API.
type Service struct {
	fields   domain.FieldRepository
	settings domain.SettingsRepository
	client   domain.MetadataClient
	ga       config.GAConfig
	alter    AlterHook
	logger   *slog.Logger

	// now is swapped in tests to pin the recorded sync time.
	now func() time.Time
}

// NewService creates a sync Service. alter may be nil.
func NewService(fields domain.FieldRepository, settings domain.SettingsRepository, client domain.MetadataClient, ga config.GAConfig, alter AlterHook, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		fields:   fields,
		settings: settings,
		client:   client,
		ga:       ga,
		alter:    alter,
		logger:   logger.With("component", "fieldsync"),
		now:      time.Now,
	}
}

// CheckForUpdates compares the stored etag against the remote one. It never
// mutates local state; a stale result is acted on by calling ImportFields.
func (s *Service) CheckForUpdates(ctx context.Context) (UpdateState, error) {
	stored, err := s.settings.Get(ctx, domain.SettingMetadataEtag)
	if err != nil {
		return StateUnknown, err
	}

	remote, err := s.client.Etag(ctx)
	if err != nil {
		s.logger.Warn("etag check failed", "error", err)
		return StateUnknown, err
	}

	if stored != "" && stored == remote {
		return StateUpToDate, nil
	}
	return StateStale, nil
}

// ImportFields fetches the full column metadata and replaces the local
// catalog. The etag and sync time are recorded even when the remote catalog
// is empty of public columns, so the next staleness check stays accurate.
// Returns the number of fields imported.
func (s *Service) ImportFields(ctx context.Context) (int, error) {
	if !s.ga.HasCredential() {
		return 0, domain.ErrNoCredential("cannot import fields: no Google Analytics access token configured")
	}

	set, err := s.client.Columns(ctx)
	if err != nil {
		s.logger.Error("metadata fetch failed", "error", err)
		return 0, err
	}

	fields := make([]domain.FieldDefinition, 0, len(set.Items))
	for _, item := range set.Items {
		def, ok := normalize(item)
		if !ok {
			continue
		}
		if s.alter != nil {
			s.alter(&def)
		}
		fields = append(fields, def)
	}

	if err := s.fields.ReplaceAll(ctx, fields); err != nil {
		return 0, err
	}

	if err := s.settings.Set(ctx, domain.SettingMetadataEtag, set.Etag); err != nil {
		return 0, err
	}
	syncedAt := strconv.FormatInt(s.now().Unix(), 10)
	if err := s.settings.Set(ctx, domain.SettingMetadataLastSync, syncedAt); err != nil {
		return 0, err
	}

	s.logger.Info("imported field catalog", "fields", len(fields), "etag", set.Etag)
	return len(fields), nil
}

// Status reports the current catalog size and sync metadata.
func (s *Service) Status(ctx context.Context) (*domain.CatalogStatus, error) {
	count, err := s.fields.Count(ctx)
	if err != nil {
		return nil, err
	}
	etag, err := s.settings.Get(ctx, domain.SettingMetadataEtag)
	if err != nil {
		return nil, err
	}
	lastSync, err := s.settings.Get(ctx, domain.SettingMetadataLastSync)
	if err != nil {
		return nil, err
	}

	status := &domain.CatalogStatus{FieldCount: count, Etag: etag}
	if lastSync != "" {
		if unix, err := strconv.ParseInt(lastSync, 10, 64); err == nil {
			status.LastSyncUnix = unix
		}
	}
	return status, nil
}

// Groups returns the distinct display groups of the catalog, sorted. Used by
// field-selection UIs to bucket the columns.
func (s *Service) Groups(ctx context.Context) ([]string, error) {
	all, err := s.fields.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var groups []string
	for _, def := range all {
		if def.Group == "" || seen[def.Group] {
			continue
		}
		seen[def.Group] = true
		groups = append(groups, def.Group)
	}
	sort.Strings(groups)
	return groups, nil
}

// normalize converts a raw metadata column into a catalog entry. Non-public
// columns are skipped; string attributes that feed queries are lower-cased
// so the translator can compare them directly.
func normalize(item domain.Column) (domain.FieldDefinition, bool) {
	if item.Attributes[domain.AttrStatus] != domain.StatusPublic {
		return domain.FieldDefinition{}, false
	}

	def := domain.FieldDefinition{
		ID:          strings.TrimPrefix(item.ID, "ga:"),
		Kind:        domain.FieldKind(strings.ToLower(item.Attributes[domain.AttrType])),
		DataType:    strings.ToLower(item.Attributes[domain.AttrDataType]),
		Group:       item.Attributes[domain.AttrGroup],
		UIName:      item.Attributes[domain.AttrUIName],
		Description: item.Attributes[domain.AttrDescription],
	}
	if calc, ok := item.Attributes[domain.AttrCalculation]; ok && calc != "" {
		def.Calculation = &calc
	}
	return def, true
}
