package api

import (
	"context"

	"ga-reports/internal/domain"
)

type mockFieldRepo struct {
	ReplaceAllFn func(ctx context.Context, fields []domain.FieldDefinition) error
	GetFn        func(ctx context.Context, id string) (*domain.FieldDefinition, error)
	GetAllFn     func(ctx context.Context) (map[string]domain.FieldDefinition, error)
	ListFn       func(ctx context.Context, page domain.PageRequest) ([]domain.FieldDefinition, int64, error)
	CountFn      func(ctx context.Context) (int64, error)
}

func (m *mockFieldRepo) ReplaceAll(ctx context.Context, fields []domain.FieldDefinition) error {
	return m.ReplaceAllFn(ctx, fields)
}

func (m *mockFieldRepo) Get(ctx context.Context, id string) (*domain.FieldDefinition, error) {
	return m.GetFn(ctx, id)
}

func (m *mockFieldRepo) GetAll(ctx context.Context) (map[string]domain.FieldDefinition, error) {
	return m.GetAllFn(ctx)
}

func (m *mockFieldRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.FieldDefinition, int64, error) {
	return m.ListFn(ctx, page)
}

func (m *mockFieldRepo) Count(ctx context.Context) (int64, error) { return m.CountFn(ctx) }

type mockSettingsRepo struct {
	values map[string]string
}

func (m *mockSettingsRepo) Get(_ context.Context, key string) (string, error) {
	return m.values[key], nil
}

func (m *mockSettingsRepo) Set(_ context.Context, key, value string) error {
	m.values[key] = value
	return nil
}

type mockMetadataClient struct {
	EtagFn    func(ctx context.Context) (string, error)
	ColumnsFn func(ctx context.Context) (*domain.ColumnSet, error)
}

func (m *mockMetadataClient) Etag(ctx context.Context) (string, error) { return m.EtagFn(ctx) }

func (m *mockMetadataClient) Columns(ctx context.Context) (*domain.ColumnSet, error) {
	return m.ColumnsFn(ctx)
}

type mockReportClient struct {
	FetchFn func(ctx context.Context, query *domain.ReportQuery) (*domain.ReportFeed, error)
}

func (m *mockReportClient) Fetch(ctx context.Context, query *domain.ReportQuery) (*domain.ReportFeed, error) {
	return m.FetchFn(ctx, query)
}
