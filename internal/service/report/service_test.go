package report

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ga-reports/internal/config"
	"ga-reports/internal/domain"
)

type mockFieldRepo struct {
	domain.FieldRepository
	GetAllFn func(ctx context.Context) (map[string]domain.FieldDefinition, error)
}

func (m *mockFieldRepo) GetAll(ctx context.Context) (map[string]domain.FieldDefinition, error) {
	return m.GetAllFn(ctx)
}

type mockReportClient struct {
	FetchFn func(ctx context.Context, query *domain.ReportQuery) (*domain.ReportFeed, error)
}

func (m *mockReportClient) Fetch(ctx context.Context, query *domain.ReportQuery) (*domain.ReportFeed, error) {
	return m.FetchFn(ctx, query)
}

func catalogRepo() *mockFieldRepo {
	return &mockFieldRepo{
		GetAllFn: func(context.Context) (map[string]domain.FieldDefinition, error) {
			return testCatalog(), nil
		},
	}
}

func gaCfg() config.GAConfig {
	return config.GAConfig{AccessToken: "token", ProfileID: 12345678}
}

func TestService_ExecuteNoCredential(t *testing.T) {
	t.Parallel()

	fetched := false
	client := &mockReportClient{
		FetchFn: func(context.Context, *domain.ReportQuery) (*domain.ReportFeed, error) {
			fetched = true
			return nil, nil
		},
	}
	svc := NewService(catalogRepo(), client, config.GAConfig{}, slog.Default())

	b := NewBuilder("", "")
	b.AddField("", "sessions", "", nil)

	result, err := svc.Execute(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, AuthorizeHint, result.Message)
	assert.Empty(t, result.Rows)
	assert.False(t, fetched, "no remote call without a credential")
}

func TestService_ExecuteCountThenData(t *testing.T) {
	t.Parallel()

	var queries []domain.ReportQuery
	client := &mockReportClient{
		FetchFn: func(_ context.Context, q *domain.ReportQuery) (*domain.ReportFeed, error) {
			queries = append(queries, *q)
			return &domain.ReportFeed{
				ColumnHeaders: []string{"ga:date", "ga:sessions"},
				Rows:          [][]string{{"20250101", "42"}, {"20250102", "7"}},
				QueryEcho:     "ids=ga:12345678",
			}, nil
		},
	}
	svc := NewService(catalogRepo(), client, gaCfg(), slog.Default())

	b := NewBuilder("", "")
	b.AddField("", "date", "", nil)
	b.AddField("", "sessions", "", nil)
	b.SetRange(10, 25)

	result, err := svc.Execute(context.Background(), b)
	require.NoError(t, err)

	require.Len(t, queries, 2)
	assert.Equal(t, int64(9999), queries[0].MaxResults, "count fetch forces its own page size")
	assert.Equal(t, int64(1), queries[0].StartIndex)
	assert.Equal(t, int64(25), queries[1].MaxResults)
	assert.Equal(t, int64(11), queries[1].StartIndex, "offset is zero-based, start index one-based")
	assert.Equal(t, int64(12345678), queries[1].ProfileID, "default profile applied")

	assert.Equal(t, int64(2), result.TotalRows)
	assert.Equal(t, "ids=ga:12345678", result.QueryEcho)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, domain.ReportRow{"date": "20250101", "sessions": "42"}, result.Rows[0])
	assert.NotZero(t, result.Elapsed)
}

func TestService_ExecuteEmptyCountSkipsData(t *testing.T) {
	t.Parallel()

	calls := 0
	client := &mockReportClient{
		FetchFn: func(context.Context, *domain.ReportQuery) (*domain.ReportFeed, error) {
			calls++
			return &domain.ReportFeed{ColumnHeaders: []string{"ga:sessions"}}, nil
		},
	}
	svc := NewService(catalogRepo(), client, gaCfg(), slog.Default())

	b := NewBuilder("", "")
	b.AddField("", "sessions", "", nil)

	result, err := svc.Execute(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "empty count skips the data fetch")
	assert.Zero(t, result.TotalRows)
	assert.Empty(t, result.Rows)
	assert.Empty(t, result.Message)
}

func TestService_ExecuteRemoteError(t *testing.T) {
	t.Parallel()

	client := &mockReportClient{
		FetchFn: func(context.Context, *domain.ReportQuery) (*domain.ReportFeed, error) {
			return nil, domain.ErrRemoteAPI("Invalid value 'ga:bogus' for metrics parameter.")
		},
	}
	svc := NewService(catalogRepo(), client, gaCfg(), slog.Default())

	b := NewBuilder("", "")
	b.AddField("", "sessions", "", nil)

	result, err := svc.Execute(context.Background(), b)
	require.NoError(t, err, "remote failures never propagate")
	assert.Empty(t, result.Rows)
	assert.Zero(t, result.TotalRows)
	assert.Equal(t, "Invalid value 'ga:bogus' for metrics parameter.", result.Message)
}

func TestService_ExecuteDataFetchError(t *testing.T) {
	t.Parallel()

	calls := 0
	client := &mockReportClient{
		FetchFn: func(context.Context, *domain.ReportQuery) (*domain.ReportFeed, error) {
			calls++
			if calls == 1 {
				return &domain.ReportFeed{
					ColumnHeaders: []string{"ga:sessions"},
					Rows:          [][]string{{"42"}},
				}, nil
			}
			return nil, domain.ErrTransport("context deadline exceeded")
		},
	}
	svc := NewService(catalogRepo(), client, gaCfg(), slog.Default())

	b := NewBuilder("", "")
	b.AddField("", "sessions", "", nil)
	b.SetRange(0, 10)

	result, err := svc.Execute(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Empty(t, result.Rows)
	assert.Zero(t, result.TotalRows)
	assert.Empty(t, result.Message, "transport failures carry no user-facing message")
}

func TestService_ExecuteNoPaginationWithoutRange(t *testing.T) {
	t.Parallel()

	var queries []domain.ReportQuery
	client := &mockReportClient{
		FetchFn: func(_ context.Context, q *domain.ReportQuery) (*domain.ReportFeed, error) {
			queries = append(queries, *q)
			return &domain.ReportFeed{
				ColumnHeaders: []string{"ga:sessions"},
				Rows:          [][]string{{"42"}},
			}, nil
		},
	}
	svc := NewService(catalogRepo(), client, gaCfg(), slog.Default())

	b := NewBuilder("", "")
	b.AddField("", "sessions", "", nil)

	_, err := svc.Execute(context.Background(), b)
	require.NoError(t, err)
	require.Len(t, queries, 2)
	assert.Zero(t, queries[1].MaxResults, "no range requested leaves pagination to the API")
	assert.Zero(t, queries[1].StartIndex)
}

func TestService_ExecuteOffsetWithoutLimit(t *testing.T) {
	t.Parallel()

	var queries []domain.ReportQuery
	client := &mockReportClient{
		FetchFn: func(_ context.Context, q *domain.ReportQuery) (*domain.ReportFeed, error) {
			queries = append(queries, *q)
			return &domain.ReportFeed{
				ColumnHeaders: []string{"ga:sessions"},
				Rows:          [][]string{{"42"}},
			}, nil
		},
	}
	svc := NewService(catalogRepo(), client, gaCfg(), slog.Default())

	b := NewBuilder("", "")
	b.AddField("", "sessions", "", nil)
	b.SetRange(50, 0)

	_, err := svc.Execute(context.Background(), b)
	require.NoError(t, err)
	require.Len(t, queries, 2)
	assert.Equal(t, int64(1000), queries[1].MaxResults)
	assert.Equal(t, int64(51), queries[1].StartIndex)
}

func TestService_ExecuteAliasedRows(t *testing.T) {
	t.Parallel()

	client := &mockReportClient{
		FetchFn: func(context.Context, *domain.ReportQuery) (*domain.ReportFeed, error) {
			return &domain.ReportFeed{
				ColumnHeaders: []string{"ga:sessions"},
				Rows:          [][]string{{"42"}},
			}, nil
		},
	}
	svc := NewService(catalogRepo(), client, gaCfg(), slog.Default())

	b := NewBuilder("", "")
	b.AddField("", "sessions", "visits", nil)

	result, err := svc.Execute(context.Background(), b)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, domain.ReportRow{"visits": "42"}, result.Rows[0])
}

func TestService_ExecuteCatalogError(t *testing.T) {
	t.Parallel()

	repo := &mockFieldRepo{
		GetAllFn: func(context.Context) (map[string]domain.FieldDefinition, error) {
			return nil, domain.ErrValidation("catalog unavailable")
		},
	}
	client := &mockReportClient{
		FetchFn: func(context.Context, *domain.ReportQuery) (*domain.ReportFeed, error) {
			t.Fatal("unexpected fetch")
			return nil, nil
		},
	}
	svc := NewService(repo, client, gaCfg(), slog.Default())

	b := NewBuilder("", "")
	_, err := svc.Execute(context.Background(), b)
	assert.Error(t, err, "local storage failures do propagate")
}
