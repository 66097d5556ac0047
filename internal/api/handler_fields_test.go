package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ga-reports/internal/config"
	"ga-reports/internal/domain"
	"ga-reports/internal/service/fieldsync"
	"ga-reports/internal/service/report"
)

func testServer(t *testing.T, fields *mockFieldRepo, settings *mockSettingsRepo, metadata *mockMetadataClient, reports *mockReportClient, ga config.GAConfig) *httptest.Server {
	t.Helper()

	if settings == nil {
		settings = &mockSettingsRepo{values: map[string]string{}}
	}
	syncSvc := fieldsync.NewService(fields, settings, metadata, ga, nil, slog.Default())
	reportSvc := report.NewService(fields, reports, ga, slog.Default())
	handler := NewHandler(fields, syncSvc, reportSvc, slog.Default())

	r := chi.NewRouter()
	handler.Routes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func withToken() config.GAConfig {
	return config.GAConfig{AccessToken: "token", ProfileID: 12345678}
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func postJSON(t *testing.T, url string, body any, out any) int {
	t.Helper()
	raw := []byte("{}")
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(t, err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealthz(t *testing.T) {
	srv := testServer(t, &mockFieldRepo{}, nil, nil, nil, withToken())

	var body map[string]string
	code := getJSON(t, srv.URL+"/healthz", &body)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestListFields(t *testing.T) {
	fields := &mockFieldRepo{
		ListFn: func(_ context.Context, page domain.PageRequest) ([]domain.FieldDefinition, int64, error) {
			assert.Equal(t, 2, page.MaxResults)
			return []domain.FieldDefinition{
				{ID: "bounceRate", Kind: domain.KindMetric},
				{ID: "date", Kind: domain.KindDimension},
			}, 5, nil
		},
	}
	srv := testServer(t, fields, nil, nil, nil, withToken())

	var body fieldListResponse
	code := getJSON(t, srv.URL+"/v1/fields?max_results=2", &body)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(5), body.TotalCount)
	require.Len(t, body.Fields, 2)
	assert.Equal(t, "bounceRate", body.Fields[0].ID)
	assert.NotEmpty(t, body.NextPageToken, "more pages remain")
}

func TestListFields_InvalidMaxResults(t *testing.T) {
	srv := testServer(t, &mockFieldRepo{}, nil, nil, nil, withToken())

	var body errorResponse
	code := getJSON(t, srv.URL+"/v1/fields?max_results=nope", &body)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, http.StatusBadRequest, body.Code)
}

func TestGetField(t *testing.T) {
	fields := &mockFieldRepo{
		GetFn: func(_ context.Context, id string) (*domain.FieldDefinition, error) {
			if id != "sessions" {
				return nil, domain.ErrNotFound("field %s not found", id)
			}
			return &domain.FieldDefinition{ID: "sessions", Kind: domain.KindMetric, DataType: "integer"}, nil
		},
	}
	srv := testServer(t, fields, nil, nil, nil, withToken())

	var body domain.FieldDefinition
	code := getJSON(t, srv.URL+"/v1/fields/sessions", &body)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "sessions", body.ID)

	code = getJSON(t, srv.URL+"/v1/fields/unknown", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestFieldsStatus(t *testing.T) {
	fields := &mockFieldRepo{
		CountFn: func(context.Context) (int64, error) { return 7, nil },
	}
	settings := &mockSettingsRepo{values: map[string]string{
		domain.SettingMetadataEtag:     "abc",
		domain.SettingMetadataLastSync: "1756641600",
	}}
	srv := testServer(t, fields, settings, nil, nil, withToken())

	var body statusResponse
	code := getJSON(t, srv.URL+"/v1/fields/status", &body)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(7), body.FieldCount)
	assert.Equal(t, "abc", body.Etag)
	assert.Contains(t, body.Message, "Last import was")
}

func TestFieldsStatus_NeverSynced(t *testing.T) {
	fields := &mockFieldRepo{
		CountFn: func(context.Context) (int64, error) { return 0, nil },
	}
	srv := testServer(t, fields, nil, nil, nil, withToken())

	var body statusResponse
	code := getJSON(t, srv.URL+"/v1/fields/status", &body)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body.Message, "never been imported")
}

func TestCheckFields(t *testing.T) {
	tests := []struct {
		name      string
		stored    string
		remote    string
		wantState string
	}{
		{"up to date", "abc", "abc", "up_to_date"},
		{"stale", "abc", "xyz", "stale"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := &mockSettingsRepo{values: map[string]string{domain.SettingMetadataEtag: tt.stored}}
			metadata := &mockMetadataClient{
				EtagFn: func(context.Context) (string, error) { return tt.remote, nil },
			}
			srv := testServer(t, &mockFieldRepo{}, settings, metadata, nil, withToken())

			var body checkResponse
			code := postJSON(t, srv.URL+"/v1/fields/check", nil, &body)
			require.Equal(t, http.StatusOK, code)
			assert.Equal(t, tt.wantState, body.State)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestCheckFields_RemoteFailure(t *testing.T) {
	metadata := &mockMetadataClient{
		EtagFn: func(context.Context) (string, error) {
			return "", domain.ErrTransport("connection refused")
		},
	}
	srv := testServer(t, &mockFieldRepo{}, nil, metadata, nil, withToken())

	code := postJSON(t, srv.URL+"/v1/fields/check", nil, nil)
	assert.Equal(t, http.StatusBadGateway, code)
}

func TestImportFields(t *testing.T) {
	fields := &mockFieldRepo{
		ReplaceAllFn: func(_ context.Context, defs []domain.FieldDefinition) error {
			assert.Len(t, defs, 1)
			return nil
		},
	}
	metadata := &mockMetadataClient{
		ColumnsFn: func(context.Context) (*domain.ColumnSet, error) {
			return &domain.ColumnSet{
				Etag: "xyz",
				Items: []domain.Column{{
					ID: "ga:sessions",
					Attributes: map[string]string{
						domain.AttrType:     "METRIC",
						domain.AttrDataType: "INTEGER",
						domain.AttrStatus:   domain.StatusPublic,
					},
				}},
			}, nil
		},
	}
	srv := testServer(t, fields, nil, metadata, nil, withToken())

	var body importResponse
	code := postJSON(t, srv.URL+"/v1/fields/import", nil, &body)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, body.Imported)
	assert.Contains(t, body.Message, "Imported 1")
}

func TestImportFields_NoCredential(t *testing.T) {
	srv := testServer(t, &mockFieldRepo{}, nil, &mockMetadataClient{}, nil, config.GAConfig{})

	var body errorResponse
	code := postJSON(t, srv.URL+"/v1/fields/import", nil, &body)
	assert.Equal(t, http.StatusPreconditionFailed, code)
}

func TestFieldGroups(t *testing.T) {
	fields := &mockFieldRepo{
		GetAllFn: func(context.Context) (map[string]domain.FieldDefinition, error) {
			return map[string]domain.FieldDefinition{
				"sessions": {ID: "sessions", Group: "Session"},
				"users":    {ID: "users", Group: "User"},
			}, nil
		},
	}
	srv := testServer(t, fields, nil, nil, nil, withToken())

	var body map[string][]string
	code := getJSON(t, srv.URL+"/v1/fields/groups", &body)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"Session", "User"}, body["groups"])
}
