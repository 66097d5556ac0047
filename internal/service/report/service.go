package report

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"ga-reports/internal/config"
	"ga-reports/internal/domain"
)

// countMaxResults is the page size forced onto the count fetch: large enough
// to count any realistic report, small enough to bound the response.
const countMaxResults = 9999

// defaultDataMaxResults caps the data fetch when a report asks for an offset
// without a limit.
const defaultDataMaxResults = 1000

// AuthorizeHint is the actionable message shown when no access token is
// configured. The report renders empty instead of failing hard.
const AuthorizeHint = "You must authorize your Google Analytics account before you can view reports."

// Service executes translated report queries against the Core Reporting API.
type Service struct {
	fields domain.FieldRepository
	client domain.ReportClient
	ga     config.GAConfig
	logger *slog.Logger
}

// NewService creates a report Service.
func NewService(fields domain.FieldRepository, client domain.ReportClient, ga config.GAConfig, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{fields: fields, client: client, ga: ga, logger: logger}
}

// Execute runs the built query: a count fetch first to establish the total
// row count, then, only when the count fetch returned rows, the data fetch
// with the report's own pagination. Remote failures never propagate out of
// this boundary: the result set comes back empty with the failure logged and
// a user-facing message where one exists.
func (s *Service) Execute(ctx context.Context, b *Builder) (*domain.ReportResult, error) {
	result := &domain.ReportResult{Rows: []domain.ReportRow{}}

	if !s.ga.HasCredential() {
		result.Message = AuthorizeHint
		return result, nil
	}

	available, err := s.fields.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	query := b.Build(available)
	if query.ProfileID == 0 {
		query.ProfileID = s.ga.ProfileID
	}

	// The count fetch runs with its own forced pagination.
	countQuery := *query
	countQuery.MaxResults = countMaxResults
	countQuery.StartIndex = 1

	start := time.Now()
	defer func() { result.Elapsed = time.Since(start) }()

	countFeed, err := s.client.Fetch(ctx, &countQuery)
	if err != nil {
		s.fail(result, "count fetch failed", err)
		return result, nil
	}

	if len(countFeed.Rows) == 0 {
		// Nothing to page through; an API error payload would have been
		// surfaced as an error above.
		result.QueryEcho = ""
		return result, nil
	}
	result.TotalRows = int64(len(countFeed.Rows))

	// An offset without a limit still needs a bounded page.
	if b.limit > 0 || b.offset > 0 {
		if b.limit > 0 {
			query.MaxResults = b.limit
		} else {
			query.MaxResults = defaultDataMaxResults
		}
		query.StartIndex = b.offset + 1
	}

	feed, err := s.client.Fetch(ctx, query)
	if err != nil {
		s.fail(result, "data fetch failed", err)
		result.TotalRows = 0
		return result, nil
	}

	result.Rows = s.interpret(b, feed)
	result.QueryEcho = feed.QueryEcho
	return result, nil
}

// interpret converts the positional feed rows into alias-keyed records.
func (s *Service) interpret(b *Builder, feed *domain.ReportFeed) []domain.ReportRow {
	rows := make([]domain.ReportRow, 0, len(feed.Rows))
	for _, raw := range feed.Rows {
		row := make(domain.ReportRow, len(feed.ColumnHeaders))
		for i, header := range feed.ColumnHeaders {
			if i >= len(raw) {
				break
			}
			field := strings.TrimPrefix(header, "ga:")
			row[b.AliasFor(field)] = raw[i]
		}
		rows = append(rows, row)
	}
	return rows
}

// fail logs a remote failure and clears the result rather than leaving it
// partially populated. Remote API messages are surfaced to the caller.
func (s *Service) fail(result *domain.ReportResult, what string, err error) {
	result.Rows = []domain.ReportRow{}
	result.QueryEcho = ""

	var remote *domain.RemoteAPIError
	if errors.As(err, &remote) {
		result.Message = remote.Message
	}

	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		result.Message = validation.Message
	}

	s.logger.Error(what, "error", err)
}
