// Package ga wraps the Google Analytics v3 metadata and Core Reporting
// endpoints behind the domain client interfaces.
package ga

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	analytics "google.golang.org/api/analytics/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"ga-reports/internal/config"
	"ga-reports/internal/domain"
)

// reportType selects the Core Reporting column namespace.
const reportType = "ga"

// Relative date defaults applied when a query carries no explicit date range.
const (
	defaultStartDate = "30daysAgo"
	defaultEndDate   = "today"
)

// Client talks to the Google Analytics v3 API with a short fixed timeout.
// A timeout or connection failure is always recoverable: callers log it and
// abort the triggering operation.
type Client struct {
	svc *analytics.Service
}

var (
	_ domain.MetadataClient = (*Client)(nil)
	_ domain.ReportClient   = (*Client)(nil)
)

// NewClient builds a Client from the GA configuration. The access token (when
// present) is attached via a static oauth2 token source; the endpoint override
// is used by tests to point at a stub server.
func NewClient(ctx context.Context, cfg config.GAConfig) (*Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultGATimeout
	}

	httpClient := &http.Client{Timeout: timeout}
	if cfg.AccessToken != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken, TokenType: "Bearer"})
		httpClient = oauth2.NewClient(ctx, ts)
		httpClient.Timeout = timeout
	}

	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if cfg.Endpoint != "" {
		endpoint := cfg.Endpoint
		if !strings.HasSuffix(endpoint, "/") {
			endpoint += "/"
		}
		opts = append(opts, option.WithEndpoint(endpoint))
	}

	svc, err := analytics.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create analytics service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// Etag fetches only the metadata catalog's version tag. This is the
// lightweight staleness check; it never transfers the column payload.
func (c *Client) Etag(ctx context.Context) (string, error) {
	resp, err := c.svc.Metadata.Columns.List(reportType).
		Fields("etag").
		Context(ctx).
		Do()
	if err != nil {
		return "", classify(err)
	}
	if resp == nil || resp.Etag == "" {
		return "", domain.ErrEmptyResponse("metadata etag response was empty")
	}
	return resp.Etag, nil
}

// Columns fetches the full column metadata set.
func (c *Client) Columns(ctx context.Context) (*domain.ColumnSet, error) {
	resp, err := c.svc.Metadata.Columns.List(reportType).
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify(err)
	}
	if resp == nil {
		return nil, domain.ErrEmptyResponse("metadata columns response was empty")
	}

	set := &domain.ColumnSet{Etag: resp.Etag, Items: make([]domain.Column, 0, len(resp.Items))}
	for _, item := range resp.Items {
		set.Items = append(set.Items, domain.Column{
			ID:         item.Id,
			Attributes: item.Attributes,
		})
	}
	return set, nil
}

// Fetch executes a built report query against the Core Reporting API and
// returns the positional feed.
func (c *Client) Fetch(ctx context.Context, q *domain.ReportQuery) (*domain.ReportFeed, error) {
	if q.ProfileID == 0 {
		return nil, domain.ErrValidation("no reporting profile configured")
	}
	if len(q.Metrics) == 0 {
		return nil, domain.ErrValidation("a report query needs at least one metric")
	}

	ids := fmt.Sprintf("ga:%d", q.ProfileID)
	startDate := gaDate(q.StartDate, defaultStartDate)
	endDate := gaDate(q.EndDate, defaultEndDate)

	call := c.svc.Data.Ga.Get(ids, startDate, endDate, strings.Join(q.Metrics, ",")).Context(ctx)
	if len(q.Dimensions) > 0 {
		call = call.Dimensions(strings.Join(q.Dimensions, ","))
	}
	if q.Filters != "" {
		call = call.Filters(q.Filters)
	}
	if len(q.Sort) > 0 {
		call = call.Sort(strings.Join(q.Sort, ","))
	}
	if q.MaxResults > 0 {
		call = call.MaxResults(q.MaxResults)
	}
	if q.StartIndex > 0 {
		call = call.StartIndex(q.StartIndex)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, classify(err)
	}
	if resp == nil {
		return nil, domain.ErrEmptyResponse("report data response was empty")
	}

	feed := &domain.ReportFeed{
		Rows:         resp.Rows,
		TotalResults: resp.TotalResults,
		QueryEcho:    queryEcho(ids, startDate, endDate, q),
	}
	for _, header := range resp.ColumnHeaders {
		feed.ColumnHeaders = append(feed.ColumnHeaders, header.Name)
	}
	return feed, nil
}

// gaDate renders an integer unix timestamp as the API's YYYY-MM-DD date,
// falling back to a relative default when the query carries none.
func gaDate(unix int64, fallback string) string {
	if unix == 0 {
		return fallback
	}
	return time.Unix(unix, 0).UTC().Format("2006-01-02")
}

// queryEcho renders the effective request for UI diagnostics.
func queryEcho(ids, startDate, endDate string, q *domain.ReportQuery) string {
	var parts []string
	parts = append(parts,
		"ids="+ids,
		"start-date="+startDate,
		"end-date="+endDate,
		"metrics="+strings.Join(q.Metrics, ","),
	)
	if len(q.Dimensions) > 0 {
		parts = append(parts, "dimensions="+strings.Join(q.Dimensions, ","))
	}
	if q.Filters != "" {
		parts = append(parts, "filters="+q.Filters)
	}
	if len(q.Sort) > 0 {
		parts = append(parts, "sort="+strings.Join(q.Sort, ","))
	}
	if q.MaxResults > 0 {
		parts = append(parts, fmt.Sprintf("max-results=%d", q.MaxResults))
	}
	if q.StartIndex > 0 {
		parts = append(parts, fmt.Sprintf("start-index=%d", q.StartIndex))
	}
	return strings.Join(parts, "&")
}

// classify maps transport and API failures onto the domain error kinds.
func classify(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		msg := gerr.Message
		if msg == "" {
			msg = fmt.Sprintf("Google Analytics API returned HTTP %d", gerr.Code)
		}
		return domain.ErrRemoteAPI("%s", msg)
	}

	var uerr *url.Error
	if errors.As(err, &uerr) {
		return domain.ErrTransport("Google Analytics request failed: %v", uerr)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domain.ErrTransport("Google Analytics request timed out: %v", err)
	}
	return domain.ErrTransport("Google Analytics request failed: %v", err)
}
