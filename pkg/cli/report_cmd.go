package cli

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// reportField mirrors the API's field selection object.
type reportField struct {
	Field string `json:"field"`
	Alias string `json:"alias,omitempty"`
}

type reportFilter struct {
	Group    int    `json:"group,omitempty"`
	Field    string `json:"field"`
	Value    string `json:"value"`
	Operator string `json:"operator"`
}

type reportSort struct {
	Field     string `json:"field"`
	Direction string `json:"direction,omitempty"`
}

func newReportCmd(client *Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run Google Analytics reports",
	}
	cmd.AddCommand(newReportRunCmd(client))
	return cmd
}

func newReportRunCmd(client *Client) *cobra.Command {
	var (
		metrics    []string
		dimensions []string
		filters    []string
		sortBy     []string
		startDate  int64
		endDate    int64
		profileID  int64
		limit      int64
		offset     int64
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Translate and execute a report query",
		Long: `Translate an abstract query into Core Reporting API parameters and run it.

Filters use the form FIELD OP VALUE, e.g. 'sessions>10' or
'deviceCategory==mobile'. All filters combine with AND. Sort fields
prefixed with '-' sort descending.`,
		Example: `  gactl report run --metric sessions --dimension date --sort -sessions --limit 10
  gactl report run --metric sessions --filter 'deviceCategory==mobile' --start-date 1735689600`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(metrics) == 0 {
				return fmt.Errorf("at least one --metric is required")
			}

			req := map[string]any{}
			var fields []reportField
			for _, m := range metrics {
				fields = append(fields, reportField{Field: m})
			}
			for _, d := range dimensions {
				fields = append(fields, reportField{Field: d})
			}
			req["fields"] = fields

			var conditions []reportFilter
			for _, f := range filters {
				cond, err := parseFilter(f)
				if err != nil {
					return err
				}
				conditions = append(conditions, cond)
			}
			if startDate > 0 {
				conditions = append(conditions, reportFilter{Field: "start_date", Value: fmt.Sprint(startDate), Operator: "=="})
			}
			if endDate > 0 {
				conditions = append(conditions, reportFilter{Field: "end_date", Value: fmt.Sprint(endDate), Operator: "=="})
			}
			if len(conditions) > 0 {
				req["filters"] = conditions
			}

			var sorts []reportSort
			for _, s := range sortBy {
				if field, ok := strings.CutPrefix(s, "-"); ok {
					sorts = append(sorts, reportSort{Field: field, Direction: "DESC"})
				} else {
					sorts = append(sorts, reportSort{Field: s})
				}
			}
			if len(sorts) > 0 {
				req["sort"] = sorts
			}

			if limit > 0 {
				req["limit"] = limit
			}
			if offset > 0 {
				req["offset"] = offset
			}
			if profileID != 0 {
				req["profileId"] = profileID
			}

			var body struct {
				Rows      []map[string]string `json:"rows"`
				TotalRows int64               `json:"totalRows"`
				QueryEcho string              `json:"queryEcho"`
				ElapsedMS int64               `json:"elapsedMs"`
				Message   string              `json:"message"`
			}
			if err := client.Post("/v1/reports", req, &body); err != nil {
				return err
			}

			if getOutputFormat(cmd) == "json" {
				return printJSON(cmd.OutOrStdout(), body)
			}

			if body.Message != "" {
				fmt.Fprintln(cmd.OutOrStdout(), body.Message)
			}
			if len(body.Rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No rows.")
				return nil
			}

			// Stable column order across rows.
			var columns []string
			for col := range body.Rows[0] {
				columns = append(columns, col)
			}
			sort.Strings(columns)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, strings.ToUpper(strings.Join(columns, "\t")))
			for _, row := range body.Rows {
				values := make([]string, len(columns))
				for i, col := range columns {
					values[i] = row[col]
				}
				fmt.Fprintln(w, strings.Join(values, "\t"))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d rows (%dms)\n", len(body.Rows), body.TotalRows, body.ElapsedMS)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&metrics, "metric", nil, "Metric to report on (repeatable)")
	cmd.Flags().StringSliceVar(&dimensions, "dimension", nil, "Dimension to break down by (repeatable)")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "Filter condition FIELD OP VALUE (repeatable, AND-combined)")
	cmd.Flags().StringSliceVar(&sortBy, "sort", nil, "Sort field, '-' prefix for descending (repeatable)")
	cmd.Flags().Int64Var(&startDate, "start-date", 0, "Report start date as a Unix timestamp")
	cmd.Flags().Int64Var(&endDate, "end-date", 0, "Report end date as a Unix timestamp")
	cmd.Flags().Int64Var(&profileID, "profile", 0, "Profile (view) ID override")
	cmd.Flags().Int64Var(&limit, "limit", 0, "Maximum number of rows")
	cmd.Flags().Int64Var(&offset, "offset", 0, "Row offset")

	return cmd
}

// filterOperators in match order: longer operators first so "==" is not
// split as "=".
var filterOperators = []string{"==", "!=", ">=", "<=", "=~", "!~", "=@", "!@", ">", "<"}

// parseFilter splits a FIELD OP VALUE expression.
func parseFilter(expr string) (reportFilter, error) {
	for _, op := range filterOperators {
		if idx := strings.Index(expr, op); idx > 0 {
			return reportFilter{
				Field:    expr[:idx],
				Operator: op,
				Value:    expr[idx+len(op):],
			}, nil
		}
	}
	return reportFilter{}, fmt.Errorf("invalid filter %q: expected FIELD OP VALUE", expr)
}
