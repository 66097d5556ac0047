package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newFieldsCmd(client *Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fields",
		Short: "Manage the local Google Analytics field catalog",
	}

	cmd.AddCommand(newFieldsListCmd(client))
	cmd.AddCommand(newFieldsStatusCmd(client))
	cmd.AddCommand(newFieldsCheckCmd(client))
	cmd.AddCommand(newFieldsImportCmd(client))

	return cmd
}

func newFieldsListCmd(client *Client) *cobra.Command {
	var maxResults int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog fields",
		Example: `  gactl fields list
  gactl fields list --max-results 20 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var body struct {
				Fields []struct {
					ID       string `json:"id"`
					Kind     string `json:"kind"`
					DataType string `json:"dataType"`
					Group    string `json:"group"`
					UIName   string `json:"uiName"`
				} `json:"fields"`
				TotalCount int64 `json:"totalCount"`
			}
			path := fmt.Sprintf("/v1/fields?max_results=%d", maxResults)
			if err := client.Get(path, &body); err != nil {
				return err
			}

			if getOutputFormat(cmd) == "json" {
				return printJSON(cmd.OutOrStdout(), body)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tKIND\tDATA TYPE\tGROUP\tUI NAME")
			for _, f := range body.Fields {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", f.ID, f.Kind, f.DataType, f.Group, f.UIName)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d fields\n", len(body.Fields), body.TotalCount)
			return nil
		},
	}

	cmd.Flags().IntVar(&maxResults, "max-results", 100, "Maximum number of fields to list")
	return cmd
}

func newFieldsStatusCmd(client *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show catalog size and last sync time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var body struct {
				FieldCount int64  `json:"fieldCount"`
				Etag       string `json:"etag"`
				LastSync   int64  `json:"lastSync"`
				Message    string `json:"message"`
			}
			if err := client.Get("/v1/fields/status", &body); err != nil {
				return err
			}

			if getOutputFormat(cmd) == "json" {
				return printJSON(cmd.OutOrStdout(), body)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Fields:    %d\n", body.FieldCount)
			if body.Etag != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Etag:      %s\n", body.Etag)
			}
			if body.LastSync > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Last sync: %s\n", time.Unix(body.LastSync, 0).UTC().Format(time.RFC1123))
			}
			fmt.Fprintln(cmd.OutOrStdout(), body.Message)
			return nil
		},
	}
}

func newFieldsCheckCmd(client *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check whether the remote field catalog has changed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var body struct {
				State   string `json:"state"`
				Message string `json:"message"`
			}
			if err := client.Post("/v1/fields/check", nil, &body); err != nil {
				return err
			}

			if getOutputFormat(cmd) == "json" {
				return printJSON(cmd.OutOrStdout(), body)
			}
			fmt.Fprintln(cmd.OutOrStdout(), body.Message)
			return nil
		},
	}
}

func newFieldsImportCmd(client *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Import the remote field catalog, replacing the local copy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var body struct {
				Imported int    `json:"imported"`
				Message  string `json:"message"`
			}
			if err := client.Post("/v1/fields/import", nil, &body); err != nil {
				return err
			}

			if getOutputFormat(cmd) == "json" {
				return printJSON(cmd.OutOrStdout(), body)
			}
			fmt.Fprintln(cmd.OutOrStdout(), body.Message)
			return nil
		},
	}
}
