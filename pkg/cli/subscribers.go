package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/telekom/series-registry/pkg/store"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func NewSubscribersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subscribers",
		Short: "Inspect the subscriber list",
	}
	cmd.AddCommand(newSubscribersListCommand())
	return cmd
}

func newSubscribersListCommand() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored subscribers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			fs := store.NewFileStore(cfg.Storage.Path, zap.NewNop().Sugar())
			list, err := fs.List(cmd.Context())
			if err != nil {
				return err
			}
			return writeSubscribers(getRuntime(cmd).writer, outputFormat, list)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "Output format: table, json, yaml")
	return cmd
}

func writeSubscribers(w io.Writer, format string, list []store.Subscriber) error {
	if list == nil {
		list = []store.Subscriber{}
	}
	switch format {
	case "json":
		data, err := json.MarshalIndent(list, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		rows := make([]map[string]string, 0, len(list))
		for _, s := range list {
			rows = append(rows, map[string]string{
				"email":       s.Email,
				"seriesTitle": s.SeriesTitle,
				"createdAt":   s.CreatedAtText(),
			})
		}
		data, err := yaml.Marshal(rows)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(w, string(data))
		return err
	case "table", "":
		tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
		_, _ = fmt.Fprintln(tw, "EMAIL\tSERIES\tCREATED")
		for _, s := range list {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Email, s.SeriesTitle, s.CreatedAtText())
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
