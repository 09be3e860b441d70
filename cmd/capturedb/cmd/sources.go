package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/nxshot/capturedb/internal/sources"
	"github.com/nxshot/capturedb/internal/sources/nswdb"
	"github.com/nxshot/capturedb/internal/sources/switchbrew"
	"github.com/nxshot/capturedb/internal/sources/titledb"
)

// sourcesCmd lists the catalog sources in merge precedence order.
var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List catalog sources in precedence order",
	Long: `Sources prints the catalog sources in the order they are merged.
Later sources override earlier ones when two catalogs produce the same
capture ID.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		order, err := sources.LoadOrder(sourcesFile)
		if err != nil {
			return err
		}

		tw := table.NewWriter()
		tw.SetOutputMirror(cmd.OutOrStdout())
		tw.SetStyle(table.StyleRounded)
		tw.AppendHeader(table.Row{"#", "Source", "Format", "Endpoint"})
		tw.SetColumnConfigs([]table.ColumnConfig{
			{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		})

		for i, id := range order {
			format, endpoint := describeSource(id)
			tw.AppendRow(table.Row{i + 1, id.String(), format, endpoint})
		}
		tw.Render()

		fmt.Fprintln(cmd.OutOrStdout(), "\nLater sources override earlier ones on capture ID collisions.")
		return nil
	},
}

func init() {
	sourcesCmd.Flags().StringVar(&sourcesFile, "sources-file", "", "YAML file overriding the source precedence order")
	rootCmd.AddCommand(sourcesCmd)
}

// describeSource returns the native document format and endpoint of a
// source for display.
func describeSource(id sources.ID) (format, endpoint string) {
	switch id {
	case sources.SwitchbrewID:
		return "html", switchbrew.DefaultURL
	case sources.NSWDBID:
		return "xml", nswdb.DefaultURL
	case sources.TitleDBID:
		return "json", titledb.DefaultURL
	default:
		return "", ""
	}
}
