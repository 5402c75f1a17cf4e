package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/rshade/steelcalc/internal/config"
	"github.com/rshade/steelcalc/internal/tables"
)

// tablesOutput is the JSON shape of the reference tables.
type tablesOutput struct {
	FlangeWidths []tables.FlangeRow `json:"flange_widths"`
	Gauges       []tables.GaugeRow  `json:"gauges"`
	Source       tables.Source      `json:"source"`
}

// NewTablesCmd creates the tables command, which lists the selectable
// flange widths and gauges with their looked-up values.
func NewTablesCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List the flange width and gauge reference tables",
		Example: `  steelcalc tables
  steelcalc tables --flange-table ./shop-tables.yaml -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := resolveOutputFormat(cmd, output, config.FormatTable, config.FormatJSON, config.FormatNDJSON)
			if err != nil {
				return err
			}
			rt, err := loadRuntime(cmd)
			if err != nil {
				return err
			}

			out := tablesOutput{
				FlangeWidths: rt.tables.FlangeRows(),
				Gauges:       rt.tables.GaugeRows(),
				Source:       rt.tables.Source(),
			}
			switch format {
			case config.FormatJSON:
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			case config.FormatNDJSON:
				return json.NewEncoder(cmd.OutOrStdout()).Encode(out)
			default:
				return renderTables(cmd.OutOrStdout(), rt.tables)
			}
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: table, json or ndjson (default from config)")

	return cmd
}
