package commands

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/user/storefront-harvester/internal/adapter/csvtable"
	"github.com/user/storefront-harvester/internal/adapter/textfile"
	"github.com/user/storefront-harvester/internal/entity"
	"github.com/user/storefront-harvester/internal/usecase"
)

var consolidateCmd = &cobra.Command{
	Use:   "consolidate FILE...",
	Short: "Merge harvested tables into a deduplicated text file.",
	Long: `Reads every source table, extracts its items in the chosen shape and
appends the distinct items to the output file, one per line. Missing or
empty sources are reported and skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		shapeName, _ := flags.GetString("shape")
		kind, err := entity.ParseShapeKind(shapeName)
		if err != nil {
			return err
		}

		column := cfg.NestedColumn
		if kind == entity.FlatColumn {
			column = cfg.FlatColumn
		}
		if flags.Changed("column") {
			column, _ = flags.GetString("column")
		}
		out := cfg.ConsolidateOutput
		if flags.Changed("out") {
			out, _ = flags.GetString("out")
		}

		pipeline := usecase.NewConsolidationPipeline(csvtable.NewTableRepo(), textfile.NewAppenderRepo())
		report, err := pipeline.Run(cmd.Context(), args, entity.Shape{Kind: kind, Column: column}, out)
		if report != nil {
			renderConsolidation(os.Stdout, report)
		}
		return err
	},
}

func init() {
	f := consolidateCmd.Flags()
	f.String("shape", string(entity.NestedText), "Source shape: nested or flat.")
	f.String("column", "", "Column to read (default NESTED_COLUMN or FLAT_COLUMN).")
	f.String("out", "", "Text file to append to (default CONSOLIDATE_OUTPUT).")
	rootCmd.AddCommand(consolidateCmd)
}
