package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/user/storefront-harvester/internal/adapter/csvtable"
	"github.com/user/storefront-harvester/internal/entity"
	"github.com/user/storefront-harvester/internal/repository"
	"github.com/user/storefront-harvester/internal/usecase"
)

var commentsCmd = &cobra.Command{
	Use:   "comments",
	Short: "Collect buyer comments from the product pages of a seed table.",
	Long: `Reads product URLs from a seed table, repairs their scheme prefix and
harvests the review comments of a window of them on one browser session.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		seedFile := cfg.SeedFile
		if flags.Changed("seeds") {
			seedFile, _ = flags.GetString("seeds")
		}
		column := cfg.SeedColumn
		if flags.Changed("column") {
			column, _ = flags.GetString("column")
		}
		offset := cfg.SeedOffset
		if flags.Changed("offset") {
			offset, _ = flags.GetInt("offset")
		}
		maxBatches := cfg.MaxBatches
		if flags.Changed("max-batches") {
			maxBatches, _ = flags.GetInt("max-batches")
		}
		pages := cfg.CommentPages
		if flags.Changed("pages") {
			pages, _ = flags.GetInt("pages")
		}
		repair := cfg.RepairSeeds
		if flags.Changed("repair") {
			repair, _ = flags.GetBool("repair")
		}
		out := cfg.CommentOutput
		if flags.Changed("out") {
			out, _ = flags.GetString("out")
		}
		if offset < 0 || maxBatches < 0 || pages < 1 {
			return errors.New("offset and max-batches must not be negative and pages must be at least 1")
		}

		table, err := csvtable.NewTableRepo().ReadTable(seedFile)
		if err != nil {
			return fmt.Errorf("could not read seed table: %w", err)
		}
		seeds, err := usecase.NormalizeSeeds(usecase.SeedsFromTable(table, column), repair)
		if err != nil {
			slog.Warn("Some seeds were dropped", "error", err)
		}
		if len(seeds) == 0 {
			return fmt.Errorf("no usable seeds in %s", seedFile)
		}

		return runHarvest(cmd.Context(), harvestRun{
			profile:    applyTiming(entity.CommentProfile(), pages),
			seeds:      seeds,
			offset:     offset,
			maxBatches: maxBatches,
			files:      []repository.BatchSink{csvtable.NewBatchSink(out)},
		})
	},
}

func init() {
	f := commentsCmd.Flags()
	f.String("seeds", "", "Seed table to read product URLs from (default SEED_FILE).")
	f.String("column", "", "Seed table column holding the URLs (default SEED_COLUMN).")
	f.Int("offset", 0, "Index of the first seed to visit (default SEED_OFFSET).")
	f.Int("max-batches", 0, "Maximum number of seeds to visit (default MAX_BATCHES).")
	f.Int("pages", 0, "Maximum review pages per product (default COMMENT_PAGES).")
	f.Bool("repair", true, "Replace the two-character corrupted prefix of each seed with https:// (default REPAIR_SEEDS).")
	f.String("out", "", "Batch CSV output (default COMMENT_OUTPUT).")
	rootCmd.AddCommand(commentsCmd)
}
