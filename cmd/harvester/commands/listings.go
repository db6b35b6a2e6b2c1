package commands

import (
	"github.com/spf13/cobra"
	"github.com/user/storefront-harvester/internal/adapter/csvtable"
	"github.com/user/storefront-harvester/internal/entity"
	"github.com/user/storefront-harvester/internal/repository"
	"github.com/user/storefront-harvester/pkg/utils"
)

var listingsCmd = &cobra.Command{
	Use:   "listings",
	Short: "Collect product links from a search listing.",
	Long: `Walks the pages of a search listing and collects the product link of
every tile. Links are written as one batch row and as a url column that a
later "comments" run can read as its seed table.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		listingURL := cfg.ListingURL
		if flags.Changed("url") {
			listingURL, _ = flags.GetString("url")
		}
		pages := cfg.ListingPages
		if flags.Changed("pages") {
			pages, _ = flags.GetInt("pages")
		}
		out := cfg.ListingOutput
		if flags.Changed("out") {
			out, _ = flags.GetString("out")
		}
		seedOut := cfg.ListingSeedOutput
		if flags.Changed("seed-out") {
			seedOut, _ = flags.GetString("seed-out")
		}

		if err := utils.ValidateAbsolute(listingURL); err != nil {
			return err
		}

		files := []repository.BatchSink{csvtable.NewBatchSink(out)}
		if seedOut != "" {
			files = append(files, csvtable.NewColumnSink(seedOut, cfg.SeedColumn))
		}
		return runHarvest(cmd.Context(), harvestRun{
			profile:    applyTiming(entity.ListingProfile(), pages),
			seeds:      []entity.SeedTarget{entity.SeedTarget(listingURL)},
			maxBatches: 1,
			files:      files,
		})
	},
}

func init() {
	f := listingsCmd.Flags()
	f.String("url", "", "Listing URL to start from (default LISTING_URL).")
	f.Int("pages", 0, "Maximum listing pages to walk (default LISTING_PAGES).")
	f.String("out", "", "Batch CSV output (default LISTING_OUTPUT).")
	f.String("seed-out", "", "Seed table output for a comments run (default LISTING_SEED_OUTPUT).")
	rootCmd.AddCommand(listingsCmd)
}
