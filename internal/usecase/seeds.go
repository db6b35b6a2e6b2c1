package usecase

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/user/storefront-harvester/internal/entity"
	"github.com/user/storefront-harvester/pkg/utils"
)

// SeedsFromTable returns the raw seed strings of t.
// When column is in the header it is used; otherwise the file is treated as a
// header-less single column and the header row is read as data.
// Blank cells are skipped.
func SeedsFromTable(t *entity.Table, column string) []string {
	var cells []string
	if col, ok := t.Column(column); ok && column != "" {
		cells = col
	} else if len(t.Header) > 0 {
		cells = append([]string{t.Header[0]}, t.ColumnAt(0)...)
	}

	raws := make([]string, 0, len(cells))
	for _, c := range cells {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		raws = append(raws, c)
	}
	return raws
}

// NormalizeSeeds turns raw strings into seed targets, keeping input order.
// Entries that already are absolute http(s) URLs, such as the seed file of a
// listing run, are kept as they are. With repair set, any other entry gets its
// two-character corrupted prefix replaced by "https://"; otherwise it is
// malformed.
// Malformed entries are dropped and reported in the joined error, so a caller
// may keep the valid seeds and still surface the problem.
func NormalizeSeeds(raws []string, repair bool) ([]entity.SeedTarget, error) {
	seeds := make([]entity.SeedTarget, 0, len(raws))
	var errs []error
	for _, raw := range raws {
		normalized := raw
		err := utils.ValidateAbsolute(raw)
		if err == nil {
			if repair {
				slog.Debug("Seed is already absolute, keeping it as is", "seed", raw)
			}
		} else if repair {
			normalized, err = utils.RepairScheme(raw)
		}
		if err != nil {
			slog.Warn("Dropping malformed seed", "raw", raw, "error", err)
			errs = append(errs, err)
			continue
		}
		seeds = append(seeds, entity.SeedTarget(normalized))
	}
	return seeds, errors.Join(errs...)
}
