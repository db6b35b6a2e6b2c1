package csvtable

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/user/storefront-harvester/internal/entity"
)

// BatchSinkImpl writes one row per seed with its records serialized as a
// pseudo-list, the layout the nested consolidation shape reads back.
type BatchSinkImpl struct {
	path string
}

// NewBatchSink creates a sink that overwrites path on every Save.
func NewBatchSink(path string) *BatchSinkImpl {
	return &BatchSinkImpl{path: path}
}

func (s *BatchSinkImpl) Name() string { return "csv:" + s.path }

// Save writes the header "seed,records" followed by one row per result.
func (s *BatchSinkImpl) Save(ctx context.Context, results []entity.BatchResult) error {
	rows := make([][]string, 0, len(results)+1)
	rows = append(rows, []string{"seed", "records"})
	for _, r := range results {
		rows = append(rows, []string{r.Seed.String(), FormatPseudoList(r.Texts())})
	}
	return writeAll(s.path, rows)
}

// ColumnSinkImpl writes every record of every batch as one row of a single
// named column. Listing runs use it to produce the seed file of a comment run.
type ColumnSinkImpl struct {
	path   string
	column string
}

// NewColumnSink creates a sink writing records under column.
func NewColumnSink(path, column string) *ColumnSinkImpl {
	return &ColumnSinkImpl{path: path, column: column}
}

func (s *ColumnSinkImpl) Name() string { return "csv-column:" + s.path }

// Save writes the header followed by the records in harvest order.
func (s *ColumnSinkImpl) Save(ctx context.Context, results []entity.BatchResult) error {
	rows := [][]string{{s.column}}
	for _, r := range results {
		for _, rec := range r.Records {
			rows = append(rows, []string{string(rec)})
		}
	}
	return writeAll(s.path, rows)
}

func writeAll(path string, rows [][]string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s for writing: %w", path, err)
	}

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(rows); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

var escaper = strings.NewReplacer(`\`, `\\`, "\n", `\n`, "\r", `\r`, "\t", `\t`)

// FormatPseudoList renders items as a bracketed, quoted list such as
// "['a', 'b']". Items holding a single quote and no double quote are wrapped
// in double quotes instead.
func FormatPseudoList(items []string) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, it := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		it = escaper.Replace(it)
		if strings.Contains(it, "'") && !strings.Contains(it, `"`) {
			b.WriteString(`"` + it + `"`)
			continue
		}
		b.WriteString("'" + strings.ReplaceAll(it, "'", `\'`) + "'")
	}
	b.WriteByte(']')
	return b.String()
}
