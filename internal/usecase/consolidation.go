package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/user/storefront-harvester/internal/entity"
	"github.com/user/storefront-harvester/internal/repository"
	"github.com/user/storefront-harvester/pkg/metrics"
)

// SourceStatus is the outcome of reading one batch file.
type SourceStatus string

const (
	SourceOK       SourceStatus = "ok"
	SourceNotFound SourceStatus = "not_found"
	SourceEmpty    SourceStatus = "empty"
	SourceError    SourceStatus = "error"
)

// SourceOutcome records how one batch file contributed to a consolidation.
type SourceOutcome struct {
	Path   string
	Status SourceStatus
	Items  int
	Err    error
}

// ConsolidationReport summarises a consolidation run.
type ConsolidationReport struct {
	Sources   []SourceOutcome
	Extracted int
	Unique    int
	Written   int
	Output    string
}

// ConsolidationPipeline merges batch files into one deduplicated output file.
type ConsolidationPipeline struct {
	reader   repository.TableReader
	appender repository.LineAppender
}

// NewConsolidationPipeline creates a pipeline over the given file adapters.
func NewConsolidationPipeline(reader repository.TableReader, appender repository.LineAppender) *ConsolidationPipeline {
	return &ConsolidationPipeline{reader: reader, appender: appender}
}

// Consolidate unions the items of every readable source into one set.
// Unreadable sources are logged and skipped; their outcome says why.
func (p *ConsolidationPipeline) Consolidate(ctx context.Context, sources []string, shape entity.Shape) (*entity.ConsolidatedSet, []SourceOutcome) {
	set := entity.NewConsolidatedSet()
	outcomes := make([]SourceOutcome, 0, len(sources))

	for _, path := range sources {
		if ctx.Err() != nil {
			break
		}
		outcome := SourceOutcome{Path: path, Status: SourceOK}

		items, err := p.readSource(path, shape)
		if err != nil {
			outcome.Err = err
			switch {
			case errors.Is(err, repository.ErrSourceNotFound):
				outcome.Status = SourceNotFound
			case errors.Is(err, repository.ErrEmptySource):
				outcome.Status = SourceEmpty
			default:
				outcome.Status = SourceError
			}
			slog.Warn("Skipping batch file", "path", path, "status", outcome.Status, "error", err)
		} else {
			outcome.Items = len(items)
			set.Add(items...)
			slog.Debug("Batch file read", "path", path, "items", len(items))
		}

		metrics.ConsolidationSources.WithLabelValues(string(outcome.Status)).Inc()
		outcomes = append(outcomes, outcome)
	}

	metrics.ConsolidatedItems.Set(float64(set.Len()))
	return set, outcomes
}

// Append writes every item of set to output, one per line, in sorted order.
// An empty set leaves the file untouched.
func (p *ConsolidationPipeline) Append(set *entity.ConsolidatedSet, output string) (int, error) {
	if set.Len() == 0 {
		return 0, nil
	}
	written, err := p.appender.AppendLines(output, set.Sorted())
	metrics.OutputLinesWritten.Add(float64(written))
	if err != nil {
		slog.Error("Failed to append consolidated items", "output", output, "written", written, "error", err)
		return written, fmt.Errorf("failed to append to %s: %w", output, err)
	}
	return written, nil
}

// Run consolidates sources and appends the result to output. Only a failed
// write is returned as an error.
func (p *ConsolidationPipeline) Run(ctx context.Context, sources []string, shape entity.Shape, output string) (*ConsolidationReport, error) {
	set, outcomes := p.Consolidate(ctx, sources, shape)
	report := &ConsolidationReport{
		Sources: outcomes,
		Unique:  set.Len(),
		Output:  output,
	}
	for _, o := range outcomes {
		report.Extracted += o.Items
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}

	written, err := p.Append(set, output)
	report.Written = written
	if err != nil {
		return report, err
	}
	slog.Info("Consolidation finished",
		"sources", len(sources),
		"extracted", report.Extracted,
		"unique", report.Unique,
		"written", written,
		"output", output,
	)
	return report, nil
}

func (p *ConsolidationPipeline) readSource(path string, shape entity.Shape) ([]string, error) {
	table, err := p.reader.ReadTable(path)
	if err != nil {
		return nil, err
	}
	return ExtractItems(table, shape)
}

// ExtractItems pulls the text items of table according to shape.
//
// NestedText parses every bracketed cell of the chosen columns (all columns
// when shape.Column is empty), column by column; other cells, such as the
// seed URL of a batch row, are not lists and are skipped. FlatColumn reads
// the named column one item per row. Items are flattened onto one line and
// blank items dropped.
func ExtractItems(table *entity.Table, shape entity.Shape) ([]string, error) {
	switch shape.Kind {
	case entity.NestedText:
		columns := make([]int, 0, len(table.Header))
		if shape.Column != "" {
			idx := table.ColumnIndex(shape.Column)
			if idx < 0 {
				return nil, fmt.Errorf("%w: %q", repository.ErrColumnNotFound, shape.Column)
			}
			columns = append(columns, idx)
		} else {
			for i := range table.Header {
				columns = append(columns, i)
			}
		}

		var items []string
		for _, idx := range columns {
			for _, cell := range table.ColumnAt(idx) {
				if !isPseudoList(cell) {
					continue
				}
				items = appendFlattened(items, ParsePseudoList(cell)...)
			}
		}
		return items, nil

	case entity.FlatColumn:
		column := shape.Column
		if column == "" {
			column = "content"
		}
		cells, ok := table.Column(column)
		if !ok {
			return nil, fmt.Errorf("%w: %q", repository.ErrColumnNotFound, column)
		}
		return appendFlattened(make([]string, 0, len(cells)), cells...), nil

	default:
		return nil, fmt.Errorf("unknown shape %q", shape.Kind)
	}
}

func isPseudoList(cell string) bool {
	cell = strings.TrimSpace(cell)
	return len(cell) >= 2 && cell[0] == '[' && cell[len(cell)-1] == ']'
}

// appendFlattened collapses every whitespace run of each item, line breaks
// included, to a single space so one item always fills exactly one line.
func appendFlattened(dst []string, items ...string) []string {
	for _, it := range items {
		it = strings.Join(strings.Fields(it), " ")
		if it == "" {
			continue
		}
		dst = append(dst, it)
	}
	return dst
}

// ParsePseudoList splits a serialized list such as "['a', 'b']" into its
// items.
//
// Well-formed lists of quoted items are scanned item by item: either quote
// character may open an item, and backslash escapes (\', \", \\, \n, \r,
// \t) are undone. Anything else falls back to the loose reading: the outer
// brackets are cut, stray brackets removed, and the rest split on "',".
// Items lose surrounding whitespace; empty items are dropped.
func ParsePseudoList(s string) []string {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return nil
	}
	s = s[1 : len(s)-1]
	if items, ok := scanQuotedList(s); ok {
		return items
	}

	s = strings.NewReplacer("[", "", "]", "").Replace(s)
	parts := strings.Split(s, "',")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		item := trimQuotes(strings.TrimSpace(part))
		if item == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}

// scanQuotedList reads comma-separated quoted items. ok is false as soon as
// the input strays from that grammar.
func scanQuotedList(s string) (items []string, ok bool) {
	items = []string{}
	i := skipSpace(s, 0)
	for i < len(s) {
		quote := s[i]
		if quote != '\'' && quote != '"' {
			return nil, false
		}
		i++

		var b strings.Builder
		closed := false
		for i < len(s) {
			c := s[i]
			if c == '\\' && i+1 < len(s) {
				b.WriteString(unescape(s[i+1]))
				i += 2
				continue
			}
			i++
			if c == quote {
				closed = true
				break
			}
			b.WriteByte(c)
		}
		if !closed {
			return nil, false
		}
		if item := strings.TrimSpace(b.String()); item != "" {
			items = append(items, item)
		}

		i = skipSpace(s, i)
		if i == len(s) {
			break
		}
		if s[i] != ',' {
			return nil, false
		}
		i = skipSpace(s, i+1)
	}
	return items, true
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	return i
}

func unescape(c byte) string {
	switch c {
	case 'n':
		return "\n"
	case 'r':
		return "\r"
	case 't':
		return "\t"
	case '\\', '\'', '"':
		return string(c)
	default:
		return "\\" + string(c)
	}
}

func trimQuotes(s string) string {
	if s == "" {
		return s
	}
	if s[0] == '\'' || s[0] == '"' {
		s = s[1:]
	}
	if n := len(s); n > 0 && (s[n-1] == '\'' || s[n-1] == '"') {
		s = s[:n-1]
	}
	return strings.TrimSpace(s)
}
