package csvtable

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/user/storefront-harvester/internal/entity"
	"github.com/user/storefront-harvester/internal/repository"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadTable(t *testing.T) {
	path := writeFile(t, "batch.csv", "\ufeffseed,records\nhttps://a.com,\"['x', 'y']\"\nhttps://b.com\n")

	table, err := NewTableRepo().ReadTable(path)
	require.NoError(t, err)
	require.Equal(t, []string{"seed", "records"}, table.Header)
	require.Len(t, table.Rows, 2)

	col, ok := table.Column("records")
	require.True(t, ok)
	require.Equal(t, []string{"['x', 'y']", ""}, col)
}

func TestReadTableErrors(t *testing.T) {
	repo := NewTableRepo()

	_, err := repo.ReadTable(filepath.Join(t.TempDir(), "missing.csv"))
	require.ErrorIs(t, err, repository.ErrSourceNotFound)

	_, err = repo.ReadTable(writeFile(t, "empty.csv", ""))
	require.ErrorIs(t, err, repository.ErrEmptySource)
}

func TestBatchSinkRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	results := []entity.BatchResult{
		{Seed: "https://a.com", Records: []entity.HarvestedRecord{"good", "it's fine"}},
		{Seed: "https://b.com", Records: []entity.HarvestedRecord{}},
	}
	require.NoError(t, NewBatchSink(path).Save(context.Background(), results))

	table, err := NewTableRepo().ReadTable(path)
	require.NoError(t, err)
	require.Equal(t, []string{"seed", "records"}, table.Header)
	require.Equal(t, [][]string{
		{"https://a.com", `['good', "it's fine"]`},
		{"https://b.com", "[]"},
	}, table.Rows)
}

func TestColumnSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seeds.csv")
	results := []entity.BatchResult{
		{Records: []entity.HarvestedRecord{"https://x/1", "https://x/2"}},
		{Records: []entity.HarvestedRecord{"https://x/1"}},
	}
	require.NoError(t, NewColumnSink(path, "url").Save(context.Background(), results))

	table, err := NewTableRepo().ReadTable(path)
	require.NoError(t, err)
	col, ok := table.Column("url")
	require.True(t, ok)
	require.Equal(t, []string{"https://x/1", "https://x/2", "https://x/1"}, col)
}

func TestFormatPseudoList(t *testing.T) {
	require.Equal(t, "[]", FormatPseudoList(nil))
	require.Equal(t, "['a', 'b']", FormatPseudoList([]string{"a", "b"}))
	require.Equal(t, `['line\none']`, FormatPseudoList([]string{"line\none"}))
	require.Equal(t, `['say "it\'s"']`, FormatPseudoList([]string{`say "it's"`}))
}
