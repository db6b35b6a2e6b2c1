package usecase

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/user/storefront-harvester/internal/adapter/csvtable"
	"github.com/user/storefront-harvester/internal/entity"
	"github.com/user/storefront-harvester/pkg/utils"
)

func TestNormalizeSeedsKeepsOrder(t *testing.T) {
	seeds, err := NormalizeSeeds([]string{"//a.com/1", "//b.com/2", "//c.com/3"}, true)
	require.NoError(t, err)
	require.Equal(t, []entity.SeedTarget{"https://a.com/1", "https://b.com/2", "https://c.com/3"}, seeds)
}

func TestNormalizeSeedsReportsMalformed(t *testing.T) {
	seeds, err := NormalizeSeeds([]string{"//a.com/1", "x", "ftp://b.com/2", "//c.com/3"}, true)
	require.Equal(t, []entity.SeedTarget{"https://a.com/1", "https://c.com/3"}, seeds)

	var malformed *utils.MalformedInputError
	require.True(t, errors.As(err, &malformed))
	require.ErrorContains(t, err, `"x"`)
	require.ErrorContains(t, err, "already carries a scheme")
}

func TestNormalizeSeedsWithoutRepair(t *testing.T) {
	seeds, err := NormalizeSeeds([]string{"https://a.com/1", "//b.com/2"}, false)
	require.Equal(t, []entity.SeedTarget{"https://a.com/1"}, seeds)
	require.Error(t, err)
}

func TestSeedsFromTable(t *testing.T) {
	t.Run("named column", func(t *testing.T) {
		table := &entity.Table{
			Header: []string{"", "url"},
			Rows:   [][]string{{"0", "//a.com"}, {"1", " "}, {"2", "//b.com"}},
		}
		require.Equal(t, []string{"//a.com", "//b.com"}, SeedsFromTable(table, "url"))
	})

	t.Run("header-less file", func(t *testing.T) {
		table := &entity.Table{
			Header: []string{"//a.com"},
			Rows:   [][]string{{"//b.com"}},
		}
		require.Equal(t, []string{"//a.com", "//b.com"}, SeedsFromTable(table, "url"))
	})
}

func TestNormalizeSeedsKeepsAbsoluteURLs(t *testing.T) {
	seeds, err := NormalizeSeeds([]string{"https://a.com/1", "//b.com/2"}, true)
	require.NoError(t, err)
	require.Equal(t, []entity.SeedTarget{"https://a.com/1", "https://b.com/2"}, seeds)
}

func TestListingSeedFileFeedsCommentRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lazada_item_url.csv")
	sink := csvtable.NewColumnSink(path, "url")
	require.NoError(t, sink.Save(context.Background(), []entity.BatchResult{{
		Seed: "https://www.lazada.vn/catalog/?q=giay",
		Records: []entity.HarvestedRecord{
			"https://www.lazada.vn/products/x.html",
			"https://www.lazada.vn/products/y.html",
		},
	}}))

	table, err := csvtable.NewTableRepo().ReadTable(path)
	require.NoError(t, err)

	seeds, err := NormalizeSeeds(SeedsFromTable(table, "url"), true)
	require.NoError(t, err)
	require.Equal(t, []entity.SeedTarget{
		"https://www.lazada.vn/products/x.html",
		"https://www.lazada.vn/products/y.html",
	}, seeds)
}
