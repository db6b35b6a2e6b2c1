package commands

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/user/storefront-harvester/internal/entity"
	"github.com/user/storefront-harvester/pkg/config"
)

func TestConsolidateCommand(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	src := filepath.Join(dir, "comments.csv")
	require.NoError(t, os.WriteFile(src, []byte("content\nshoe\n\nsock\nshoe\n"), 0o644))
	out := filepath.Join(dir, "output.txt")

	rootCmd.SetArgs([]string{"consolidate", "--shape", "flat", "--out", out, src, filepath.Join(dir, "missing.csv")})
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, []string{"shoe", "sock"}, strings.Fields(string(data)))
}

func TestConsolidateCommandRejectsUnknownShape(t *testing.T) {
	chdir(t, t.TempDir())

	rootCmd.SetArgs([]string{"consolidate", "--shape", "tree", "a.csv"})
	require.Error(t, rootCmd.ExecuteContext(context.Background()))
}

func TestDriverOpener(t *testing.T) {
	c := &config.Config{DriverEngine: "snapshot", SnapshotDir: t.TempDir()}
	open, err := driverOpener(c)
	require.NoError(t, err)

	// No manifest in the directory.
	d, err := open(context.Background())
	require.Error(t, err)
	require.Nil(t, d)

	_, err = driverOpener(&config.Config{DriverEngine: "selenium"})
	require.Error(t, err)
}

func TestApplyTiming(t *testing.T) {
	cfg = &config.Config{ScrollY: 800, PollInterval: 50, ContentSettle: 1000}

	p := applyTiming(entity.CommentProfile(), 5)
	require.Equal(t, 5, p.MaxPages)
	require.Equal(t, 800, p.ScrollY)
	require.Equal(t, entity.SettlePolicy{Interval: 50, Timeout: 1000}, p.Settle)
}

func TestFormatSeed(t *testing.T) {
	require.Equal(t, "https://a.com", formatSeed("https://a.com"))

	long := entity.SeedTarget("https://shop.com/" + strings.Repeat("x", 80))
	got := formatSeed(long)
	require.Len(t, got, 60)
	require.True(t, strings.HasSuffix(got, "..."))
}

// chdir switches the working directory for the duration of the test
// (stands in for testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
