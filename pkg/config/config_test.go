package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 2, cfg.MaxBatches)
	require.Equal(t, 2, cfg.CommentPages)
	require.Equal(t, 49, cfg.ListingPages)
	require.Equal(t, 1200, cfg.ScrollY)
	require.Equal(t, 3*time.Second, cfg.ContentSettle)
	require.Equal(t, 5*time.Second, cfg.NavigationSettle)
	require.Equal(t, 1300, cfg.WindowWidth)
	require.Equal(t, 900, cfg.WindowHeight)
	require.True(t, cfg.Headless)
	require.True(t, cfg.DisableGPU)
	require.True(t, cfg.RepairSeeds)
	require.Equal(t, "chromedp", cfg.DriverEngine)
	require.Equal(t, DefaultListingURL, cfg.ListingURL)
	require.Equal(t, "content", cfg.FlatColumn)
}

func TestLoadEnvFileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "harvester.env")
	require.NoError(t, os.WriteFile(path, []byte("MAX_BATCHES=7\nDRIVER_ENGINE=snapshot\nCONTENT_SETTLE=500ms\n"), 0o644))
	t.Setenv("SEED_OFFSET", "1")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 7, cfg.MaxBatches)
	require.Equal(t, "snapshot", cfg.DriverEngine)
	require.Equal(t, 500*time.Millisecond, cfg.ContentSettle)
	require.Equal(t, 1, cfg.SeedOffset)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DRIVER_ENGINE", "selenium")
	t.Setenv("MAX_BATCHES", "-1")

	_, err := Load("")
	require.ErrorContains(t, err, "DRIVER_ENGINE")
	require.ErrorContains(t, err, "MAX_BATCHES")
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
