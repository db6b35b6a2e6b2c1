package commands

import (
	"context"
	"fmt"

	"github.com/user/storefront-harvester/internal/adapter/chromedp_driver"
	"github.com/user/storefront-harvester/internal/adapter/rod_driver"
	"github.com/user/storefront-harvester/internal/adapter/snapshot_driver"
	"github.com/user/storefront-harvester/internal/repository"
	"github.com/user/storefront-harvester/pkg/config"
)

// driverOpener returns the opener for the configured engine.
func driverOpener(c *config.Config) (repository.DriverOpener, error) {
	switch c.DriverEngine {
	case "chromedp":
		opts := chromedp_driver.Options{
			Headless:           c.Headless,
			DisableGPU:         c.DisableGPU,
			NoSandbox:          c.NoSandbox,
			DisableDevShm:      c.DisableDevShm,
			DisableExtensions:  c.DisableExtensions,
			DisableDNSPrefetch: c.DisableDNSPrefetch,
			WindowWidth:        c.WindowWidth,
			WindowHeight:       c.WindowHeight,
			UserAgent:          c.UserAgent,
			ExecPath:           c.BrowserBin,
			PageLoadTimeout:    c.PageLoadTimeout,
			ActionTimeout:      c.ActionTimeout,
		}
		return func(ctx context.Context) (repository.Driver, error) {
			d, err := chromedp_driver.NewChromedpDriver(ctx, opts)
			if err != nil {
				return nil, err
			}
			return d, nil
		}, nil

	case "rod":
		opts := rod_driver.Options{
			Headless:           c.Headless,
			DisableGPU:         c.DisableGPU,
			NoSandbox:          c.NoSandbox,
			DisableDevShm:      c.DisableDevShm,
			DisableExtensions:  c.DisableExtensions,
			DisableDNSPrefetch: c.DisableDNSPrefetch,
			WindowWidth:        c.WindowWidth,
			WindowHeight:       c.WindowHeight,
			UserAgent:          c.UserAgent,
			Bin:                c.BrowserBin,
			Stealth:            c.Stealth,
			PageLoadTimeout:    c.PageLoadTimeout,
			ActionTimeout:      c.ActionTimeout,
		}
		return func(ctx context.Context) (repository.Driver, error) {
			d, err := rod_driver.NewRodDriver(ctx, opts)
			if err != nil {
				return nil, err
			}
			return d, nil
		}, nil

	case "snapshot":
		dir := c.SnapshotDir
		return func(ctx context.Context) (repository.Driver, error) {
			pages, err := snapshot_driver.LoadDir(dir)
			if err != nil {
				return nil, err
			}
			return snapshot_driver.NewSnapshotDriver(pages), nil
		}, nil

	default:
		return nil, fmt.Errorf("unknown driver engine %q", c.DriverEngine)
	}
}
