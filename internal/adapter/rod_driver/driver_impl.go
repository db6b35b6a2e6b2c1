package rod_driver

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/user/storefront-harvester/internal/entity"
	"github.com/user/storefront-harvester/internal/repository"
	"github.com/user/storefront-harvester/pkg/utils"
)

const readyStatePoll = 100 * time.Millisecond

// Options configures the launched browser.
type Options struct {
	Headless           bool
	DisableGPU         bool
	NoSandbox          bool
	DisableDevShm      bool
	DisableExtensions  bool
	DisableDNSPrefetch bool
	WindowWidth        int
	WindowHeight       int
	UserAgent          string
	Bin                string
	// Stealth opens the tab with automation fingerprints masked.
	Stealth bool

	PageLoadTimeout time.Duration
	ActionTimeout   time.Duration
}

// RodDriver implements repository.Driver on a rod-controlled browser tab.
type RodDriver struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page

	pageLoadTimeout time.Duration
	actionTimeout   time.Duration

	closeOnce sync.Once
	closeErr  error
}

var _ repository.Driver = (*RodDriver)(nil)

func newLauncher(opts Options) *launcher.Launcher {
	l := launcher.New().
		Headless(opts.Headless).
		NoSandbox(opts.NoSandbox)

	toggles := map[flags.Flag]bool{
		"disable-gpu":           opts.DisableGPU,
		"disable-dev-shm-usage": opts.DisableDevShm,
		"disable-extensions":    opts.DisableExtensions,
		"dns-prefetch-disable":  opts.DisableDNSPrefetch,
	}
	for flag, on := range toggles {
		if on {
			l = l.Set(flag)
		} else {
			l = l.Delete(flag)
		}
	}
	if opts.WindowWidth > 0 && opts.WindowHeight > 0 {
		l = l.Set("window-size", strconv.Itoa(opts.WindowWidth)+","+strconv.Itoa(opts.WindowHeight))
	}
	if opts.UserAgent != "" {
		l = l.Set("user-agent", opts.UserAgent)
	}
	if opts.Bin != "" {
		l = l.Bin(opts.Bin)
	}
	return l
}

// NewRodDriver launches a browser and opens one tab.
func NewRodDriver(ctx context.Context, opts Options) (*RodDriver, error) {
	l := newLauncher(opts)
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	var page *rod.Page
	if opts.Stealth {
		page, err = stealth.Page(browser)
	} else {
		page, err = browser.Page(proto.TargetCreateTarget{})
	}
	if err != nil {
		_ = browser.Close()
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to open tab: %w", err)
	}

	slog.Info("Browser started", "engine", "rod", "headless", opts.Headless, "stealth", opts.Stealth)
	return &RodDriver{
		launcher:        l,
		browser:         browser,
		page:            page,
		pageLoadTimeout: opts.PageLoadTimeout,
		actionTimeout:   opts.ActionTimeout,
	}, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// Navigate opens url and waits until the DOM is interactive.
func (d *RodDriver) Navigate(ctx context.Context, url string) error {
	ctx, cancel := withTimeout(ctx, d.pageLoadTimeout)
	defer cancel()

	p := d.page.Context(ctx)
	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	for {
		res, err := p.Eval(`() => document.readyState`)
		if err == nil && res.Value.Str() != "loading" {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("document at %s never became interactive: %w", url, ctx.Err())
		case <-time.After(readyStatePoll):
		}
	}
}

func (d *RodDriver) query(ctx context.Context, loc entity.Locator) (rod.Elements, error) {
	ctx, cancel := withTimeout(ctx, d.actionTimeout)
	defer cancel()

	p := d.page.Context(ctx)
	var (
		elems rod.Elements
		err   error
	)
	switch loc.Strategy {
	case entity.ByCSS, "":
		elems, err = p.Elements(loc.Value)
	case entity.ByXPath:
		elems, err = p.ElementsX(loc.Value)
	default:
		return nil, fmt.Errorf("%w: %s", repository.ErrUnsupportedLocator, loc.Strategy)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", loc, err)
	}
	return elems, nil
}

func (d *RodDriver) FindElement(ctx context.Context, loc entity.Locator) (repository.Lookup, error) {
	elems, err := d.query(ctx, loc)
	if err != nil {
		return repository.NotFound, err
	}
	if elems.Empty() {
		return repository.NotFound, nil
	}
	return repository.Lookup{Element: elems.First(), Found: true}, nil
}

func (d *RodDriver) FindElements(ctx context.Context, loc entity.Locator) ([]repository.Element, error) {
	elems, err := d.query(ctx, loc)
	if err != nil {
		return nil, err
	}
	out := make([]repository.Element, len(elems))
	for i, el := range elems {
		out[i] = el
	}
	return out, nil
}

// element rebinds el to ctx bounded by the action timeout.
func (d *RodDriver) element(ctx context.Context, el repository.Element) (*rod.Element, context.CancelFunc, error) {
	e, ok := el.(*rod.Element)
	if !ok || e == nil {
		return nil, nil, repository.ErrForeignElement
	}
	ctx, cancel := withTimeout(ctx, d.actionTimeout)
	return e.Context(ctx), cancel, nil
}

func (d *RodDriver) ScrollTo(ctx context.Context, y int) error {
	ctx, cancel := withTimeout(ctx, d.actionTimeout)
	defer cancel()
	_, err := d.page.Context(ctx).Eval(`y => window.scrollTo(0, y)`, y)
	return err
}

func (d *RodDriver) ScrollIntoView(ctx context.Context, el repository.Element) error {
	e, cancel, err := d.element(ctx, el)
	if err != nil {
		return err
	}
	defer cancel()
	return e.ScrollIntoView()
}

func (d *RodDriver) Click(ctx context.Context, el repository.Element) error {
	e, cancel, err := d.element(ctx, el)
	if err != nil {
		return err
	}
	defer cancel()
	return e.Click(proto.InputMouseButtonLeft, 1)
}

func (d *RodDriver) Text(ctx context.Context, el repository.Element) (string, error) {
	e, cancel, err := d.element(ctx, el)
	if err != nil {
		return "", err
	}
	defer cancel()
	return e.Text()
}

func (d *RodDriver) Attribute(ctx context.Context, el repository.Element, name string) (string, bool, error) {
	e, cancel, err := d.element(ctx, el)
	if err != nil {
		return "", false, err
	}
	defer cancel()

	value, err := e.Attribute(name)
	if err != nil {
		return "", false, err
	}
	if value == nil {
		return "", false, nil
	}
	info, err := d.page.Info()
	if err != nil {
		return *value, true, nil
	}
	return utils.ResolveAttribute(info.URL, name, *value), true, nil
}

// Close closes the browser and removes its temporary profile.
func (d *RodDriver) Close() error {
	d.closeOnce.Do(func() {
		d.closeErr = d.browser.Close()
		d.launcher.Kill()
		d.launcher.Cleanup()
		slog.Info("Browser closed", "engine", "rod")
	})
	return d.closeErr
}
