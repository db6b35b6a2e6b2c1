package chromedp_driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/user/storefront-harvester/internal/entity"
	"github.com/user/storefront-harvester/internal/repository"
	"github.com/user/storefront-harvester/pkg/utils"
)

const readyStatePoll = 100 * time.Millisecond

// Options configures the browser process. They only affect startup.
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
	ExecPath           string

	PageLoadTimeout time.Duration
	ActionTimeout   time.Duration
}

// ChromedpDriver implements repository.Driver on a single chromedp tab.
type ChromedpDriver struct {
	tabCtx      context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc

	pageLoadTimeout time.Duration
	actionTimeout   time.Duration

	closeOnce sync.Once
	closeErr  error
}

var _ repository.Driver = (*ChromedpDriver)(nil)

// allocatorOptions maps Options onto chrome command line flags.
func allocatorOptions(opts Options) []chromedp.ExecAllocatorOption {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", opts.DisableGPU),
		chromedp.Flag("no-sandbox", opts.NoSandbox),
		chromedp.Flag("disable-dev-shm-usage", opts.DisableDevShm),
		chromedp.Flag("disable-extensions", opts.DisableExtensions),
		chromedp.Flag("dns-prefetch-disable", opts.DisableDNSPrefetch),
	)
	if opts.WindowWidth > 0 && opts.WindowHeight > 0 {
		allocOpts = append(allocOpts, chromedp.WindowSize(opts.WindowWidth, opts.WindowHeight))
	}
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}
	return allocOpts
}

// NewChromedpDriver starts a browser and opens one tab. The browser lives
// until Close, independent of ctx.
func NewChromedpDriver(ctx context.Context, opts Options) (*ChromedpDriver, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), allocatorOptions(opts)...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, args ...any) {
		slog.Debug(fmt.Sprintf(format, args...))
	}))

	d := &ChromedpDriver{
		tabCtx:          tabCtx,
		cancelTab:       cancelTab,
		cancelAlloc:     cancelAlloc,
		pageLoadTimeout: opts.PageLoadTimeout,
		actionTimeout:   opts.ActionTimeout,
	}

	// The first Run launches the browser.
	startCtx, cancel := d.bound(ctx, d.pageLoadTimeout)
	defer cancel()
	if err := chromedp.Run(startCtx); err != nil {
		d.Close()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	slog.Info("Browser started", "engine", "chromedp", "headless", opts.Headless)
	return d, nil
}

// bound derives a context from the tab that also ends when parent does.
func (d *ChromedpDriver) bound(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(d.tabCtx, timeout)
	} else {
		ctx, cancel = context.WithCancel(d.tabCtx)
	}
	stop := context.AfterFunc(parent, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (d *ChromedpDriver) run(parent context.Context, actions ...chromedp.Action) error {
	ctx, cancel := d.bound(parent, d.actionTimeout)
	defer cancel()
	return chromedp.Run(ctx, actions...)
}

// Navigate opens url and returns once document.readyState leaves "loading".
func (d *ChromedpDriver) Navigate(parent context.Context, url string) error {
	ctx, cancel := d.bound(parent, d.pageLoadTimeout)
	defer cancel()

	err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		_, _, errorText, err := page.Navigate(url).Do(ctx)
		if err != nil {
			return err
		}
		if errorText != "" {
			return fmt.Errorf("page load error %s", errorText)
		}
		return nil
	}))
	if err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}

	for {
		var state string
		if err := chromedp.Run(ctx, chromedp.Evaluate(`document.readyState`, &state)); err == nil && state != "loading" {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("document at %s never became interactive: %w", url, ctx.Err())
		case <-time.After(readyStatePoll):
		}
	}
}

func queryOptions(loc entity.Locator) ([]chromedp.QueryOption, error) {
	switch loc.Strategy {
	case entity.ByCSS, "":
		return []chromedp.QueryOption{chromedp.ByQueryAll, chromedp.AtLeast(0)}, nil
	case entity.ByXPath:
		return []chromedp.QueryOption{chromedp.BySearch, chromedp.AtLeast(0)}, nil
	default:
		return nil, fmt.Errorf("%w: %s", repository.ErrUnsupportedLocator, loc.Strategy)
	}
}

func (d *ChromedpDriver) nodes(ctx context.Context, loc entity.Locator) ([]*cdp.Node, error) {
	opts, err := queryOptions(loc)
	if err != nil {
		return nil, err
	}
	var nodes []*cdp.Node
	if err := d.run(ctx, chromedp.Nodes(loc.Value, &nodes, opts...)); err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", loc, err)
	}
	return nodes, nil
}

// FindElement returns the first node matching loc.
func (d *ChromedpDriver) FindElement(ctx context.Context, loc entity.Locator) (repository.Lookup, error) {
	nodes, err := d.nodes(ctx, loc)
	if err != nil {
		return repository.NotFound, err
	}
	if len(nodes) == 0 {
		return repository.NotFound, nil
	}
	return repository.Lookup{Element: nodes[0], Found: true}, nil
}

// FindElements returns every node matching loc in document order.
func (d *ChromedpDriver) FindElements(ctx context.Context, loc entity.Locator) ([]repository.Element, error) {
	nodes, err := d.nodes(ctx, loc)
	if err != nil {
		return nil, err
	}
	out := make([]repository.Element, len(nodes))
	for i, n := range nodes {
		out[i] = n
	}
	return out, nil
}

func node(el repository.Element) (*cdp.Node, error) {
	n, ok := el.(*cdp.Node)
	if !ok || n == nil {
		return nil, repository.ErrForeignElement
	}
	return n, nil
}

func (d *ChromedpDriver) ScrollTo(ctx context.Context, y int) error {
	return d.run(ctx, chromedp.Evaluate(fmt.Sprintf("window.scrollTo(0, %d)", y), nil))
}

func (d *ChromedpDriver) ScrollIntoView(ctx context.Context, el repository.Element) error {
	n, err := node(el)
	if err != nil {
		return err
	}
	return d.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return dom.ScrollIntoViewIfNeeded().WithNodeID(n.NodeID).Do(ctx)
	}))
}

func (d *ChromedpDriver) Click(ctx context.Context, el repository.Element) error {
	n, err := node(el)
	if err != nil {
		return err
	}
	return d.run(ctx, chromedp.MouseClickNode(n))
}

func (d *ChromedpDriver) Text(ctx context.Context, el repository.Element) (string, error) {
	n, err := node(el)
	if err != nil {
		return "", err
	}
	var text string
	if err := d.run(ctx, chromedp.Text([]cdp.NodeID{n.NodeID}, &text, chromedp.ByNodeID)); err != nil {
		return "", err
	}
	return text, nil
}

// Attribute reads the attribute captured with the node. href and src are
// resolved against the current location.
func (d *ChromedpDriver) Attribute(ctx context.Context, el repository.Element, name string) (string, bool, error) {
	n, err := node(el)
	if err != nil {
		return "", false, err
	}
	value, ok := n.Attribute(name)
	if !ok {
		return "", false, nil
	}
	var location string
	if err := d.run(ctx, chromedp.Location(&location)); err != nil {
		return value, true, nil
	}
	return utils.ResolveAttribute(location, name, value), true, nil
}

// Close shuts down the tab and the browser process.
func (d *ChromedpDriver) Close() error {
	d.closeOnce.Do(func() {
		if err := chromedp.Cancel(d.tabCtx); err != nil && !errors.Is(err, context.Canceled) {
			d.closeErr = err
		}
		d.cancelTab()
		d.cancelAlloc()
		slog.Info("Browser closed", "engine", "chromedp")
	})
	return d.closeErr
}
