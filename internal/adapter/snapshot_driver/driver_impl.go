package snapshot_driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/user/storefront-harvester/internal/entity"
	"github.com/user/storefront-harvester/internal/repository"
	"github.com/user/storefront-harvester/pkg/utils"
	"golang.org/x/net/html"
)

// ErrStaleElement is returned for elements read from a page that has since
// been replaced.
var ErrStaleElement = errors.New("element belongs to a previous page")

type element struct {
	node *html.Node
	gen  int
}

// SnapshotDriver replays recorded HTML pages through the Driver contract.
// Each URL maps to an ordered list of pages. Clicking a button or link moves
// to the next recorded page; clicking anything else removes it, the way a
// dismissed overlay disappears. Scrolling does nothing.
type SnapshotDriver struct {
	mu    sync.Mutex
	pages map[string][]string

	location string
	sequence []string
	index    int
	doc      *goquery.Document
	gen      int

	selectors map[string]cascadia.Selector
	closed    bool
}

var _ repository.Driver = (*SnapshotDriver)(nil)

// NewSnapshotDriver creates a driver over pages, keyed by URL.
func NewSnapshotDriver(pages map[string][]string) *SnapshotDriver {
	return &SnapshotDriver{
		pages:     pages,
		selectors: make(map[string]cascadia.Selector),
	}
}

func (d *SnapshotDriver) load(i int) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(d.sequence[i]))
	if err != nil {
		return fmt.Errorf("failed to parse page %d of %s: %w", i+1, d.location, err)
	}
	d.doc = doc
	d.index = i
	d.gen++
	return nil
}

func (d *SnapshotDriver) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return repository.ErrDriverClosed
	}

	seq, ok := d.pages[url]
	if !ok || len(seq) == 0 {
		return fmt.Errorf("%w: %s", repository.ErrUnknownPage, url)
	}
	d.location = url
	d.sequence = seq
	return d.load(0)
}

func (d *SnapshotDriver) compile(loc entity.Locator) (cascadia.Selector, error) {
	if loc.Strategy != entity.ByCSS && loc.Strategy != "" {
		return nil, fmt.Errorf("%w: %s", repository.ErrUnsupportedLocator, loc.Strategy)
	}
	if sel, ok := d.selectors[loc.Value]; ok {
		return sel, nil
	}
	sel, err := cascadia.Compile(loc.Value)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", loc.Value, err)
	}
	d.selectors[loc.Value] = sel
	return sel, nil
}

func (d *SnapshotDriver) match(ctx context.Context, loc entity.Locator) ([]*html.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if d.closed {
		return nil, repository.ErrDriverClosed
	}
	sel, err := d.compile(loc)
	if err != nil {
		return nil, err
	}
	if d.doc == nil {
		return nil, nil
	}
	return d.doc.FindMatcher(sel).Nodes, nil
}

func (d *SnapshotDriver) FindElement(ctx context.Context, loc entity.Locator) (repository.Lookup, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	nodes, err := d.match(ctx, loc)
	if err != nil {
		return repository.NotFound, err
	}
	if len(nodes) == 0 {
		return repository.NotFound, nil
	}
	return repository.Lookup{Element: element{node: nodes[0], gen: d.gen}, Found: true}, nil
}

func (d *SnapshotDriver) FindElements(ctx context.Context, loc entity.Locator) ([]repository.Element, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	nodes, err := d.match(ctx, loc)
	if err != nil {
		return nil, err
	}
	out := make([]repository.Element, len(nodes))
	for i, n := range nodes {
		out[i] = element{node: n, gen: d.gen}
	}
	return out, nil
}

// resolve checks that el is a live node of the current page.
func (d *SnapshotDriver) resolve(ctx context.Context, el repository.Element) (*goquery.Selection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if d.closed {
		return nil, repository.ErrDriverClosed
	}
	e, ok := el.(element)
	if !ok || e.node == nil {
		return nil, repository.ErrForeignElement
	}
	if e.gen != d.gen {
		return nil, ErrStaleElement
	}
	sel := d.doc.FindNodes(e.node)
	if sel.Length() == 0 {
		return nil, ErrStaleElement
	}
	return sel, nil
}

func (d *SnapshotDriver) ScrollTo(ctx context.Context, y int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return repository.ErrDriverClosed
	}
	return ctx.Err()
}

func (d *SnapshotDriver) ScrollIntoView(ctx context.Context, el repository.Element) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.resolve(ctx, el)
	return err
}

func (d *SnapshotDriver) Click(ctx context.Context, el repository.Element) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	sel, err := d.resolve(ctx, el)
	if err != nil {
		return err
	}
	switch goquery.NodeName(sel) {
	case "button", "a":
		if d.index+1 >= len(d.sequence) {
			slog.Debug("No further recorded page", "url", d.location, "page", d.index+1)
			return nil
		}
		return d.load(d.index + 1)
	default:
		sel.Remove()
		return nil
	}
}

func (d *SnapshotDriver) Text(ctx context.Context, el repository.Element) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	sel, err := d.resolve(ctx, el)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(sel.Text()), nil
}

func (d *SnapshotDriver) Attribute(ctx context.Context, el repository.Element, name string) (string, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	sel, err := d.resolve(ctx, el)
	if err != nil {
		return "", false, err
	}
	value, ok := sel.Attr(name)
	if !ok {
		return "", false, nil
	}
	return utils.ResolveAttribute(d.location, name, value), true, nil
}

// Close releases the parsed pages. It is safe to call more than once.
func (d *SnapshotDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.doc = nil
	return nil
}
