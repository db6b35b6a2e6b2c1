package snapshot_driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/user/storefront-harvester/internal/entity"
	"github.com/user/storefront-harvester/internal/repository"
	"github.com/user/storefront-harvester/internal/usecase"
	"github.com/user/storefront-harvester/pkg/metrics"
)

func TestMain(m *testing.M) {
	metrics.Init()
	os.Exit(m.Run())
}

const (
	productURL = "https://www.lazada.vn/products/shoe-i1.html"
	listingURL = "https://www.lazada.vn/catalog/?q=giay"
)

// overlays renders body divs 2..9 so that the close glyph sits in div 8 and
// the promo prompt in div 9.
func overlays(promo, glyph bool) string {
	var b strings.Builder
	for i := 2; i <= 7; i++ {
		b.WriteString("<div></div>")
	}
	if glyph {
		b.WriteString(`<div><div><div></div><div><div><span><i>x</i></span></div></div></div></div>`)
	} else {
		b.WriteString("<div></div>")
	}
	if promo {
		b.WriteString(`<div><div></div><div><div class="qr">Scan to get the app</div></div></div>`)
	} else {
		b.WriteString("<div></div>")
	}
	return b.String()
}

func commentPage(next, promo bool, comments ...string) string {
	var items strings.Builder
	for _, c := range comments {
		fmt.Fprintf(&items, `<div class="item-content"><div class="content"> %s </div></div>`, c)
	}
	nextButton := ""
	if next {
		nextButton = "<button>next</button>"
	}
	return `<html><body>` +
		`<div id="module_product_review"><div><div>` +
		`<div>` + items.String() + `</div><div></div>` +
		`<div><div></div><div><div><button>prev</button>` + nextButton + `</div></div></div>` +
		`</div></div></div>` +
		overlays(promo, promo) +
		`</body></html>`
}

func listingPage(next bool, hrefs ...string) string {
	var links strings.Builder
	for _, h := range hrefs {
		fmt.Fprintf(&links, `<div class="ICdUp"><div class="_95X4G"><a href="%s">item</a></div></div>`, h)
	}
	var lis strings.Builder
	for i := 1; i <= 11; i++ {
		if i == 11 && next {
			lis.WriteString("<li><button>&gt;</button></li>")
			continue
		}
		fmt.Fprintf(&lis, "<li>%d</li>", i)
	}
	return `<html><body><div id="root"><div>` +
		`<div class="Bm3ON"><div class="Ms6aG MefHh"><div class="qmXQo">` + links.String() + `</div></div></div>` +
		`<div><div><div><div><div></div><div></div><div><div><ul>` + lis.String() + `</ul></div></div></div></div></div></div>` +
		`</div></div>` + overlays(false, false) + `</body></html>`
}

func fastProfile(p entity.PageProfile) entity.PageProfile {
	p.Settle = entity.SettlePolicy{Interval: time.Millisecond, Timeout: 10 * time.Millisecond}
	return p
}

func TestSnapshotDriverLookups(t *testing.T) {
	ctx := context.Background()
	d := NewSnapshotDriver(map[string][]string{productURL: {commentPage(true, true, "good", "bad")}})
	require.NoError(t, d.Navigate(ctx, productURL))

	profile := entity.CommentProfile()
	elems, err := d.FindElements(ctx, profile.Content)
	require.NoError(t, err)
	require.Len(t, elems, 2)

	text, err := d.Text(ctx, elems[0])
	require.NoError(t, err)
	require.Equal(t, "good", text)

	lookup, err := d.FindElement(ctx, entity.CSS(".missing"))
	require.NoError(t, err)
	require.False(t, lookup.Found)

	_, err = d.FindElements(ctx, entity.XPath("//div"))
	require.ErrorIs(t, err, repository.ErrUnsupportedLocator)

	require.ErrorIs(t, d.Navigate(ctx, "https://unknown.example"), repository.ErrUnknownPage)
}

func TestSnapshotDriverClickSemantics(t *testing.T) {
	ctx := context.Background()
	profile := entity.CommentProfile()
	d := NewSnapshotDriver(map[string][]string{productURL: {
		commentPage(true, true, "one"),
		commentPage(false, false, "two"),
	}})
	require.NoError(t, d.Navigate(ctx, productURL))

	promo, err := d.FindElement(ctx, profile.PromoOverlay)
	require.NoError(t, err)
	require.True(t, promo.Found)
	require.NoError(t, d.Click(ctx, promo.Element))

	promo, err = d.FindElement(ctx, profile.PromoOverlay)
	require.NoError(t, err)
	require.False(t, promo.Found)

	first, err := d.FindElements(ctx, profile.Content)
	require.NoError(t, err)

	next, err := d.FindElement(ctx, profile.Next)
	require.NoError(t, err)
	require.True(t, next.Found)
	require.NoError(t, d.Click(ctx, next.Element))

	_, err = d.Text(ctx, first[0])
	require.ErrorIs(t, err, ErrStaleElement)

	next, err = d.FindElement(ctx, profile.Next)
	require.NoError(t, err)
	require.False(t, next.Found)
}

func TestSnapshotDriverResolvesHref(t *testing.T) {
	ctx := context.Background()
	d := NewSnapshotDriver(map[string][]string{listingURL: {listingPage(false, "//www.lazada.vn/products/a-i1.html")}})
	require.NoError(t, d.Navigate(ctx, listingURL))

	elems, err := d.FindElements(ctx, entity.ListingProfile().Content)
	require.NoError(t, err)
	require.Len(t, elems, 1)

	href, ok, err := d.Attribute(ctx, elems[0], "href")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "https://www.lazada.vn/products/a-i1.html", href)

	_, ok, err = d.Attribute(ctx, elems[0], "data-missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSnapshotDriverClose(t *testing.T) {
	d := NewSnapshotDriver(nil)
	require.NoError(t, d.Close())
	require.NoError(t, d.Close())
	_, err := d.FindElements(context.Background(), entity.CSS("div"))
	require.ErrorIs(t, err, repository.ErrDriverClosed)
}

func TestCommentExtractionOverSnapshots(t *testing.T) {
	pages := map[string][]string{productURL: {
		commentPage(true, true, "Giao hàng nhanh", "Đúng mô tả"),
		commentPage(true, true, "Đúng mô tả", "Sẽ ủng hộ"),
		commentPage(false, false, "never reached"),
	}}
	d := NewSnapshotDriver(pages)
	require.NoError(t, d.Navigate(context.Background(), productURL))

	result := usecase.NewPaginationExtractor(d, fastProfile(entity.CommentProfile())).Extract(context.Background(), productURL)

	require.Equal(t, entity.StopExhausted, result.Stop)
	require.Equal(t, 2, result.Pages)
	require.Equal(t, []string{"Giao hàng nhanh", "Đúng mô tả", "Đúng mô tả", "Sẽ ủng hộ"}, result.Texts())
}

func TestListingRunOverSnapshots(t *testing.T) {
	pages := map[string][]string{listingURL: {
		listingPage(true, "//www.lazada.vn/products/a-i1.html", "/products/b-i2.html"),
		listingPage(false, "//www.lazada.vn/products/c-i3.html"),
	}}
	var opened int
	open := func(ctx context.Context) (repository.Driver, error) {
		opened++
		return NewSnapshotDriver(pages), nil
	}

	o := usecase.NewBatchOrchestrator(open, usecase.OrchestratorConfig{
		Profile:          fastProfile(entity.ListingProfile()),
		MaxBatches:       1,
		NavigationSettle: 10 * time.Millisecond,
	})
	results, err := o.Run(context.Background(), []entity.SeedTarget{listingURL})
	require.NoError(t, err)
	require.Equal(t, 1, opened)
	require.Len(t, results, 1)
	require.Equal(t, entity.StopNoNextControl, results[0].Stop)
	require.Equal(t, []string{
		"https://www.lazada.vn/products/a-i1.html",
		"https://www.lazada.vn/products/b-i2.html",
		"https://www.lazada.vn/products/c-i3.html",
	}, results[0].Texts())
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "p1.html"), []byte("<p>1</p>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "p2.html"), []byte("<p>2</p>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestFile), []byte(`{"https://a.com": ["p1.html", "p2.html"]}`), 0o644))

	pages, err := LoadDir(dir)
	require.NoError(t, err)
	require.Equal(t, []string{"<p>1</p>", "<p>2</p>"}, pages["https://a.com"])

	_, err = LoadDir(t.TempDir())
	require.Error(t, err)
}
