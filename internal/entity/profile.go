package entity

import "time"

// FieldKind selects how a harvested element is turned into a record.
type FieldKind string

const (
	FieldText      FieldKind = "text"
	FieldAttribute FieldKind = "attribute"
)

// SettlePolicy bounds a readiness wait. Interval is the poll period and
// Timeout the hard upper bound.
type SettlePolicy struct {
	Interval time.Duration
	Timeout  time.Duration
}

// PageProfile bundles the fixed locators and limits of one crawl mode.
// Selectors are brittle by nature and match one storefront layout.
type PageProfile struct {
	Name string

	// PromoOverlay is the QR/promo prompt dismissed before harvesting and
	// again before each pagination click.
	PromoOverlay Locator
	// CloseOverlay is the "close" glyph dismissed once per iteration.
	CloseOverlay Locator

	Content   Locator
	Field     FieldKind
	Attribute string

	Next Locator

	MaxPages int
	ScrollY  int
	Settle   SettlePolicy
}

const (
	defaultScrollY       = 1200
	defaultContentSettle = 3 * time.Second
	defaultPollInterval  = 250 * time.Millisecond
)

var (
	promoOverlay = CSS("body > div:nth-of-type(9) > div:nth-of-type(2) > div")
	closeOverlay = CSS("body > div:nth-of-type(8) > div > div:nth-of-type(2) > div > span > i")
)

// CommentProfile harvests buyer comment bodies from a product page's review
// module.
func CommentProfile() PageProfile {
	return PageProfile{
		Name:         "comments",
		PromoOverlay: promoOverlay,
		CloseOverlay: closeOverlay,
		Content:      CSS(".item-content .content"),
		Field:        FieldText,
		Next: CSS("#module_product_review > div > div > div:nth-of-type(3) > " +
			"div:nth-of-type(2) > div > button:nth-of-type(2)"),
		MaxPages: 2,
		ScrollY:  defaultScrollY,
		Settle:   SettlePolicy{Interval: defaultPollInterval, Timeout: defaultContentSettle},
	}
}

// ListingProfile harvests product links from a search listing.
func ListingProfile() PageProfile {
	return PageProfile{
		Name:         "listings",
		PromoOverlay: promoOverlay,
		CloseOverlay: closeOverlay,
		Content:      CSS(".Bm3ON .Ms6aG.MefHh .qmXQo .ICdUp ._95X4G [href]"),
		Field:        FieldAttribute,
		Attribute:    "href",
		Next: CSS("#root > div > div:nth-of-type(2) > div:nth-of-type(1) > div > " +
			"div:nth-of-type(1) > div:nth-of-type(3) > div > ul > li:nth-of-type(11) > button"),
		MaxPages: 49,
		ScrollY:  defaultScrollY,
		Settle:   SettlePolicy{Interval: defaultPollInterval, Timeout: defaultContentSettle},
	}
}
