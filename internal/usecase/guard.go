package usecase

import (
	"context"
	"log/slog"

	"github.com/user/storefront-harvester/internal/entity"
	"github.com/user/storefront-harvester/internal/repository"
	"github.com/user/storefront-harvester/pkg/metrics"
)

// InteractionGuard clears transient overlays (QR prompts, promo dialogs,
// close glyphs) that can block the controls underneath.
type InteractionGuard struct {
	driver repository.Driver
}

// NewInteractionGuard creates a guard bound to driver.
func NewInteractionGuard(driver repository.Driver) *InteractionGuard {
	return &InteractionGuard{driver: driver}
}

// Dismiss clicks the element at loc if it is present and reports whether the
// click went through. It never returns an error: an absent overlay is the
// common case.
func (g *InteractionGuard) Dismiss(ctx context.Context, loc entity.Locator) bool {
	if loc.IsZero() {
		return false
	}

	lookup, err := g.driver.FindElement(ctx, loc)
	if err != nil {
		slog.Debug("Overlay lookup failed", "locator", loc.String(), "error", err)
		metrics.OverlayDismissals.WithLabelValues("failed").Inc()
		return false
	}
	if !lookup.Found {
		metrics.OverlayDismissals.WithLabelValues("absent").Inc()
		return false
	}

	if err := g.driver.Click(ctx, lookup.Element); err != nil {
		slog.Debug("Overlay click failed", "locator", loc.String(), "error", err)
		metrics.OverlayDismissals.WithLabelValues("failed").Inc()
		return false
	}

	slog.Debug("Overlay dismissed", "locator", loc.String())
	metrics.OverlayDismissals.WithLabelValues("dismissed").Inc()
	return true
}
