package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/user/storefront-harvester/internal/entity"
	"github.com/user/storefront-harvester/internal/repository"
	"github.com/user/storefront-harvester/pkg/metrics"
)

// PaginationExtractor walks a paginated page, harvesting one field from every
// element matching the profile's content locator on each page.
type PaginationExtractor struct {
	driver  repository.Driver
	guard   *InteractionGuard
	profile entity.PageProfile
}

// NewPaginationExtractor creates an extractor that drives driver with profile.
func NewPaginationExtractor(driver repository.Driver, profile entity.PageProfile) *PaginationExtractor {
	return &PaginationExtractor{
		driver:  driver,
		guard:   NewInteractionGuard(driver),
		profile: profile,
	}
}

// Extract harvests the page the driver is on, following the "next" control
// until it disappears or MaxPages pages have been read. UI failures inside an
// iteration are absorbed; only context cancellation ends the loop early, and
// the records gathered so far are still returned.
func (e *PaginationExtractor) Extract(ctx context.Context, seed entity.SeedTarget) entity.BatchResult {
	p := e.profile
	result := entity.BatchResult{
		Seed:      seed,
		Profile:   p.Name,
		Records:   []entity.HarvestedRecord{},
		StartedAt: time.Now(),
	}

	result.Stop = entity.StopExhausted
	for page := 0; page < p.MaxPages; page++ {
		if ctx.Err() != nil {
			result.Stop = entity.StopCanceled
			break
		}

		e.guard.Dismiss(ctx, p.PromoOverlay)
		e.guard.Dismiss(ctx, p.CloseOverlay)

		if err := e.driver.ScrollTo(ctx, p.ScrollY); err != nil {
			slog.Debug("Scroll failed", "seed", seed, "page", page+1, "error", err)
		}
		if _, err := Settle(ctx, e.driver, p.Content, p.Settle); err != nil {
			result.Stop = entity.StopCanceled
			break
		}

		records := e.harvest(ctx)
		result.Records = append(result.Records, records...)
		result.Pages++
		metrics.PagesHarvested.WithLabelValues(p.Name).Inc()
		metrics.RecordsHarvested.WithLabelValues(p.Name).Add(float64(len(records)))
		slog.Debug("Page harvested", "seed", seed, "page", page+1, "records", len(records))

		e.guard.Dismiss(ctx, p.PromoOverlay)

		if !e.advance(ctx) {
			result.Stop = entity.StopNoNextControl
			break
		}
	}
	if result.Stop == entity.StopCanceled {
		slog.Warn("Extraction canceled", "seed", seed, "pages", result.Pages)
	}

	result.FinishedAt = time.Now()
	return result
}

// harvest reads the profile field from every content element in DOM order.
func (e *PaginationExtractor) harvest(ctx context.Context) []entity.HarvestedRecord {
	elems, err := e.driver.FindElements(ctx, e.profile.Content)
	if err != nil {
		slog.Debug("Content lookup failed", "locator", e.profile.Content.String(), "error", err)
		return nil
	}

	records := make([]entity.HarvestedRecord, 0, len(elems))
	for _, el := range elems {
		switch e.profile.Field {
		case entity.FieldAttribute:
			value, ok, err := e.driver.Attribute(ctx, el, e.profile.Attribute)
			if err != nil || !ok {
				continue
			}
			records = append(records, entity.HarvestedRecord(value))
		default:
			text, err := e.driver.Text(ctx, el)
			if err != nil {
				slog.Debug("Text read failed", "error", err)
				continue
			}
			records = append(records, entity.HarvestedRecord(text))
		}
	}
	return records
}

// advance clicks the "next" control. It returns false only when the control
// cannot be located, which marks the last page.
func (e *PaginationExtractor) advance(ctx context.Context) bool {
	lookup, err := e.driver.FindElement(ctx, e.profile.Next)
	if err != nil || !lookup.Found {
		return false
	}
	if err := e.driver.ScrollIntoView(ctx, lookup.Element); err != nil {
		slog.Debug("Scroll to next control failed", "error", err)
	}
	if err := e.driver.Click(ctx, lookup.Element); err != nil {
		slog.Debug("Next control click failed", "error", err)
	}
	return true
}
