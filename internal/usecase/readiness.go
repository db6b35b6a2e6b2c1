package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/user/storefront-harvester/internal/entity"
	"github.com/user/storefront-harvester/internal/repository"
)

const defaultPollInterval = 250 * time.Millisecond

// Settle waits for the elements at loc to appear and stop multiplying.
// It returns once the match count is non-zero and unchanged across two
// consecutive polls, or when policy.Timeout elapses, whichever comes first.
// A zero loc turns it into a plain bounded wait.
// The returned count is the last one observed. Only context cancellation is
// reported as an error.
func Settle(ctx context.Context, driver repository.Driver, loc entity.Locator, policy entity.SettlePolicy) (int, error) {
	if policy.Timeout <= 0 {
		if loc.IsZero() {
			return 0, ctx.Err()
		}
		return countMatches(ctx, driver, loc), ctx.Err()
	}

	deadline := time.NewTimer(policy.Timeout)
	defer deadline.Stop()

	if loc.IsZero() {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-deadline.C:
			return 0, nil
		}
	}

	interval := policy.Interval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	prev := -1
	for {
		count := countMatches(ctx, driver, loc)
		if count > 0 && count == prev {
			return count, nil
		}
		prev = count

		select {
		case <-ctx.Done():
			return count, ctx.Err()
		case <-deadline.C:
			slog.Debug("Settle bound reached", "locator", loc.String(), "count", count)
			return count, nil
		case <-ticker.C:
		}
	}
}

func countMatches(ctx context.Context, driver repository.Driver, loc entity.Locator) int {
	elems, err := driver.FindElements(ctx, loc)
	if err != nil {
		slog.Debug("Readiness poll failed", "locator", loc.String(), "error", err)
		return 0
	}
	return len(elems)
}
