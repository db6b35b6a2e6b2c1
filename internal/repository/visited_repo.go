package repository

import (
	"context"
	"time"
)

// VisitedRepository defines the interface for remembering which seeds were
// harvested recently.
type VisitedRepository interface {
	// MarkVisited marks a seed as harvested with a specific expiry time.
	MarkVisited(ctx context.Context, seed string, expiry time.Duration) error
	// IsVisited checks if a seed has been harvested recently.
	IsVisited(ctx context.Context, seed string) (bool, error)
	// RemoveVisited forgets a seed so the next run revisits it.
	RemoveVisited(ctx context.Context, seed string) error
}
