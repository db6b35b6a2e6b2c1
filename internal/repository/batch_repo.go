package repository

import (
	"context"

	"github.com/user/storefront-harvester/internal/entity"
)

// BatchSink defines the interface for persisting the batch results of a run.
type BatchSink interface {
	// Name identifies the sink in logs.
	Name() string
	// Save persists results. Implementations must not reorder records.
	Save(ctx context.Context, results []entity.BatchResult) error
}
