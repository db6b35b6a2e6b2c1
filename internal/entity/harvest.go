package entity

import "time"

// HarvestedRecord is one text field (comment body or listing URL) read from
// one DOM element during one pagination iteration.
type HarvestedRecord string

// StopReason records why a pagination loop ended.
type StopReason string

const (
	// StopExhausted means the iteration cap was reached.
	StopExhausted StopReason = "exhausted"
	// StopNoNextControl means the "next page" control was not found.
	StopNoNextControl StopReason = "no_next_control"
	// StopCanceled means the run context ended mid-loop.
	StopCanceled StopReason = "canceled"
	// StopNavigationFailed means the seed page could not be opened.
	StopNavigationFailed StopReason = "navigation_failed"
	// StopSkipped means the seed was harvested recently and was not revisited.
	StopSkipped StopReason = "skipped"
)

// BatchResult holds every record harvested from one seed target, in harvest
// order. Duplicates are kept; deduplication happens at consolidation.
type BatchResult struct {
	Seed       SeedTarget
	Profile    string
	Records    []HarvestedRecord
	Pages      int
	Stop       StopReason
	Err        string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Texts returns the records as plain strings.
func (b BatchResult) Texts() []string {
	out := make([]string, len(b.Records))
	for i, r := range b.Records {
		out[i] = string(r)
	}
	return out
}

// Succeeded reports whether the batch ran its pagination loop to a natural end.
func (b BatchResult) Succeeded() bool {
	return b.Stop == StopExhausted || b.Stop == StopNoNextControl
}
