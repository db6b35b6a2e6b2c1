package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/user/storefront-harvester/internal/entity"
)

// spinnerObserver shows the seed being harvested on a terminal spinner.
type spinnerObserver struct {
	s *spinner.Spinner
}

func newSpinnerObserver(w io.Writer) *spinnerObserver {
	return &spinnerObserver{
		s: spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(w)),
	}
}

func (o *spinnerObserver) BatchStarted(index, total int, seed entity.SeedTarget) {
	o.s.Lock()
	o.s.Suffix = fmt.Sprintf(" [%d/%d] %s", index+1, total, formatSeed(seed))
	o.s.Unlock()
	o.s.Start()
}

func (o *spinnerObserver) BatchFinished(index, total int, result entity.BatchResult) {
	o.s.Stop()
}

// formatSeed shortens long seeds to fit one terminal line.
func formatSeed(seed entity.SeedTarget) string {
	const max = 60
	s := seed.String()
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
