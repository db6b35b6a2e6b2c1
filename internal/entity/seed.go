package entity

// SeedTarget is an absolute URL of a listing or product page visited at the
// start of one crawl batch.
type SeedTarget string

func (s SeedTarget) String() string {
	return string(s)
}
