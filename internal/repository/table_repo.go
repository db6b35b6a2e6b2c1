package repository

import "github.com/user/storefront-harvester/internal/entity"

// TableReader defines the interface for loading a delimited batch file.
type TableReader interface {
	// ReadTable loads path. It returns ErrSourceNotFound for a missing file
	// and ErrEmptySource for a file without a header.
	ReadTable(path string) (*entity.Table, error)
}

// LineAppender defines the interface for the consolidation output file.
type LineAppender interface {
	// AppendLines opens path for append, writes one line per item and closes
	// it. It returns the number of lines written before any failure.
	AppendLines(path string, lines []string) (int, error)
}
