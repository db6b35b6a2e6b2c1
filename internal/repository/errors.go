package repository

import "errors"

var (
	// ErrSourceNotFound is returned when a batch file does not exist.
	ErrSourceNotFound = errors.New("source file not found")
	// ErrEmptySource is returned when a batch file has no columns to parse.
	ErrEmptySource = errors.New("source file is empty")
	// ErrColumnNotFound is returned when a required column is missing.
	ErrColumnNotFound = errors.New("column not found")
	// ErrUnsupportedLocator is returned by drivers that cannot evaluate a
	// locator strategy.
	ErrUnsupportedLocator = errors.New("unsupported locator strategy")
	// ErrForeignElement is returned when an element from another driver is
	// passed in.
	ErrForeignElement = errors.New("element does not belong to this driver")
	// ErrUnknownPage is returned by the snapshot driver for unrecorded URLs.
	ErrUnknownPage = errors.New("no recorded page for url")
	// ErrDriverClosed is returned after Close.
	ErrDriverClosed = errors.New("driver is closed")
)
