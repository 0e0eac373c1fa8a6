package catalog

import "errors"

var (
	// ErrSourceNotFound is returned by a Source whose backing object does not exist.
	ErrSourceNotFound = errors.New("catalog: source not found")
	// ErrEmptyCatalog is returned when a source holds no usable rows.
	ErrEmptyCatalog = errors.New("catalog: no entries")
)
