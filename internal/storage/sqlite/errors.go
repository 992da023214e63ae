package sqlite

import "errors"

var (
	ErrCorruptIndex = errors.New("archival index is corrupt")
	ErrNoTable      = errors.New("database has no user tables")
)
