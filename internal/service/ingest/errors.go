package ingest

import "errors"

var (
	ErrNoSources   = errors.New("no archival source files matched")
	ErrEmptySource = errors.New("archival source produced no chunks")
)
