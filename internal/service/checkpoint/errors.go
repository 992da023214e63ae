package checkpoint

import "errors"

var (
	ErrNoCheckpoint       = errors.New("no checkpoint found")
	ErrIncompatibleSchema = errors.New("incompatible checkpoint schema")
	ErrUnpaired           = errors.New("checkpoint halves do not belong together")
)
