package config

import "errors"

var (
	ErrMissingCredentials  = errors.New("missing credentials")
	ErrContradictoryConfig = errors.New("contradictory configuration")
	ErrUnknownProvider     = errors.New("unknown llm provider")
)
