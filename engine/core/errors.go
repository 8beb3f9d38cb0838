package core

import (
	"errors"
)

var (
	// ErrEffectCompileFailed is returned when no fallback in an effect's
	// degrade chain produced a compilable variant.
	ErrEffectCompileFailed = errors.New("effect compilation failed, fallback chain exhausted")
	// ErrInvalidPluginConfig is returned when a material plugin is attached
	// with a missing required callback.
	ErrInvalidPluginConfig = errors.New("material plugin configuration invalid")
	// ErrStoreClosed is returned from shader store operations after Shutdown.
	ErrStoreClosed = errors.New("shader store already closed")
)
