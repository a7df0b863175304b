package transfer

import "errors"

// Run failure kinds. Every kind is terminal for the run; nothing is
// retried. Errors produced by this package wrap one of these
// sentinels, so callers classify with errors.Is.
var (
	ErrChannelCreation = errors.New("failed to create a pipe")
	ErrSpawn           = errors.New("failed to spawn the consumer")
	ErrWrite           = errors.New("failed to write to pipe")
	ErrRead            = errors.New("failed to read from pipe")
	ErrJoin            = errors.New("failed to join the consumer")
)
