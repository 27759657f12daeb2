// ABOUTME: Sentinel errors for the voice pool
// ABOUTME: Wrapped with context by pool operations
package voice

import "errors"

var (
	// ErrPoolExhausted is returned by Play when every slot is in use
	ErrPoolExhausted = errors.New("no available sources in pool")

	// ErrInvalidHandle is returned by mutators given a stale or unknown handle
	ErrInvalidHandle = errors.New("play handle is invalid")

	// ErrUnloadedAsset is returned by Play when the descriptor has no clip
	ErrUnloadedAsset = errors.New("trying to play an unloaded clip")

	// ErrInvalidConfig is returned by NewPool for unusable settings
	ErrInvalidConfig = errors.New("invalid voice pool config")
)
