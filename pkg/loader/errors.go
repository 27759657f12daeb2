// ABOUTME: Loader error types
// ABOUTME: LoadError ties a failure to its asset
package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownAsset is returned when an asset ID resolves to nothing
	ErrUnknownAsset = errors.New("unknown asset")

	// ErrLoadFailed stands in for failures that carry no cause
	ErrLoadFailed = errors.New("asset load failed")
)

// LoadError reports which asset stopped a gate
type LoadError struct {
	AssetID string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load asset %q: %v", e.AssetID, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
