// ABOUTME: Version and product identification
// ABOUTME: Version is overridden at build time with -ldflags "-X .../internal/version.Version=..."
package version

// Version is the release version
var Version = "0.1.0"

const (
	// Product is the product name shown by the CLI
	Product = "voicepool"

	// Manufacturer identifies the publisher
	Manufacturer = "Resonate"
)
