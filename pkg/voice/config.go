// ABOUTME: Pool configuration and validation
// ABOUTME: Defaults match a 128 voice pool that starts immediately
package voice

import "fmt"

// DefaultPoolSize is the number of slots used when no size is configured
const DefaultPoolSize = 128

// Config holds the settings read once when a pool is created
type Config struct {
	// SourcePoolSize is the fixed number of voices
	SourcePoolSize int `mapstructure:"sourcePoolSize" yaml:"sourcePoolSize"`

	// AutoInitialize starts the owning engine as soon as it is constructed
	AutoInitialize bool `mapstructure:"autoInitialize" yaml:"autoInitialize"`
}

// DefaultConfig returns a 128 voice, auto-initialising configuration
func DefaultConfig() Config {
	return Config{
		SourcePoolSize: DefaultPoolSize,
		AutoInitialize: true,
	}
}

// Validate checks the configuration
func (c Config) Validate() error {
	if c.SourcePoolSize <= 0 {
		return fmt.Errorf("%w: sourcePoolSize must be positive, got %d", ErrInvalidConfig, c.SourcePoolSize)
	}
	return nil
}
