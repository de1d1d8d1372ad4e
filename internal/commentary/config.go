package commentary

import "time"

// Config holds commentary generation settings.
type Config struct {
	Enabled     bool
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// DefaultConfig returns defaults for commentary generation. Temperature
// is zero so repeated submissions of the same answers read alike.
func DefaultConfig() Config {
	return Config{
		Enabled:     true,
		MaxTokens:   1024,
		Temperature: 0,
		Timeout:     20 * time.Second,
	}
}
