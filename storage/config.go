package storage

// Config holds configuration for the DynamoDB store.
type Config struct {
	// TablePrefix is prepended to collection names to form table names.
	// Default: "quill_"
	TablePrefix string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{TablePrefix: "quill_"}
}

// validate ensures config values are usable.
func (c *Config) validate() {
	if c.TablePrefix == "" {
		c.TablePrefix = "quill_"
	}
}
