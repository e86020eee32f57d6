package hook

import "github.com/rs/zerolog"

// Option configures a Table or Registry.
type Option func(*config)

// config contains the shared configuration of tables and registries.
type config struct {
	// logger receives debug events about level and iteration changes.
	logger zerolog.Logger
}

// defaultConfig returns a configuration that logs nothing.
func defaultConfig() config {
	return config{logger: zerolog.Nop()}
}

// WithLogger sets the logger used for debug events.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

func buildConfig(opts []Option) config {
	c := defaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
