package profile

// Option replaces one parameter of a [Config].
type Option func(Config) Config

// With returns c with opts applied in order.
func (c Config) With(opts ...Option) Config {
	if c == nil {
		c = func() (string, string, bool) { return "", "", false }
	}

	for _, opt := range opts {
		c = opt(c)
	}

	return c
}

// WithMode selects the profile to record.
func WithMode(mode string) Option {
	return func(c Config) Config {
		_, dir, quiet := c()

		return func() (string, string, bool) { return mode, dir, quiet }
	}
}

// WithPath sets the directory profiles are written to.
func WithPath(dir string) Option {
	return func(c Config) Config {
		mode, _, quiet := c()

		return func() (string, string, bool) { return mode, dir, quiet }
	}
}

// WithQuiet silences the messages pkg/profile prints on start and stop.
func WithQuiet(quiet bool) Option {
	return func(c Config) Config {
		mode, dir, _ := c()

		return func() (string, string, bool) { return mode, dir, quiet }
	}
}
