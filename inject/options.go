package inject

import "github.com/skekre98/wirebox/core"

type options struct {
	alt       []core.Alternative
	container *core.Container
	optional  bool
}

type Option func(*options)

// WithAlternative resolves the named registration instead of the default
// slot.
func WithAlternative(a core.Alternative) Option {
	return func(o *options) { o.alt = []core.Alternative{a} }
}

// WithContainer pins the injection point to c, bypassing the process-wide
// policy.
func WithContainer(c *core.Container) Option {
	return func(o *options) { o.container = c }
}

// Optional makes a missing resolver produce the zero value instead of a
// fatal error. Missing policies and containers are still fatal.
func Optional() Option {
	return func(o *options) { o.optional = true }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
