package core

import "time"

type serviceOptions struct {
	clock func() time.Time
}

// Option configures a service built by one of the New*Service constructors.
type Option func(*serviceOptions)

// WithClock replaces time.Now as the source of every timestamp and of the
// date applicant ages are computed on.
func WithClock(clock func() time.Time) Option {
	return func(o *serviceOptions) {
		if clock != nil {
			o.clock = clock
		}
	}
}

func applyOptions(opts []Option) serviceOptions {
	o := serviceOptions{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
