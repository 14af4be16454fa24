package repository

// settings holds configuration shared by store implementations.
type settings struct {
	baseline BaselineGenerator
}

// Option applies a configuration option to a store.
type Option func(*settings)

// WithBaseline sets the generator used to seed records for accounts the
// store has not seen before. Tests inject a deterministic generator here.
func WithBaseline(g BaselineGenerator) Option {
	return func(s *settings) {
		if g != nil {
			s.baseline = g
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{baseline: NewRandomBaseline()}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
