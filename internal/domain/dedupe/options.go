package dedupe

// Option applies a configuration option to the Deduper.
type Option func(*set)

// WithMaxSize sets how many keys are kept. Zero or negative means unbounded.
func WithMaxSize(maxSize int) Option {
	return func(s *set) {
		s.maxSize = maxSize
	}
}
