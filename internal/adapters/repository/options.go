package repository

// Option applies a configuration option to the TreapStore.
type Option func(*TreapStore)

// WithMaxCharacters bounds the store; the oldest character is evicted when
// a save would exceed it. Zero means unbounded.
func WithMaxCharacters(n int) Option {
	return func(s *TreapStore) {
		if n >= 0 {
			s.maxCharacters = n
		}
	}
}
