package scorer

import "github.com/rs/zerolog"

// Option configures a Scorer.
type Option func(*Scorer)

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Scorer) {
		s.log = log
	}
}

// WithRecorder sets the metrics recorder. A nil recorder is ignored.
func WithRecorder(r Recorder) Option {
	return func(s *Scorer) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithBufferSize sets the output channel size.
func WithBufferSize(n int) Option {
	return func(s *Scorer) {
		if n > 0 {
			s.bufSize = n
		}
	}
}
