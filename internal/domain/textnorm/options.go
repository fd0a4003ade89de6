package textnorm

import "github.com/okian/talentradar/pkg/logger"

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithCJKThreshold sets the routing threshold; values outside (0,1) are ignored.
func WithCJKThreshold(t float64) Option {
	return func(n *Normalizer) {
		if t > 0 && t < 1 {
			n.threshold = t
		}
	}
}

// WithLogger sets the logger used for degraded-input warnings.
func WithLogger(l logger.Logger) Option {
	return func(n *Normalizer) {
		if l != nil {
			n.log = l
		}
	}
}

// WithLemmatizer replaces the English lemmatizer.
func WithLemmatizer(l Lemmatizer) Option {
	return func(n *Normalizer) {
		if l != nil {
			n.lemmatizer = func() (Lemmatizer, error) { return l, nil }
		}
	}
}

// WithAnalyzer replaces the CJK morphological analyzer.
func WithAnalyzer(a Analyzer) Option {
	return func(n *Normalizer) {
		if a != nil {
			n.analyzer = func() (Analyzer, error) { return a, nil }
		}
	}
}

// WithAnalyzerLoader defers analyzer construction to load, which may fail.
func WithAnalyzerLoader(load func() (Analyzer, error)) Option {
	return func(n *Normalizer) {
		if load != nil {
			n.analyzer = load
		}
	}
}
