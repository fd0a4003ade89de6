// Package textnorm turns free text into comparable lexical tokens.
// Text that is mostly CJK is segmented morphologically; everything else
// goes through an English stopword and lemma pipeline.
package textnorm

import (
	"context"
	"unicode/utf8"

	"github.com/okian/talentradar/pkg/logger"
)

// DefaultCJKThreshold is the CJK share above which text takes the CJK path.
const DefaultCJKThreshold = 0.2

// cjkCodePoint is the exclusive lower bound counted as CJK.
const cjkCodePoint = 0x3000

// Lemmatizer reduces an English word to its dictionary form.
type Lemmatizer interface {
	Lemma(word string) string
}

// Morpheme is one segment produced by a morphological analyzer.
type Morpheme struct {
	Surface string
	// POS is the top-level part of speech, e.g. 名詞.
	POS string
	// Base is the dictionary form; empty when the analyzer has none.
	Base string
}

// Analyzer segments CJK text.
type Analyzer interface {
	Analyze(text string) ([]Morpheme, error)
}

// Normalizer is safe for concurrent use.
type Normalizer struct {
	threshold  float64
	log        logger.Logger
	lemmatizer func() (Lemmatizer, error)
	analyzer   func() (Analyzer, error)
}

// New builds a normalizer. Language resources load on first use.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		threshold:  DefaultCJKThreshold,
		log:        logger.Nop(),
		lemmatizer: defaultLemmatizer,
		analyzer:   defaultAnalyzer,
	}
	for _, o := range opts {
		o(n)
	}
	n.log = n.log.Named("textnorm")
	return n
}

// CJKRatio is the share of code points above U+3000.
func CJKRatio(text string) float64 {
	total := utf8.RuneCountInString(text)
	if total == 0 {
		return 0
	}
	cjk := 0
	for _, r := range text {
		if r > cjkCodePoint {
			cjk++
		}
	}
	return float64(cjk) / float64(total)
}

// IsCJK reports whether text would take the CJK path.
func (n *Normalizer) IsCJK(text string) bool {
	return CJKRatio(text) > n.threshold
}

// Normalize returns the ordered token sequence for text.
// Failures are logged and yield an empty sequence.
func (n *Normalizer) Normalize(ctx context.Context, text string) []string {
	if text == "" {
		return []string{}
	}
	if n.IsCJK(text) {
		return n.cjk(ctx, text)
	}
	return n.latin(ctx, text)
}
