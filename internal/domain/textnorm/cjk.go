package textnorm

import (
	"context"
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
	"golang.org/x/text/unicode/norm"

	"github.com/okian/talentradar/pkg/logger"
)

var contentPOS = map[string]struct{}{
	"名詞":  {},
	"動詞":  {},
	"形容詞": {},
}

// kagomeAnalyzer adapts the kagome IPA tokenizer.
type kagomeAnalyzer struct {
	t *tokenizer.Tokenizer
}

// NewKagomeAnalyzer loads the IPA dictionary.
func NewKagomeAnalyzer() (Analyzer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("init kagome: %w", err)
	}
	return &kagomeAnalyzer{t: t}, nil
}

func (k *kagomeAnalyzer) Analyze(text string) ([]Morpheme, error) {
	toks := k.t.Tokenize(text)
	out := make([]Morpheme, 0, len(toks))
	for _, tok := range toks {
		m := Morpheme{Surface: tok.Surface}
		if pos := tok.POS(); len(pos) > 0 {
			m.POS = pos[0]
		}
		if base, ok := tok.BaseForm(); ok && base != "*" {
			m.Base = base
		}
		out = append(out, m)
	}
	return out, nil
}

var defaultAnalyzer = sync.OnceValues(NewKagomeAnalyzer)

func (n *Normalizer) cjk(ctx context.Context, text string) (out []string) {
	a, err := n.analyzer()
	if err != nil {
		n.log.Warn(ctx, "morphological analyzer unavailable", logger.Error(err))
		return []string{}
	}

	defer func() {
		if r := recover(); r != nil {
			n.log.Warn(ctx, "morphological analysis panicked", logger.Any("panic", r))
			out = []string{}
		}
	}()

	morphs, err := a.Analyze(norm.NFKC.String(text))
	if err != nil {
		n.log.Warn(ctx, "morphological analysis failed", logger.Error(err))
		return []string{}
	}

	out = make([]string, 0, len(morphs))
	for _, m := range morphs {
		if _, ok := contentPOS[m.POS]; !ok {
			continue
		}
		w := m.Base
		if w == "" {
			w = m.Surface
		}
		if _, stop := japaneseStopwords[w]; stop {
			continue
		}
		if isDigits(w) || utf8.RuneCountInString(w) <= 1 {
			continue
		}
		out = append(out, w)
	}
	return out
}
