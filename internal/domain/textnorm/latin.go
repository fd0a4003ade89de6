package textnorm

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"

	"github.com/okian/talentradar/pkg/logger"
)

var defaultLemmatizer = sync.OnceValues(func() (Lemmatizer, error) {
	l, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("load english lemmas: %w", err)
	}
	return l, nil
})

func (n *Normalizer) latin(ctx context.Context, text string) []string {
	lem, err := n.lemmatizer()
	if err != nil {
		n.log.Warn(ctx, "lemmatizer unavailable", logger.Error(err))
		return []string{}
	}

	cleaned := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, strings.ToLower(text))

	out := make([]string, 0, 8)
	for _, w := range strings.Fields(cleaned) {
		if _, stop := englishStopwords[w]; stop {
			continue
		}
		w = lem.Lemma(w)
		if len(w) <= 2 || isDigits(w) {
			continue
		}
		out = append(out, w)
	}
	return out
}

// isDigits reports whether s is non-empty and every rune is a decimal digit.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
