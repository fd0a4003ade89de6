package matching

import (
	"errors"
	"math"
	"regexp"
	"strings"
)

// ErrEmptyVocabulary is returned when no document yields a single term.
var ErrEmptyVocabulary = errors.New("empty vocabulary")

// termPattern mirrors the usual bag-of-words analyzer: runs of two or more word characters.
var termPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// sparse is an L2-normalized term vector.
type sparse map[string]float64

func analyze(doc string) []string {
	return termPattern.FindAllString(strings.ToLower(doc), -1)
}

// vectorize builds smoothed TF-IDF vectors for docs:
// tf is the raw count and idf = ln((1+n)/(1+df)) + 1.
func vectorize(docs []string) ([]sparse, error) {
	counts := make([]map[string]int, len(docs))
	df := make(map[string]int)
	for i, d := range docs {
		c := make(map[string]int)
		for _, t := range analyze(d) {
			c[t]++
		}
		for t := range c {
			df[t]++
		}
		counts[i] = c
	}
	if len(df) == 0 {
		return nil, ErrEmptyVocabulary
	}

	n := float64(len(docs))
	idf := make(map[string]float64, len(df))
	for t, f := range df {
		idf[t] = math.Log((1+n)/(1+float64(f))) + 1
	}

	vecs := make([]sparse, len(docs))
	for i, c := range counts {
		v := make(sparse, len(c))
		var norm float64
		for t, tf := range c {
			w := float64(tf) * idf[t]
			v[t] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for t := range v {
				v[t] /= norm
			}
		}
		vecs[i] = v
	}
	return vecs, nil
}

// cosine of two normalized vectors; 0 when either is empty.
func cosine(a, b sparse) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for t, w := range a {
		dot += w * b[t]
	}
	return math.Max(0, math.Min(1, dot))
}
