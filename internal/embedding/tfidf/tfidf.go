package tfidf

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

// Options configures tokenization and the n-gram span of a Vectorizer.
type Options struct {
	NgramMin  int
	NgramMax  int
	StopWords map[string]struct{}
}

// DefaultOptions returns unigrams and bigrams with English stop words removed.
func DefaultOptions() Options {
	return Options{NgramMin: 1, NgramMax: 2, StopWords: EnglishStopWords()}
}

// Vectorizer is a TF-IDF model over word n-grams.
// It builds a vocabulary from the corpus and computes smoothed IDF values.
// After Fit the vocabulary is frozen and the Vectorizer is safe for
// concurrent use.
type Vectorizer struct {
	opts         Options
	vocabulary   map[string]int
	terms        []string
	idf          []float64
	fitted       bool
	tokenPattern *regexp.Regexp
}

// NewVectorizer creates an unfitted vectorizer.
func NewVectorizer(opts Options) (*Vectorizer, error) {
	if opts.NgramMin <= 0 || opts.NgramMax < opts.NgramMin {
		return nil, fmt.Errorf("invalid n-gram span [%d,%d]", opts.NgramMin, opts.NgramMax)
	}
	if opts.StopWords == nil {
		opts.StopWords = map[string]struct{}{}
	}
	return &Vectorizer{
		opts:         opts,
		vocabulary:   make(map[string]int),
		tokenPattern: regexp.MustCompile(`[\p{L}\p{M}\p{N}_]{2,}`),
	}, nil
}

// Fit builds the vocabulary and IDF values from the corpus. A corpus with no
// usable terms yields an empty vocabulary; every projection is then zero.
func (v *Vectorizer) Fit(corpus []string) error {
	if len(corpus) == 0 {
		return errors.New("empty corpus for TF-IDF fit")
	}
	if v.fitted {
		return errors.New("tfidf vectorizer already fitted")
	}
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, term := range v.analyze(text) {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}
	// Stable ordering for vocabulary
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	v.terms = terms
	v.vocabulary = make(map[string]int, len(terms))
	v.idf = make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		v.vocabulary[term] = i
		// Smoothed IDF
		v.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	v.fitted = true
	return nil
}

// Dimension returns the vocabulary size.
func (v *Vectorizer) Dimension() int { return len(v.terms) }

// Terms returns the vocabulary in index order.
func (v *Vectorizer) Terms() []string {
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}

// Transform projects text onto the frozen vocabulary. Unknown terms are
// ignored. The result is L2-normalized unless it is the zero vector.
func (v *Vectorizer) Transform(text string) (Vector, error) {
	if !v.fitted {
		return Vector{}, errors.New("tfidf vectorizer not fitted")
	}
	tf := make(map[int]int)
	for _, term := range v.analyze(text) {
		if idx, ok := v.vocabulary[term]; ok {
			tf[idx]++
		}
	}
	if len(tf) == 0 {
		return Vector{}, nil
	}
	idxs := make([]int, 0, len(tf))
	for idx := range tf {
		idxs = append(idxs, idx)
	}
	sort.Ints(idxs)
	vec := Vector{Indices: idxs, Values: make([]float64, len(idxs))}
	for i, idx := range idxs {
		vec.Values[i] = float64(tf[idx]) * v.idf[idx]
	}
	// L2 normalize
	if norm := vec.Norm(); norm > 0 {
		for i := range vec.Values {
			vec.Values[i] /= norm
		}
	}
	return vec, nil
}

// analyze lowercases, tokenizes, drops stop words and emits the n-grams of
// the remaining tokens.
func (v *Vectorizer) analyze(text string) []string {
	tokens := v.tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	var out []string
	for n := v.opts.NgramMin; n <= v.opts.NgramMax; n++ {
		if n == 1 {
			out = append(out, tokens...)
			continue
		}
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}

func (v *Vectorizer) tokenize(text string) []string {
	lower := strings.ToLower(text)
	raw := v.tokenPattern.FindAllString(lower, -1)
	if len(raw) == 0 {
		return nil
	}
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := v.opts.StopWords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}
