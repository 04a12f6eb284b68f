// Package engine answers questions against a frozen corpus index using
// TF-IDF cosine similarity with a threshold, length and fallback policy.
package engine

import (
	"math/rand"
	"regexp"
	"strings"
	"unicode/utf8"

	"chatbot/internal/corpus"
	"chatbot/internal/domain"
)

// Picker returns an integer in [0, n). It must be safe for concurrent use.
type Picker func(n int) int

// Option customizes an Engine.
type Option func(*Engine)

// WithPicker replaces the random source used to choose fallback messages.
func WithPicker(p Picker) Option {
	return func(e *Engine) {
		if p != nil {
			e.pick = p
		}
	}
}

// Engine is safe for concurrent use; it never mutates the index.
type Engine struct {
	index *corpus.Index
	cfg   Config
	pick  Picker
}

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9\s]`)

// New creates an engine over a built index.
func New(index *corpus.Index, cfg Config, opts ...Option) *Engine {
	e := &Engine{index: index, cfg: cfg.withDefaults(), pick: rand.Intn}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the effective configuration.
func (e *Engine) Config() Config { return e.cfg }

// Respond returns the reply text for query. It never fails.
func (e *Engine) Respond(query string) string {
	return e.Explain(query).Text
}

// Explain answers query and reports which policy branch produced the reply.
func (e *Engine) Explain(query string) domain.Answer {
	if strings.TrimSpace(query) == "" {
		return domain.Answer{Text: e.cfg.EmptyPrompt, Kind: domain.AnswerPrompt, UnitIndex: -1}
	}
	processed := Preprocess(query)
	vec, err := e.index.Vectorizer.Transform(processed)
	if err != nil {
		return e.fallback(0)
	}
	best, score := e.index.Matrix.Best(vec)
	if best < 0 || score <= e.cfg.Threshold {
		return e.fallback(score)
	}

	text := strings.TrimSpace(e.index.Units[best].Text)
	if utf8.RuneCountInString(text) <= e.cfg.MaxResponseLength {
		return domain.Answer{Text: text, Kind: domain.AnswerMatch, Score: score, UnitIndex: best}
	}
	if idx, ok := e.refine(strings.Fields(processed)); ok {
		return domain.Answer{Text: e.index.Units[idx].Text, Kind: domain.AnswerRefined, Score: score, UnitIndex: idx}
	}
	// No sentence shares a keyword: the oversize match is returned as is.
	return domain.Answer{Text: text, Kind: domain.AnswerOversize, Score: score, UnitIndex: best}
}

// refine picks the sentence unit containing the most keywords as substrings.
// The earliest sentence wins ties.
func (e *Engine) refine(keywords []string) (int, bool) {
	best, bestCount := -1, 0
	for _, u := range e.index.Sentences() {
		lower := strings.ToLower(u.Text)
		count := 0
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				count++
			}
		}
		if count > bestCount {
			best, bestCount = u.Index, count
		}
	}
	return best, best >= 0
}

func (e *Engine) fallback(score float64) domain.Answer {
	i := e.pick(len(e.cfg.Fallbacks))
	if i < 0 || i >= len(e.cfg.Fallbacks) {
		i = 0
	}
	msg := e.cfg.Fallbacks[i]
	return domain.Answer{Text: msg, Kind: domain.AnswerFallback, Score: score, UnitIndex: -1}
}

// Preprocess lowercases text and replaces every character other than ASCII
// letters, digits and whitespace with a space.
func Preprocess(text string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(text), " ")
}
