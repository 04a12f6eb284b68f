package corpus

import (
	"fmt"
	"log"

	"chatbot/internal/domain"
	"chatbot/internal/embedding/tfidf"
	"chatbot/internal/vectorstore/memory"
)

// Index is the frozen retrieval index: sentence units followed by the whole
// document, the fitted vectorizer, and the unit-vector matrix aligned with
// the units by position.
type Index struct {
	Source     string
	Document   string
	Degraded   bool // the source was unreadable and Placeholder was used
	Units      []domain.Unit
	Vectorizer *tfidf.Vectorizer
	Matrix     *memory.Storage
}

// Sentences returns the sentence-level units, excluding the whole document.
func (ix *Index) Sentences() []domain.Unit {
	if len(ix.Units) == 0 {
		return nil
	}
	return ix.Units[:len(ix.Units)-1]
}

// Builder prepares an Index from a knowledge document.
type Builder struct {
	segmenter domain.Segmenter
	opts      tfidf.Options
	load      func(path string) (string, error)
}

// NewBuilder creates a builder using the given segmenter and vectorizer options.
func NewBuilder(segmenter domain.Segmenter, opts tfidf.Options) *Builder {
	return &Builder{segmenter: segmenter, opts: opts, load: LoadText}
}

// Build loads the document at path and indexes it. An unreadable source is
// replaced by Placeholder; the returned error only reports an invalid
// vectorizer configuration.
func (b *Builder) Build(path string) (*Index, error) {
	text, err := b.load(path)
	degraded := false
	if err != nil {
		log.Printf("[WARN] could not read knowledge document %s: %v", path, err)
		text = Placeholder
		degraded = true
	}
	ix, err := b.BuildFromText(text)
	if err != nil {
		return nil, err
	}
	ix.Source = path
	ix.Degraded = degraded
	return ix, nil
}

// BuildFromText indexes an in-memory document.
func (b *Builder) BuildFromText(text string) (*Index, error) {
	sentences := b.segmenter.Split(text)
	units := make([]domain.Unit, 0, len(sentences)+1)
	for i, s := range sentences {
		units = append(units, domain.Unit{Index: i, Text: s})
	}
	units = append(units, domain.Unit{Index: len(sentences), Text: text, Whole: true})

	corpus := make([]string, len(units))
	for i, u := range units {
		corpus[i] = u.Text
	}
	vectorizer, err := tfidf.NewVectorizer(b.opts)
	if err != nil {
		return nil, fmt.Errorf("vectorizer: %w", err)
	}
	if err := vectorizer.Fit(corpus); err != nil {
		return nil, fmt.Errorf("fit vectorizer: %w", err)
	}
	vectors := make([]tfidf.Vector, len(units))
	for i := range units {
		vec, err := vectorizer.Transform(units[i].Text)
		if err != nil {
			return nil, fmt.Errorf("project unit %d: %w", i, err)
		}
		vectors[i] = vec
	}
	return &Index{
		Document:   text,
		Units:      units,
		Vectorizer: vectorizer,
		Matrix:     memory.NewStorage(vectors),
	}, nil
}
