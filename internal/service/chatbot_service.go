package service

import (
	"fmt"
	"log"

	"chatbot/internal/corpus"
	"chatbot/internal/domain"
	"chatbot/internal/engine"
)

// ChatbotService wires the corpus index, the similarity engine and the
// knowledge summary. It is built once and then only read.
type ChatbotService struct {
	index   *corpus.Index
	engine  *engine.Engine
	summary string
}

// NewChatbotService builds the index from path and prepares the engine.
// An unreadable document degrades to a placeholder corpus instead of failing.
func NewChatbotService(builder *corpus.Builder, summarizer domain.Summarizer, summaryMaxSentences int, path string, cfg engine.Config, opts ...engine.Option) (*ChatbotService, error) {
	ix, err := builder.Build(path)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	summary := ""
	if !ix.Degraded && summarizer != nil {
		sentences := make([]string, 0, len(ix.Sentences()))
		for _, u := range ix.Sentences() {
			sentences = append(sentences, u.Text)
		}
		summary, err = summarizer.Summarize(sentences, summaryMaxSentences)
		if err != nil {
			return nil, fmt.Errorf("summarize: %w", err)
		}
	}
	log.Printf("[INFO] indexed %s: %d units, %d terms", path, len(ix.Units), ix.Vectorizer.Dimension())
	return &ChatbotService{
		index:   ix,
		engine:  engine.New(ix, cfg, opts...),
		summary: summary,
	}, nil
}

// Respond answers a single question.
func (s *ChatbotService) Respond(query string) string { return s.engine.Respond(query) }

// Explain answers a question and reports how the answer was chosen.
func (s *ChatbotService) Explain(query string) domain.Answer { return s.engine.Explain(query) }

// Summary returns a short summary of the knowledge document.
func (s *ChatbotService) Summary() string { return s.summary }

// Units returns the number of retrievable units.
func (s *ChatbotService) Units() int { return len(s.index.Units) }

// Degraded reports whether the knowledge document could not be read.
func (s *ChatbotService) Degraded() bool { return s.index.Degraded }
