package chunker

import (
	"fmt"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// SentenceSegmenter splits English text into sentences with a Punkt
// tokenizer trained on English text. It handles abbreviations, initials and
// decimal points, and uses orthographic context to decide whether a
// capitalized word after an abbreviation starts a new sentence.
type SentenceSegmenter struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

// NewSentenceSegmenter loads the bundled English training data.
func NewSentenceSegmenter() (*SentenceSegmenter, error) {
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("load english sentence model: %w", err)
	}
	return &SentenceSegmenter{tokenizer: tokenizer}, nil
}

// Split returns the trimmed, non-empty sentences of text in document order.
func (s *SentenceSegmenter) Split(text string) []string {
	var out []string
	for _, sent := range s.tokenizer.Tokenize(text) {
		if t := strings.TrimSpace(sent.Text); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		if t := strings.TrimSpace(text); t != "" {
			out = []string{t}
		}
	}
	return out
}
