package domain

// Unit is one retrievable piece of the knowledge document: a sentence, or
// the whole document appended as the last unit.
type Unit struct {
	Index int
	Text  string
	Whole bool
}

// AnswerKind tells which branch of the response policy produced an answer.
type AnswerKind string

const (
	AnswerPrompt   AnswerKind = "prompt"
	AnswerMatch    AnswerKind = "match"
	AnswerRefined  AnswerKind = "refined"
	AnswerOversize AnswerKind = "oversize"
	AnswerFallback AnswerKind = "fallback"
)

// Answer is the outcome of a single query.
type Answer struct {
	Text      string
	Kind      AnswerKind
	Score     float64
	UnitIndex int // -1 when no unit was selected
}

// Segmenter splits raw text into sentences, preserving document order.
type Segmenter interface {
	Split(text string) []string
}

// Summarizer produces a brief summary from an ordered list of sentences.
type Summarizer interface {
	Summarize(sentences []string, maxSentences int) (string, error)
}

// Responder answers a free-text question with a text reply.
// Implementations never fail; every input yields a string.
type Responder interface {
	Respond(query string) string
}
