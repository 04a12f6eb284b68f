package memory

import "chatbot/internal/embedding/tfidf"

// Storage is the in-memory unit-vector matrix: row i holds the vector of
// unit i. It is built once and never mutated, so reads need no locking.
type Storage struct {
	vectors []tfidf.Vector
}

// NewStorage stores a copy of vectors as the matrix rows.
func NewStorage(vectors []tfidf.Vector) *Storage {
	s := &Storage{vectors: make([]tfidf.Vector, len(vectors))}
	copy(s.vectors, vectors)
	return s
}

// Len returns the number of rows.
func (s *Storage) Len() int { return len(s.vectors) }

// Scores returns the cosine similarity of vector against every row.
func (s *Storage) Scores(vector tfidf.Vector) []float64 {
	scores := make([]float64, len(s.vectors))
	for i := range s.vectors {
		scores[i] = tfidf.Cosine(vector, s.vectors[i])
	}
	return scores
}

// Best returns the row with the highest similarity. Ties go to the lowest
// index. It returns -1 for an empty matrix or a zero query vector.
func (s *Storage) Best(vector tfidf.Vector) (int, float64) {
	if vector.IsZero() {
		return -1, 0
	}
	best, bestScore := -1, 0.0
	for i, score := range s.Scores(vector) {
		if best == -1 || score > bestScore {
			best, bestScore = i, score
		}
	}
	return best, bestScore
}
