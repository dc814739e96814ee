package retrieval

import (
	"context"
	"errors"
	"math"
	"testing"
)

// stubEmbedder returns a fixed vector for every input, or an error.
type stubEmbedder struct {
	vector []float64
	err    error
}

func (s *stubEmbedder) CreateEmbeddings(ctx context.Context, texts []string) ([][]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = s.vector
	}
	return out, nil
}

func TestCosineSimilaritySelf(t *testing.T) {
	vectors := [][]float64{
		{1, 0, 0},
		{0.3, -0.7, 2.1},
		{5, 5, 5, 5},
	}
	for _, v := range vectors {
		if got := CosineSimilarity(v, v); math.Abs(got-1) > 1e-9 {
			t.Fatalf("similarity(v, v) = %v, want 1", got)
		}
	}
}

func TestCosineSimilaritySymmetricAndBounded(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{-2, 0.5, 4}

	ab := CosineSimilarity(a, b)
	ba := CosineSimilarity(b, a)
	if math.Abs(ab-ba) > 1e-12 {
		t.Fatalf("similarity not symmetric: %v vs %v", ab, ba)
	}
	if ab < -1-1e-9 || ab > 1+1e-9 {
		t.Fatalf("similarity out of bounds: %v", ab)
	}
}

func TestCosineSimilarityOpposite(t *testing.T) {
	a := []float64{1, 1}
	b := []float64{-1, -1}
	if got := CosineSimilarity(a, b); math.Abs(got+1) > 1e-9 {
		t.Fatalf("similarity of opposite vectors = %v, want -1", got)
	}
}

func TestCosineSimilarityZeroVectorIsNaN(t *testing.T) {
	if got := CosineSimilarity([]float64{0, 0}, []float64{1, 1}); !math.IsNaN(got) {
		t.Fatalf("expected NaN for zero-magnitude vector, got %v", got)
	}
}

func TestFindRelevantChunksEmptyInput(t *testing.T) {
	// No chunks short-circuits before any embedding call.
	r := NewRanker(&stubEmbedder{err: errors.New("must not be called")})
	result := r.FindRelevantChunks(context.Background(), "query", nil, nil, 3)
	if len(result.Chunks) != 0 || result.Degraded {
		t.Fatalf("expected empty non-degraded result, got %+v", result)
	}
}

func TestFindRelevantChunksRanking(t *testing.T) {
	r := NewRanker(&stubEmbedder{vector: []float64{1, 0}})

	chunks := []string{"best", "good", "weak", "unrelated", "opposed"}
	embeddings := [][]float64{
		{0.9, 0.1},  // close to query
		{0.6, 0.6},  // moderate
		{0.05, 1.0}, // barely related, under threshold after top-k
		{0, 1},      // orthogonal
		{-1, 0},     // negative
	}

	result := r.FindRelevantChunks(context.Background(), "query", chunks, embeddings, 3)
	if result.Degraded {
		t.Fatal("unexpected degraded result")
	}
	if len(result.Chunks) > 3 {
		t.Fatalf("expected at most 3 chunks, got %d", len(result.Chunks))
	}
	if len(result.Chunks) != 2 || result.Chunks[0] != "best" || result.Chunks[1] != "good" {
		t.Fatalf("unexpected ranking: %v", result.Chunks)
	}

	// Verify non-increasing similarity order.
	query := []float64{1, 0}
	byText := map[string][]float64{}
	for i, c := range chunks {
		byText[c] = embeddings[i]
	}
	for i := 1; i < len(result.Chunks); i++ {
		prev := CosineSimilarity(query, byText[result.Chunks[i-1]])
		curr := CosineSimilarity(query, byText[result.Chunks[i]])
		if curr > prev {
			t.Fatalf("chunks out of order: %v", result.Chunks)
		}
	}
}

func TestFindRelevantChunksThreshold(t *testing.T) {
	r := NewRanker(&stubEmbedder{vector: []float64{1, 0}})

	chunks := []string{"orthogonal", "negative"}
	embeddings := [][]float64{{0, 1}, {-1, 0}}

	result := r.FindRelevantChunks(context.Background(), "query", chunks, embeddings, 3)
	if len(result.Chunks) != 0 {
		t.Fatalf("expected all chunks filtered by threshold, got %v", result.Chunks)
	}
	if result.Degraded {
		t.Fatal("threshold filtering is not a degraded result")
	}
}

func TestFindRelevantChunksDegradesOnEmbeddingFailure(t *testing.T) {
	r := NewRanker(&stubEmbedder{err: errors.New("service down")})

	result := r.FindRelevantChunks(context.Background(), "query", []string{"a"}, [][]float64{{1}}, 3)
	if len(result.Chunks) != 0 {
		t.Fatalf("expected no chunks on embedding failure, got %v", result.Chunks)
	}
	if !result.Degraded {
		t.Fatal("expected degraded result on embedding failure")
	}
}
