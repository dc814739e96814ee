// Package retrieval ranks document chunks by similarity to a query.
package retrieval

import (
	"context"
	"log"
	"math"
	"sort"

	"github.com/twistandthread/chatwidget/internal/adapter/llm"
)

const (
	// DefaultTopK is the number of chunks retrieved per source.
	DefaultTopK = 3

	// similarityThreshold drops candidates that are barely related to
	// the query. Deliberately low so knowledge-base lookups still match.
	similarityThreshold = 0.1
)

// Result carries the retrieved passages for one source. Degraded is set
// when embedding the query failed and the chat turn proceeds without
// grounding.
type Result struct {
	Chunks   []string
	Degraded bool
}

// CosineSimilarity computes dot(a,b) / (|a| * |b|). Inputs must have the
// same length. Zero-magnitude vectors are not guarded; IEEE-754 division
// semantics apply.
func CosineSimilarity(a, b []float64) float64 {
	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

// Ranker scores chunks against embedded queries.
type Ranker struct {
	embedder llm.Embedder
}

// NewRanker creates a ranker using the given embedder.
func NewRanker(embedder llm.Embedder) *Ranker {
	return &Ranker{embedder: embedder}
}

// FindRelevantChunks embeds the query and returns at most topK chunks
// with similarity above the threshold, best first. An embedding failure
// is logged and returned as an empty degraded result rather than
// propagated; retrieval failure is non-fatal to the chat flow.
func (r *Ranker) FindRelevantChunks(ctx context.Context, query string, chunks []string, embeddings [][]float64, topK int) Result {
	if len(chunks) == 0 {
		return Result{}
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	queryEmbeddings, err := r.embedder.CreateEmbeddings(ctx, []string{query})
	if err != nil || len(queryEmbeddings) == 0 {
		log.Printf("WARN: error finding relevant chunks: %v", err)
		return Result{Degraded: true}
	}
	queryVector := queryEmbeddings[0]

	type scored struct {
		index      int
		similarity float64
	}
	similarities := make([]scored, len(embeddings))
	for i, embedding := range embeddings {
		similarities[i] = scored{index: i, similarity: CosineSimilarity(queryVector, embedding)}
	}

	sort.Slice(similarities, func(i, j int) bool {
		return similarities[i].similarity > similarities[j].similarity
	})

	if len(similarities) > topK {
		similarities = similarities[:topK]
	}

	var relevant []string
	for _, s := range similarities {
		if s.similarity > similarityThreshold {
			relevant = append(relevant, chunks[s.index])
		}
	}
	return Result{Chunks: relevant}
}
