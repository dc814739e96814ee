// Package document provides text chunking and upload text extraction.
package document

import "strings"

const (
	// DefaultChunkSize is the character budget per chunk.
	DefaultChunkSize = 1000
	// DefaultOverlap is the approximate character overlap carried between
	// consecutive chunks.
	DefaultOverlap = 200

	// minChunkLength filters out near-empty trailing fragments.
	minChunkLength = 50

	// avgWordLength converts the character overlap budget into a word
	// count.
	avgWordLength = 6
)

// Chunk splits text into overlapping passages using the default chunk
// size and overlap.
func Chunk(text string) []string {
	return ChunkText(text, DefaultChunkSize, DefaultOverlap)
}

// ChunkText splits text into sentence-bounded passages of at most
// roughly chunkSize characters. Consecutive chunks share the trailing
// overlap/6 words of the previous chunk. Chunks of 50 characters or
// fewer are dropped.
func ChunkText(text string, chunkSize, overlap int) []string {
	sentences := splitSentences(text)

	var chunks []string
	var current string

	for _, sentence := range sentences {
		if len(current)+len(sentence) > chunkSize && strings.TrimSpace(current) != "" {
			chunks = append(chunks, strings.TrimSpace(current))

			// Carry the tail of the finished chunk into the next one.
			words := strings.Split(current, " ")
			n := overlap / avgWordLength
			if n > len(words) {
				n = len(words)
			}
			overlapWords := words[len(words)-n:]
			current = strings.Join(overlapWords, " ") + " " + sentence
		} else {
			if current != "" {
				current += ". " + sentence
			} else {
				current = sentence
			}
		}
	}

	if strings.TrimSpace(current) != "" {
		chunks = append(chunks, strings.TrimSpace(current))
	}

	filtered := chunks[:0]
	for _, c := range chunks {
		if len(c) > minChunkLength {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// splitSentences breaks text on sentence punctuation, discarding empty
// fragments.
func splitSentences(text string) []string {
	fragments := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	sentences := make([]string, 0, len(fragments))
	for _, f := range fragments {
		trimmed := strings.TrimSpace(f)
		if trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}
	return sentences
}
