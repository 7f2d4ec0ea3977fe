// ABOUTME: Cosine similarity and distance math shared by index backends
// ABOUTME: Distance is clamped to [0,1] so similarity = 1 - distance
package storage

import "math"

// CosineSimilarity computes the cosine similarity between two vectors.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// CosineDistance converts similarity to a distance in [0,1]. Embedding
// vectors here are non-negative-dominant in practice; a negative
// similarity is treated as maximally distant.
func CosineDistance(a, b []float64) float64 {
	d := 1.0 - CosineSimilarity(a, b)
	if d < 0 {
		return 0
	}
	if d > 1 {
		return 1
	}
	return d
}
