package vectormath

import (
	"fmt"
	"math"
	"sort"
)

// DimensionMismatchError is returned when two vectors (or a vector and a store)
// disagree on length. It is a caller error and is never absorbed by padding or
// truncation.
type DimensionMismatchError struct {
	Want int
	Got  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("vector dimension mismatch: want %d, got %d", e.Want, e.Got)
}

// CosineSimilarity returns the cosine of the angle between a and b, clamped to
// [-1, 1] to absorb floating-point overshoot. A zero-magnitude vector yields 0.0
// by convention (maximally dissimilar), not an error.
func CosineSimilarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, &DimensionMismatchError{Want: len(a), Got: len(b)}
	}

	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}

	if magA == 0 || magB == 0 {
		return 0, nil
	}

	sim := dot / (math.Sqrt(magA) * math.Sqrt(magB))
	return clamp(sim, -1.0, 1.0), nil
}

// EuclideanDistance returns the L2 distance between a and b.
func EuclideanDistance(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, &DimensionMismatchError{Want: len(a), Got: len(b)}
	}

	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum), nil
}

// DotProduct returns the inner product of a and b.
func DotProduct(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, &DimensionMismatchError{Want: len(a), Got: len(b)}
	}

	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum, nil
}

// NormalizeVector scales v to unit length. A zero vector is returned unchanged.
func NormalizeVector(v []float64) []float64 {
	var mag float64
	for _, x := range v {
		mag += x * x
	}
	mag = math.Sqrt(mag)
	if mag == 0 {
		return v
	}
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / mag
	}
	return out
}

// VectorMean returns the element-wise mean of the given vectors. An empty input
// produces an empty vector. All vectors must share a length.
func VectorMean(vectors [][]float64) ([]float64, error) {
	if len(vectors) == 0 {
		return []float64{}, nil
	}

	dim := len(vectors[0])
	mean := make([]float64, dim)
	for _, v := range vectors {
		if len(v) != dim {
			return nil, &DimensionMismatchError{Want: dim, Got: len(v)}
		}
		for i, x := range v {
			mean[i] += x
		}
	}

	n := float64(len(vectors))
	for i := range mean {
		mean[i] /= n
	}
	return mean, nil
}

// Candidate pairs an opaque id with its embedding.
type Candidate struct {
	ID     string
	Vector []float64
}

// Scored pairs a candidate id with its cosine similarity to a query.
type Scored struct {
	ID    string
	Score float64
}

// TopKSimilar scores every candidate against query by cosine similarity and
// returns the k best, ordered descending. Equal scores keep their original
// relative order (the sort is stable), which makes results deterministic.
func TopKSimilar(query []float64, candidates []Candidate, k int) ([]Scored, error) {
	scored := make([]Scored, 0, len(candidates))
	for _, c := range candidates {
		sim, err := CosineSimilarity(query, c.Vector)
		if err != nil {
			return nil, err
		}
		scored = append(scored, Scored{ID: c.ID, Score: sim})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k < 0 {
		k = 0
	}
	if k < len(scored) {
		scored = scored[:k]
	}
	return scored, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
