package vectormath

import (
	"errors"
	"math"
	"testing"
)

const tolerance = 1e-9

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    []float64
		b    []float64
		want float64
	}{
		{name: "identical", a: []float64{1, 0}, b: []float64{1, 0}, want: 1.0},
		{name: "orthogonal", a: []float64{1, 0}, b: []float64{0, 1}, want: 0.0},
		{name: "opposite", a: []float64{1, 0}, b: []float64{-1, 0}, want: -1.0},
		{name: "zero vector", a: []float64{0, 0}, b: []float64{1, 2}, want: 0.0},
		{name: "both zero", a: []float64{0, 0}, b: []float64{0, 0}, want: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CosineSimilarity(tt.a, tt.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > tolerance {
				t.Errorf("CosineSimilarity = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCosineSimilaritySelf(t *testing.T) {
	vectors := [][]float64{
		{1, 2, 3},
		{-4, 0.5, 2.25, 100},
		{0.001, 0.002},
	}
	for _, v := range vectors {
		got, err := CosineSimilarity(v, v)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Abs(got-1.0) > tolerance {
			t.Errorf("CosineSimilarity(v, v) = %v, want 1.0", got)
		}
	}
}

func TestCosineSimilaritySymmetry(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{2, 3, 4}

	ab, err := CosineSimilarity(a, b)
	if err != nil {
		t.Fatal(err)
	}
	ba, err := CosineSimilarity(b, a)
	if err != nil {
		t.Fatal(err)
	}
	if ab != ba {
		t.Errorf("similarity not symmetric: %v vs %v", ab, ba)
	}
	// Known value for [1,2,3] vs [2,3,4] is ~0.9926.
	if ab < 0.99 || ab > 1.0 {
		t.Errorf("similarity = %v, expected ~0.9926", ab)
	}
}

func TestCosineSimilarityDimensionMismatch(t *testing.T) {
	_, err := CosineSimilarity([]float64{1, 2}, []float64{1, 2, 3})
	var dimErr *DimensionMismatchError
	if !errors.As(err, &dimErr) {
		t.Fatalf("expected DimensionMismatchError, got %v", err)
	}
	if dimErr.Want != 2 || dimErr.Got != 3 {
		t.Errorf("error carries %d/%d, want 2/3", dimErr.Want, dimErr.Got)
	}
}

func TestEuclideanDistance(t *testing.T) {
	got, err := EuclideanDistance([]float64{0, 0}, []float64{3, 4})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-5.0) > tolerance {
		t.Errorf("EuclideanDistance = %v, want 5.0", got)
	}

	if _, err := EuclideanDistance([]float64{1}, []float64{1, 2}); err == nil {
		t.Error("expected error on mismatched lengths")
	}
}

func TestDotProduct(t *testing.T) {
	got, err := DotProduct([]float64{1, 2, 3}, []float64{4, 5, 6})
	if err != nil {
		t.Fatal(err)
	}
	if got != 32 {
		t.Errorf("DotProduct = %v, want 32", got)
	}

	if _, err := DotProduct([]float64{1}, []float64{}); err == nil {
		t.Error("expected error on mismatched lengths")
	}
}

func TestVectorMean(t *testing.T) {
	mean, err := VectorMean([][]float64{{1, 2}, {3, 4}})
	if err != nil {
		t.Fatal(err)
	}
	if mean[0] != 2 || mean[1] != 3 {
		t.Errorf("VectorMean = %v, want [2 3]", mean)
	}

	empty, err := VectorMean(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(empty) != 0 {
		t.Errorf("VectorMean(nil) = %v, want empty", empty)
	}

	if _, err := VectorMean([][]float64{{1, 2}, {1}}); err == nil {
		t.Error("expected error on mixed lengths")
	}
}

func TestNormalizeVector(t *testing.T) {
	n := NormalizeVector([]float64{3, 4})
	if math.Abs(n[0]-0.6) > tolerance || math.Abs(n[1]-0.8) > tolerance {
		t.Errorf("NormalizeVector = %v, want [0.6 0.8]", n)
	}

	zero := NormalizeVector([]float64{0, 0})
	if zero[0] != 0 || zero[1] != 0 {
		t.Errorf("zero vector should be returned unchanged, got %v", zero)
	}
}

func TestTopKSimilar(t *testing.T) {
	candidates := []Candidate{
		{ID: "a", Vector: []float64{1, 0, 0}},
		{ID: "b", Vector: []float64{0, 1, 0}},
		{ID: "c", Vector: []float64{0, 0, 1}},
		{ID: "d", Vector: []float64{0.9, 0.1, 0}},
	}
	query := []float64{1, 0, 0}

	got, err := TopKSimilar(query, candidates, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
	if got[0].ID != "a" || got[1].ID != "d" {
		t.Errorf("top-2 order = [%s %s], want [a d]", got[0].ID, got[1].ID)
	}
}

func TestTopKSimilarKLargerThanCandidates(t *testing.T) {
	candidates := []Candidate{
		{ID: "a", Vector: []float64{1, 0}},
		{ID: "b", Vector: []float64{0, 1}},
	}
	got, err := TopKSimilar([]float64{1, 0}, candidates, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d results, want all 2", len(got))
	}
	if got[0].Score < got[1].Score {
		t.Error("results not sorted descending")
	}
}

func TestTopKSimilarNegativeK(t *testing.T) {
	candidates := []Candidate{
		{ID: "a", Vector: []float64{1, 0}},
		{ID: "b", Vector: []float64{0, 1}},
	}
	got, err := TopKSimilar([]float64{1, 0}, candidates, -3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d results, want none for negative k", len(got))
	}
}

func TestTopKSimilarStableTies(t *testing.T) {
	// b and c are both orthogonal to the query; b was inserted first and must
	// stay ahead of c.
	candidates := []Candidate{
		{ID: "a", Vector: []float64{1, 0, 0}},
		{ID: "b", Vector: []float64{0, 1, 0}},
		{ID: "c", Vector: []float64{0, 0, 1}},
	}
	got, err := TopKSimilar([]float64{1, 0, 0}, candidates, 3)
	if err != nil {
		t.Fatal(err)
	}
	if got[1].ID != "b" || got[2].ID != "c" {
		t.Errorf("tie order = [%s %s], want [b c]", got[1].ID, got[2].ID)
	}
}
