package vectorstore

import (
	"errors"
	"testing"
)

func TestFilterMatches(t *testing.T) {
	meta := Metadata{
		"client":     "acme",
		"study_type": "brand_health",
		"year":       2022,
		"tags":       []any{"telecom", "prepaid"},
	}

	tests := []struct {
		name string
		raw  map[string]any
		want bool
	}{
		{name: "empty filter matches everything", raw: map[string]any{}, want: true},
		{name: "exact match", raw: map[string]any{"client": "acme"}, want: true},
		{name: "exact mismatch", raw: map[string]any{"client": "other"}, want: false},
		{name: "numeric equality across types", raw: map[string]any{"year": float64(2022)}, want: true},
		{name: "membership hit", raw: map[string]any{"study_type": []any{"brand_health", "pricing"}}, want: true},
		{name: "membership miss", raw: map[string]any{"study_type": []any{"pricing"}}, want: false},
		{name: "empty membership list matches nothing", raw: map[string]any{"study_type": []any{}}, want: false},
		{name: "range gte", raw: map[string]any{"year": map[string]any{"gte": 2022}}, want: true},
		{name: "range gte excludes", raw: map[string]any{"year": map[string]any{"gte": 2023}}, want: false},
		{name: "range lte", raw: map[string]any{"year": map[string]any{"lte": 2022}}, want: true},
		{name: "range gte+lte", raw: map[string]any{"year": map[string]any{"gte": 2020, "lte": 2024}}, want: true},
		{name: "range in", raw: map[string]any{"year": map[string]any{"in": []any{2021, 2022}}}, want: true},
		{name: "missing key never matches", raw: map[string]any{"absent": "x"}, want: false},
		{name: "missing key never matches range", raw: map[string]any{"absent": map[string]any{"gte": 0}}, want: false},
		{name: "conjunction all pass", raw: map[string]any{"client": "acme", "year": map[string]any{"gte": 2020}}, want: true},
		{name: "conjunction one fails", raw: map[string]any{"client": "acme", "year": map[string]any{"gte": 2023}}, want: false},
		{name: "string range lexicographic", raw: map[string]any{"client": map[string]any{"gte": "a", "lte": "b"}}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := ParseFilter(tt.raw)
			if err != nil {
				t.Fatalf("ParseFilter: %v", err)
			}
			if got := filter.Matches(meta); got != tt.want {
				t.Errorf("Matches = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseFilterRejectsUnknownOperator(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
	}{
		{name: "unknown operator", raw: map[string]any{"year": map[string]any{"gt": 2020}}},
		{name: "empty range object", raw: map[string]any{"year": map[string]any{}}},
		{name: "in operand not a list", raw: map[string]any{"year": map[string]any{"in": 2020}}},
		{name: "null constraint", raw: map[string]any{"year": nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFilter(tt.raw)
			var invalid *InvalidFilterError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidFilterError, got %v", err)
			}
		})
	}
}

func TestMetadataAccessors(t *testing.T) {
	meta := Metadata{
		"name":  "study",
		"year":  2024,
		"score": 0.85,
		"tags":  []string{"a", "b"},
	}

	if s, ok := meta.StringValue("name"); !ok || s != "study" {
		t.Errorf("StringValue = %q, %v", s, ok)
	}
	if _, ok := meta.StringValue("year"); ok {
		t.Error("StringValue should reject a number")
	}
	if n, ok := meta.NumberValue("year"); !ok || n != 2024 {
		t.Errorf("NumberValue(year) = %v, %v", n, ok)
	}
	if n, ok := meta.NumberValue("score"); !ok || n != 0.85 {
		t.Errorf("NumberValue(score) = %v, %v", n, ok)
	}
	if list, ok := meta.ListValue("tags"); !ok || len(list) != 2 {
		t.Errorf("ListValue = %v, %v", list, ok)
	}
	if _, ok := meta.NumberValue("absent"); ok {
		t.Error("NumberValue should miss on absent key")
	}
}

func TestDetectStudyType(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Brand Health Tracking 2024", "brand_health"},
		{"Test de Comunicación Publicitaria", "communication_test"},
		{"Concept evaluation wave 2", "concept_test"},
		{"Estudio de precio premium", "pricing"},
		{"Segmentación de mercado", "segmentation"},
		{"MaxDiff feature prioritization", "maxdiff"},
		{"quarterly report", "general_research"},
		{"", "general_research"},
	}

	for _, tt := range tests {
		if got := DetectStudyType(tt.text); got != tt.want {
			t.Errorf("DetectStudyType(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}
