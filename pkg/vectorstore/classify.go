package vectorstore

import "strings"

// studyTypeRule maps a study-type category to the keywords that identify it.
// The list is ordered: the first category with a keyword hit wins, so more
// specific categories must come before broader ones.
type studyTypeRule struct {
	category string
	keywords []string
}

var studyTypeRules = []studyTypeRule{
	{"brand_health", []string{"brand health", "tracking", "salud marca"}},
	{"communication_test", []string{"communication", "comunicación", "advertising", "publicitario"}},
	{"concept_test", []string{"concept", "concepto", "evaluación concepto"}},
	{"pack_test", []string{"pack", "empaque", "packaging"}},
	{"usage_attitudes", []string{"usage", "uso", "attitudes", "actitudes"}},
	{"segmentation", []string{"segmentation", "segmentación"}},
	{"pricing", []string{"pricing", "precio", "price"}},
	{"product_test", []string{"product", "producto"}},
	{"maxdiff", []string{"maxdiff", "max diff"}},
	{"conjoint", []string{"conjoint", "trade-off"}},
}

// DefaultStudyType is assigned when no keyword rule matches.
const DefaultStudyType = "general_research"

// DetectStudyType classifies a document into a study-type category by keyword
// matching over the given text (typically the declared document name, falling
// back to content). Deterministic: first matching rule wins.
func DetectStudyType(text string) string {
	lower := strings.ToLower(text)
	for _, rule := range studyTypeRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return DefaultStudyType
}
