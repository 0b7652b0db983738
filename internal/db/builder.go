package db

import "fmt"

// Per-field boosts of the title-mode query. The field list is a contract:
// title mode searches scalar product fields only, never attribute content.
var titleModeFields = []string{
	"title^3",
	"brand^2",
	"description^1.5",
	"article",
}

// TitleQuery builds a weighted multi-field match with automatic fuzziness.
func TitleQuery(text string) map[string]any {
	return map[string]any{
		"multi_match": map[string]any{
			"query":     text,
			"fields":    titleModeFields,
			"type":      "best_fields",
			"fuzziness": "AUTO",
		},
	}
}

// AttributeQuery builds a nested fuzzy match against attribute values only.
// inner_hits surfaces the matching attribute sub-documents per hit, so the
// caller learns which attributes matched without a second round trip.
func AttributeQuery(text string) map[string]any {
	return map[string]any{
		"nested": map[string]any{
			"path": "attributes",
			"query": map[string]any{
				"match": map[string]any{
					"attributes.attr_value": map[string]any{
						"query":     text,
						"fuzziness": "AUTO",
					},
				},
			},
			"inner_hits": map[string]any{
				"name": "matched_attributes",
				"size": 10,
			},
		},
	}
}

// ExactAttributeQuery builds a nested term query requiring exact name+value
// equality (keyword comparison, no analysis).
func ExactAttributeQuery(name, value string) map[string]any {
	return map[string]any{
		"nested": map[string]any{
			"path": "attributes",
			"query": map[string]any{
				"bool": map[string]any{
					"must": []any{
						map[string]any{"term": map[string]any{"attributes.attr_name": name}},
						map[string]any{"term": map[string]any{"attributes.attr_value.keyword": value}},
					},
				},
			},
		},
	}
}

// FuzzyAttributeQuery builds a nested query matching one attribute by exact
// name and analyzed value.
func FuzzyAttributeQuery(name, value string) map[string]any {
	return map[string]any{
		"nested": map[string]any{
			"path": "attributes",
			"query": map[string]any{
				"bool": map[string]any{
					"must": []any{
						map[string]any{"term": map[string]any{"attributes.attr_name": name}},
						map[string]any{"match": map[string]any{"attributes.attr_value": value}},
					},
				},
			},
		},
	}
}

// AttributeMapQuery ANDs one nested constraint per attribute name/value pair.
// Values are stringified; exact selects keyword comparison over analyzed match.
func AttributeMapQuery(attrs map[string]any, exact bool) map[string]any {
	must := make([]any, 0, len(attrs))
	for name, value := range attrs {
		v := fmt.Sprint(value)
		if exact {
			must = append(must, ExactAttributeQuery(name, v))
		} else {
			must = append(must, FuzzyAttributeQuery(name, v))
		}
	}
	return map[string]any{
		"bool": map[string]any{"must": must},
	}
}

// MatchAllQuery matches every document in the index.
func MatchAllQuery() map[string]any {
	return map[string]any{"match_all": map[string]any{}}
}

// SearchBody wraps a query with pagination and the fixed sort order:
// relevance score descending, creation time descending as tie-break.
func SearchBody(query map[string]any, size, from int) map[string]any {
	return map[string]any{
		"query": query,
		"size":  size,
		"from":  from,
		"sort": []any{
			map[string]any{"_score": map[string]any{"order": "desc"}},
			map[string]any{"created_at": map[string]any{"order": "desc", "unmapped_type": "date"}},
		},
	}
}
