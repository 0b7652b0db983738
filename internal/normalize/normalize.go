// Package normalize converts arbitrary raw catalog documents into the
// canonical, index-safe product shape. Normalization is a pure function:
// it performs no I/O and never fails outright. Malformed fields are dropped
// with a warning so a single bad field cannot sink a whole batch.
package normalize

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/kailas-cloud/prodex/internal/domain/product"
)

// Sanitization ceilings for index-safe documents.
const (
	// MaxFieldLen caps scalar text fields.
	MaxFieldLen = 10000
	// MaxAttrValueLen caps attribute values.
	MaxAttrValueLen = 1000
	// MaxSeqLen caps the number of elements processed per sequence field.
	MaxSeqLen = 1000
	// TruncationMarker is appended to every truncated value.
	TruncationMarker = "... [truncated]"
)

// Warning records a field that was altered or dropped during normalization.
type Warning struct {
	Field  string
	Reason string
}

func (w Warning) String() string { return w.Field + ": " + w.Reason }

// Normalize produces a canonical Document from a raw input map.
// The returned document always has a plain-string id; documents arriving
// without any recognizable id are assigned a generated one.
func Normalize(raw map[string]any) (product.Document, []Warning) {
	var warnings []Warning

	cleaned := sanitizeMap(raw, "", &warnings)

	doc := product.Document{
		ID:              extractID(cleaned, &warnings),
		Title:           stringField(cleaned, "title"),
		Description:     stringField(cleaned, "description"),
		Article:         stringField(cleaned, "article"),
		Brand:           stringField(cleaned, "brand"),
		CountryOfOrigin: stringField(cleaned, "country_of_origin"),
		WarrantyMonths:  stringField(cleaned, "warranty_months"),
		Category:        stringField(cleaned, "category"),
		CreatedAt:       stringField(cleaned, "created_at"),
	}

	doc.Attributes = extractAttributes(cleaned, &warnings)
	doc.FlatAttributes = product.FlattenAttributes(doc.Attributes)
	doc.Suppliers = extractSuppliers(cleaned, &warnings)

	return doc, warnings
}

// extractID resolves the id from any of its native representations:
// a plain string, an opaque-id wrapper ({"$oid": ...}), a value with an
// embedded id field, or, as a last resort, the stringified value.
func extractID(cleaned map[string]any, warnings *[]Warning) string {
	raw, ok := cleaned["_id"]
	if !ok {
		raw, ok = cleaned["id"]
	}
	if !ok || raw == nil {
		id := uuid.NewString()
		*warnings = append(*warnings, Warning{Field: "id", Reason: "missing id, generated " + id})
		return id
	}

	switch v := raw.(type) {
	case string:
		return v
	case map[string]any:
		// $oid wrappers are already unwrapped by sanitization; what is left
		// here is a structured value with an embedded id field.
		for _, key := range []string{"$oid", "id", "_id"} {
			if s, ok := v[key].(string); ok {
				return s
			}
		}
		return fmt.Sprint(v)
	default:
		return fmt.Sprint(v)
	}
}

// extractAttributes pulls the attribute pairs, skipping pairs with a null
// name or value and truncating long values.
func extractAttributes(cleaned map[string]any, warnings *[]Warning) []product.Attribute {
	rawAttrs, ok := cleaned["attributes"].([]any)
	if !ok {
		return nil
	}

	attrs := make([]product.Attribute, 0, len(rawAttrs))
	for _, item := range rawAttrs {
		pair, ok := item.(map[string]any)
		if !ok {
			*warnings = append(*warnings, Warning{Field: "attributes", Reason: fmt.Sprintf("skipped non-object pair %T", item)})
			continue
		}
		name, nameOK := nonNullString(pair["attr_name"])
		value, valueOK := nonNullString(pair["attr_value"])
		if !nameOK || !valueOK {
			continue
		}
		attrs = append(attrs, product.Attribute{
			Name:  name,
			Value: truncate(value, MaxAttrValueLen),
		})
	}
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}

// extractSuppliers decodes the supplier records through a JSON round trip.
// A shape mismatch drops the field rather than failing normalization.
func extractSuppliers(cleaned map[string]any, warnings *[]Warning) []product.Supplier {
	raw, ok := cleaned["suppliers"]
	if !ok || raw == nil {
		return nil
	}

	data, err := json.Marshal(raw)
	if err != nil {
		*warnings = append(*warnings, Warning{Field: "suppliers", Reason: "dropped: " + err.Error()})
		return nil
	}
	var suppliers []product.Supplier
	if err := json.Unmarshal(data, &suppliers); err != nil {
		*warnings = append(*warnings, Warning{Field: "suppliers", Reason: "dropped: " + err.Error()})
		return nil
	}
	return suppliers
}

// sanitizeMap sanitizes every field of a map, recursing into structured
// values. A panic while sanitizing one field drops that field only.
func sanitizeMap(m map[string]any, path string, warnings *[]Warning) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		fieldPath := joinPath(path, k)
		cleaned, ok := sanitizeField(fieldPath, v, warnings)
		if !ok {
			continue
		}
		out[k] = cleaned
	}
	return out
}

// sanitizeField guards a single field: a sanitization panic is converted into
// a warning and the field is dropped.
func sanitizeField(path string, v any, warnings *[]Warning) (cleaned any, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			*warnings = append(*warnings, Warning{Field: path, Reason: fmt.Sprintf("dropped: %v", r)})
			cleaned, ok = nil, false
		}
	}()
	return sanitizeValue(path, v, warnings), true
}

// sanitizeValue truncates oversized strings, caps sequences, unwraps opaque
// id wrappers anywhere in the structure, and recurses into nested values.
func sanitizeValue(path string, v any, warnings *[]Warning) any {
	switch val := v.(type) {
	case string:
		return truncate(val, MaxFieldLen)
	case []any:
		if len(val) > MaxSeqLen {
			*warnings = append(*warnings, Warning{
				Field:  path,
				Reason: fmt.Sprintf("sequence capped at %d of %d elements", MaxSeqLen, len(val)),
			})
			val = val[:MaxSeqLen]
		}
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = sanitizeValue(fmt.Sprintf("%s[%d]", path, i), item, warnings)
		}
		return out
	case map[string]any:
		if oid, ok := oidString(val); ok {
			return oid
		}
		return sanitizeMap(val, path, warnings)
	default:
		return v
	}
}

// oidString unwraps an opaque-id wrapper of the form {"$oid": "..."}.
func oidString(m map[string]any) (string, bool) {
	if len(m) != 1 {
		return "", false
	}
	s, ok := m["$oid"].(string)
	return s, ok
}

func nonNullString(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		return fmt.Sprint(v), true
	}
	if s == "" {
		return "", false
	}
	return s, true
}

func stringField(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// truncate caps s at limit characters, not bytes, cutting on a rune
// boundary so multi-byte text stays valid UTF-8.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i] + TruncationMarker
		}
		n++
	}
	return s
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
