// Package search defines query requests and results for the catalog index.
package search

import "github.com/kailas-cloud/prodex/internal/domain/product"

// Mode selects which fields a query runs against. The field separation is a
// documented API contract: title mode never reads attribute content, and
// attribute modes never read title/brand/description/article.
type Mode string

// Supported search modes.
const (
	ModeTitle      Mode = "title"
	ModeAttributes Mode = "attributes"
	ModeCombined   Mode = "combined"
)

// ParseMode validates a mode string, defaulting empty input to title mode.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeTitle, ModeAttributes, ModeCombined:
		return Mode(s), true
	case "":
		return ModeTitle, true
	default:
		return "", false
	}
}

// Request is a single search invocation.
type Request struct {
	Query string
	Mode  Mode
	Size  int
	From  int
}

// Result is a relevance-ordered page of matching documents.
// Total counts all index matches at query time, not just the returned page.
// MatchedAttributes holds, per document id, the attribute pairs that caused
// the match in attribute mode (from nested inner hits).
type Result struct {
	Total             int
	Items             []product.Document
	TookMillis        int64
	MatchedAttributes map[string][]product.Attribute
}
