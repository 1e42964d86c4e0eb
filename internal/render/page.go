package render

import (
	"github.com/pajuhan/tezyab/internal/models"
	"github.com/pajuhan/tezyab/internal/query"
)

// HighlightPolicy selects which token set drives highlighting.
type HighlightPolicy string

const (
	// HighlightOriginal highlights only the user's own query tokens.
	HighlightOriginal HighlightPolicy = "original"
	// HighlightOriginalPlusExpansion also highlights tokens the backend
	// expander added, once an expansion comes back with the results.
	HighlightOriginalPlusExpansion HighlightPolicy = "original_plus_expansion"
)

// Valid reports whether p is a known policy.
func (p HighlightPolicy) Valid() bool {
	return p == HighlightOriginal || p == HighlightOriginalPlusExpansion
}

// Page is the output surface handed to the display layer: records in rank
// order plus the expansion panel state. It is complete and self-contained, so
// any UI technology can paint it.
type Page struct {
	Records   []models.PresentationRecord `json:"records"`
	Expansion models.ExpansionResult      `json:"expansion"`
}

// BuildPage runs the full transformation for one search response. It diffs
// the expanded query against the original, picks the highlight token set per
// policy, and maps every document through Transform in rank order.
func BuildPage(docs []models.RawDocument, originalQuery, expandedQuery string, policy HighlightPolicy) Page {
	tokens := query.Tokenize(originalQuery)
	expansion := query.DiffExpansion(originalQuery, expandedQuery)
	if policy == HighlightOriginalPlusExpansion && expansion.Visible {
		tokens = tokens.Union(query.AddedTokens(expansion)...)
	}
	page := Page{Expansion: expansion}
	if len(docs) > 0 {
		page.Records = make([]models.PresentationRecord, 0, len(docs))
	}
	for i := range docs {
		page.Records = append(page.Records, Transform(&docs[i], i+1, tokens))
	}
	return page
}
