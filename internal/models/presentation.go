package models

import "html/template"

// Tag is one annotation chip in a record header (degree, year, score, ...).
type Tag struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// PersonRow is one labelled group of names (creators, supervisors, ...).
// Names keeps the order they appeared in the backend field.
type PersonRow struct {
	Icon  string   `json:"icon"`
	Label string   `json:"label"`
	Names []string `json:"names"`
}

// KeywordChip is one keyword with its query-match flag.
type KeywordChip struct {
	Text    string `json:"text"`
	IsMatch bool   `json:"is_match"`
}

// Abstract is the collapsible abstract block. Expanded is pure state owned by
// the consumer; the pipeline always emits it collapsed.
type Abstract struct {
	Body     template.HTML `json:"body"`
	Expanded bool          `json:"expanded"`
}

// PresentationRecord is the fully-resolved, render-ready representation of one
// search result. Title and the abstract body are HTML-safe marked-up text;
// tags, person rows and keyword chips keep their display order.
type PresentationRecord struct {
	Rank         int           `json:"rank"`
	Title        template.HTML `json:"title"`
	Tags         []Tag         `json:"tags"`
	PersonRows   []PersonRow   `json:"person_rows,omitempty"`
	Abstract     *Abstract     `json:"abstract,omitempty"`
	KeywordChips []KeywordChip `json:"keyword_chips,omitempty"`
	ScorePercent string        `json:"score_percent"`
}

// HasBody reports whether the record has anything below its header. When
// false the consumer renders header-only, with no empty containers.
func (r *PresentationRecord) HasBody() bool {
	return len(r.PersonRows) > 0 || r.Abstract != nil || len(r.KeywordChips) > 0
}

// ChipOrigin says whether an expansion chip came from the user's own query or
// was added by the backend expander.
type ChipOrigin string

const (
	OriginOriginal ChipOrigin = "original"
	OriginAdded    ChipOrigin = "added"
)

// ExpansionChip is one token of the expanded query, classified by origin.
type ExpansionChip struct {
	Token  string     `json:"token"`
	Origin ChipOrigin `json:"origin"`
}

// ExpansionResult is the expansion panel state for one search. Visible is
// true only when the expansion actually introduced at least one new term; an
// expansion that merely echoes the original query is suppressed.
type ExpansionResult struct {
	Chips   []ExpansionChip `json:"chips"`
	Visible bool            `json:"visible"`
}
