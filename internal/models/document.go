// Package models defines the backend wire contract and the presentation
// structures handed to the display layer.
package models

import "fmt"

// RawDocument is one document record as returned by the search backend.
// Person fields (Authors, Advisors, CoAdvisors) are delimiter-separated name
// strings; KeywordText is a newline-separated keyword list. Every field except
// Score may be empty, and a missing field is never an error.
type RawDocument struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	AbsText     string  `json:"abs_text"`
	KeywordText string  `json:"keyword_text"`
	Degree      string  `json:"degree"`
	Year        string  `json:"year"`
	DocType     string  `json:"doc_type"`
	Authors     string  `json:"authors"`
	Advisors    string  `json:"advisors"`
	CoAdvisors  string  `json:"co_advisors"`
	University  string  `json:"university"`
	Subject     string  `json:"subject"`
	Score       float64 `json:"score"`
}

// ParserMode selects the backend query parser.
type ParserMode string

const (
	ParserLLM  ParserMode = "llm"
	ParserRule ParserMode = "rule"
)

// Valid reports whether m is a parser mode the backend accepts.
func (m ParserMode) Valid() bool {
	return m == ParserLLM || m == ParserRule
}

// SearchRequest is the body of POST /api/search on the backend.
type SearchRequest struct {
	Query      string     `json:"query"`
	TopK       int        `json:"top_k"`
	UseBM25    bool       `json:"use_bm25"`
	UseExpand  bool       `json:"use_expand"`
	UseOr      bool       `json:"use_or"`
	ParserMode ParserMode `json:"parser_mode"`
	CEKey      string     `json:"ce_key,omitempty"`
}

// Validate normalizes the request and rejects unusable fields.
// TopK is defaulted and capped; an empty query or unknown parser mode is an error.
func (r *SearchRequest) Validate() error {
	if r.Query == "" {
		return fmt.Errorf("query cannot be empty")
	}
	if r.TopK <= 0 {
		r.TopK = 10
	}
	if r.TopK > 100 {
		r.TopK = 100
	}
	if r.ParserMode == "" {
		r.ParserMode = ParserLLM
	}
	if !r.ParserMode.Valid() {
		return fmt.Errorf("parser_mode must be %q or %q, got %q", ParserLLM, ParserRule, r.ParserMode)
	}
	return nil
}

// SearchResponse is the body of a successful POST /api/search.
type SearchResponse struct {
	Query         string        `json:"query"`
	ExpandedQuery string        `json:"expanded_query"`
	ParserUsed    ParserMode    `json:"parser_used"`
	ORUsed        bool          `json:"or_used"`
	CEKey         string        `json:"ce_key"`
	Count         int           `json:"count"`
	Results       []RawDocument `json:"results"`
}

// ModelInfo describes one selectable cross-encoder from GET /api/models.
type ModelInfo struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Model   string `json:"model"`
	Default bool   `json:"default"`
}

// ModelsResponse is the body of GET /api/models.
type ModelsResponse struct {
	Models []ModelInfo `json:"models"`
}

// SchemaColumn is one column descriptor from GET /api/schema.
type SchemaColumn struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// SchemaResponse is the body of GET /api/schema.
type SchemaResponse struct {
	Columns []SchemaColumn `json:"columns"`
}
