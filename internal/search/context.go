// Package search orchestrates one search: it builds an immutable per-search
// context, calls the backend, and runs the presentation pipeline on the
// response. Nothing in this package holds mutable per-query state, so
// overlapping searches cannot interfere with each other.
package search

import (
	"strings"

	"github.com/pajuhan/tezyab/internal/models"
	"github.com/pajuhan/tezyab/internal/query"
	"github.com/pajuhan/tezyab/internal/render"
)

// Options is the full pipeline configuration for one search. Both historical
// UI variants are expressible: the plain one (UseExpand/UseOrFallback off,
// original-only highlighting) and the toggled one.
type Options struct {
	TopK            int
	ParserMode      models.ParserMode
	UseBM25         bool
	UseExpand       bool
	UseOrFallback   bool
	HighlightPolicy render.HighlightPolicy
	CEKey           string
}

// Context carries everything one search needs. It is constructed once per
// search and never mutated afterwards; each search owns its own copy, which
// is what makes duplicate or overlapping searches safe.
type Context struct {
	Seq     uint64
	Query   string
	Tokens  query.TokenSet
	Options Options
}

// NewContext builds the per-search context for a raw query string.
func NewContext(seq uint64, rawQuery string, opts Options) Context {
	q := strings.TrimSpace(rawQuery)
	if opts.HighlightPolicy == "" {
		opts.HighlightPolicy = render.HighlightOriginal
	}
	return Context{
		Seq:     seq,
		Query:   q,
		Tokens:  query.Tokenize(q),
		Options: opts,
	}
}

// Request builds the backend wire request for this search.
func (c Context) Request() *models.SearchRequest {
	return &models.SearchRequest{
		Query:      c.Query,
		TopK:       c.Options.TopK,
		UseBM25:    c.Options.UseBM25,
		UseExpand:  c.Options.UseExpand,
		UseOr:      c.Options.UseOrFallback,
		ParserMode: c.Options.ParserMode,
		CEKey:      c.Options.CEKey,
	}
}
