package search

import (
	"context"

	"github.com/pajuhan/tezyab/internal/models"
	"github.com/pajuhan/tezyab/internal/render"
	"go.uber.org/zap"
)

// Backend is the slice of the backend client the engine needs.
type Backend interface {
	Search(ctx context.Context, req *models.SearchRequest) (*models.SearchResponse, error)
}

// Outcome is one completed search: the render-ready page plus the backend's
// bookkeeping about how the search was executed.
type Outcome struct {
	Seq           uint64                      `json:"-"`
	Query         string                      `json:"query"`
	ExpandedQuery string                      `json:"expanded_query,omitempty"`
	ParserUsed    models.ParserMode           `json:"parser_used"`
	ORUsed        bool                        `json:"or_used"`
	CEKey         string                      `json:"ce_key,omitempty"`
	Count         int                         `json:"count"`
	Records       []models.PresentationRecord `json:"records"`
	Expansion     models.ExpansionResult      `json:"expansion"`
}

// Engine runs searches end to end: backend call, then presentation pipeline.
// The pipeline is never invoked when the backend call fails.
type Engine struct {
	backend Backend
	logger  *zap.Logger
}

// NewEngine creates an engine. logger may be nil for a silent engine.
func NewEngine(backend Backend, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{backend: backend, logger: logger}
}

// Search executes one search described by sc and transforms the response.
func (e *Engine) Search(ctx context.Context, sc Context) (*Outcome, error) {
	resp, err := e.backend.Search(ctx, sc.Request())
	if err != nil {
		e.logger.Warn("backend search failed",
			zap.Uint64("seq", sc.Seq),
			zap.Error(err),
		)
		return nil, err
	}
	page := render.BuildPage(resp.Results, sc.Query, resp.ExpandedQuery, sc.Options.HighlightPolicy)
	e.logger.Debug("search completed",
		zap.Uint64("seq", sc.Seq),
		zap.String("query", sc.Query),
		zap.Int("count", len(page.Records)),
		zap.Bool("expansion_visible", page.Expansion.Visible),
		zap.String("parser_used", string(resp.ParserUsed)),
	)
	return &Outcome{
		Seq:           sc.Seq,
		Query:         resp.Query,
		ExpandedQuery: resp.ExpandedQuery,
		ParserUsed:    resp.ParserUsed,
		ORUsed:        resp.ORUsed,
		CEKey:         resp.CEKey,
		Count:         len(page.Records),
		Records:       page.Records,
		Expansion:     page.Expansion,
	}, nil
}
