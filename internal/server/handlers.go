package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pajuhan/tezyab/internal/backend"
	"github.com/pajuhan/tezyab/internal/metrics"
	"github.com/pajuhan/tezyab/internal/models"
	"github.com/pajuhan/tezyab/internal/render"
	"github.com/pajuhan/tezyab/internal/search"
	"go.uber.org/zap"
)

// searchParams is the gateway's search request. Every field except the query
// is optional; unset fields take the configured defaults.
type searchParams struct {
	Query           string  `json:"query"`
	TopK            *int    `json:"top_k,omitempty"`
	ParserMode      *string `json:"parser_mode,omitempty"`
	UseExpand       *bool   `json:"use_expand,omitempty"`
	UseOr           *bool   `json:"use_or,omitempty"`
	HighlightPolicy *string `json:"highlight_policy,omitempty"`
	CEKey           *string `json:"ce_key,omitempty"`
}

// apply merges the request's overrides into the configured defaults.
func (p *searchParams) apply(opts search.Options) (search.Options, error) {
	if p.TopK != nil {
		opts.TopK = *p.TopK
	}
	if p.ParserMode != nil {
		mode := models.ParserMode(*p.ParserMode)
		if !mode.Valid() {
			return opts, errors.New("parser_mode must be \"llm\" or \"rule\"")
		}
		opts.ParserMode = mode
	}
	if p.UseExpand != nil {
		opts.UseExpand = *p.UseExpand
	}
	if p.UseOr != nil {
		opts.UseOrFallback = *p.UseOr
	}
	if p.HighlightPolicy != nil {
		policy := render.HighlightPolicy(*p.HighlightPolicy)
		if !policy.Valid() {
			return opts, errors.New("highlight_policy must be \"original\" or \"original_plus_expansion\"")
		}
		opts.HighlightPolicy = policy
	}
	if p.CEKey != nil {
		opts.CEKey = *p.CEKey
	}
	return opts, nil
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var params searchParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(params.Query) == "" {
		s.respondError(w, http.StatusBadRequest, "query cannot be empty")
		return
	}
	opts, err := params.apply(s.searchDefaults())
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	sc := search.NewContext(s.fence.Next(), params.Query, opts)
	searchID := uuid.NewString()
	s.logger.Debug("search request",
		zap.String("search_id", searchID),
		zap.Uint64("seq", sc.Seq),
		zap.String("query", sc.Query),
		zap.Int("top_k", opts.TopK),
	)

	outcome, err := s.engine.Search(r.Context(), sc)
	if err != nil {
		metrics.ObserveSearch("error")
		s.logger.Error("search failed",
			zap.String("search_id", searchID),
			zap.Error(err),
		)
		s.respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	metrics.ObserveSearch("ok")
	s.respondJSON(w, http.StatusOK, outcome)
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	resp, err := s.client.Models(r.Context())
	if err != nil {
		s.logger.Error("models proxy failed", zap.Error(err))
		s.respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	resp, err := s.client.Schema(r.Context())
	if err != nil {
		s.logger.Error("schema proxy failed", zap.Error(err))
		s.respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()
	backendStatus := "ok"
	if err := s.client.Health(ctx); err != nil {
		if errors.Is(err, backend.ErrUnavailable) {
			backendStatus = "unreachable"
		} else {
			backendStatus = "error"
		}
	}
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"backend": backendStatus,
	})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
