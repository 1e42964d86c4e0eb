package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pajuhan/tezyab/internal/backend"
	"github.com/pajuhan/tezyab/internal/config"
	"github.com/pajuhan/tezyab/internal/models"
	"github.com/pajuhan/tezyab/internal/render"
	"github.com/pajuhan/tezyab/internal/search"
	"go.uber.org/zap"
)

// fakeBackend is an httptest stand-in for the search service.
func fakeBackend(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func newTestServer(t *testing.T, backendURL string) *Server {
	t.Helper()
	client := backend.NewClient(backendURL, time.Second)
	engine := search.NewEngine(client, zap.NewNop())
	defaults := search.Options{
		TopK:            10,
		ParserMode:      models.ParserLLM,
		UseBM25:         true,
		UseExpand:       true,
		HighlightPolicy: render.HighlightOriginal,
	}
	return NewServer(engine, client, &config.ServerConfig{Host: "localhost", Port: 8080}, defaults, zap.NewNop())
}

func postSearch(t *testing.T, srv *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewReader([]byte(body)))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, r)
	return w
}

func TestHandleSearch(t *testing.T) {
	var gotReq models.SearchRequest
	be := fakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(models.SearchResponse{
			Query:         "شبکه عصبی",
			ExpandedQuery: "شبکه عصبی یادگیری",
			ParserUsed:    models.ParserLLM,
			Count:         1,
			Results: []models.RawDocument{
				{ID: 5, Title: "شبکه های عصبی", Authors: "علی رضایی، حسن محمدی", Score: 0.8734},
			},
		})
	})
	srv := newTestServer(t, be.URL)

	w := postSearch(t, srv, `{"query": "شبکه عصبی", "top_k": 5}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if gotReq.TopK != 5 {
		t.Errorf("top_k override not forwarded, got %d", gotReq.TopK)
	}
	if !gotReq.UseBM25 {
		t.Error("use_bm25 must always be true on the wire")
	}

	var outcome search.Outcome
	if err := json.Unmarshal(w.Body.Bytes(), &outcome); err != nil {
		t.Fatal(err)
	}
	if outcome.Count != 1 || len(outcome.Records) != 1 {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	rec := outcome.Records[0]
	if !strings.Contains(string(rec.Title), "<mark>شبکه</mark>") {
		t.Errorf("title not highlighted: %q", rec.Title)
	}
	if rec.ScorePercent != "87.3" {
		t.Errorf("score percent = %q", rec.ScorePercent)
	}
	if len(rec.PersonRows) != 1 || len(rec.PersonRows[0].Names) != 2 {
		t.Errorf("person rows = %+v", rec.PersonRows)
	}
	if !outcome.Expansion.Visible {
		t.Error("expansion must be visible")
	}
}

func TestHandleSearch_emptyQuery(t *testing.T) {
	srv := newTestServer(t, "http://127.0.0.1:1")
	w := postSearch(t, srv, `{"query": ""}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleSearch_badOverrides(t *testing.T) {
	srv := newTestServer(t, "http://127.0.0.1:1")
	tests := []struct {
		name string
		body string
	}{
		{"bad parser mode", `{"query": "x", "parser_mode": "magic"}`},
		{"bad highlight policy", `{"query": "x", "highlight_policy": "both"}`},
		{"invalid json", `{"query": `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := postSearch(t, srv, tt.body); w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestHandleSearch_backendErrorIsSurfacedOnce(t *testing.T) {
	be := fakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "index not loaded"})
	})
	srv := newTestServer(t, be.URL)

	w := postSearch(t, srv, `{"query": "شبکه"}`)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(resp["error"], "index not loaded") {
		t.Errorf("backend error lost: %q", resp["error"])
	}
}

func TestHandleSearch_highlightPolicyOverride(t *testing.T) {
	be := fakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.SearchResponse{
			Query:         "شبکه",
			ExpandedQuery: "شبکه یادگیری",
			Count:         1,
			Results:       []models.RawDocument{{ID: 1, Title: "یادگیری در شبکه", Score: 0.5}},
		})
	})
	srv := newTestServer(t, be.URL)

	w := postSearch(t, srv, `{"query": "شبکه", "highlight_policy": "original_plus_expansion"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var outcome search.Outcome
	if err := json.Unmarshal(w.Body.Bytes(), &outcome); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(outcome.Records[0].Title), "<mark>یادگیری</mark>") {
		t.Errorf("added token not highlighted under broadened policy: %q", outcome.Records[0].Title)
	}
}

func TestUpdateSearchDefaults(t *testing.T) {
	var gotReq models.SearchRequest
	be := fakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(models.SearchResponse{Query: "x"})
	})
	srv := newTestServer(t, be.URL)

	opts := srv.searchDefaults()
	opts.TopK = 33
	opts.UseOrFallback = true
	srv.UpdateSearchDefaults(opts)

	if w := postSearch(t, srv, `{"query": "شبکه"}`); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if gotReq.TopK != 33 || !gotReq.UseOr {
		t.Errorf("reloaded defaults not applied: %+v", gotReq)
	}
}

func TestHandleHealth(t *testing.T) {
	be := fakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	srv := newTestServer(t, be.URL)

	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["status"] != "ok" || resp["backend"] != "ok" {
		t.Errorf("health = %v", resp)
	}
}

func TestHandleHealth_backendDown(t *testing.T) {
	srv := newTestServer(t, "http://127.0.0.1:1")
	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("gateway itself is healthy, status = %d", w.Code)
	}
	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["backend"] != "unreachable" {
		t.Errorf("backend status = %q, want unreachable", resp["backend"])
	}
}

func TestHandleModels(t *testing.T) {
	be := fakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.ModelsResponse{
			Models: []models.ModelInfo{{Key: "bge-base", Label: "BGE Base", Default: true}},
		})
	})
	srv := newTestServer(t, be.URL)

	r := httptest.NewRequest(http.MethodGet, "/api/models", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp models.ModelsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Models) != 1 || resp.Models[0].Key != "bge-base" {
		t.Errorf("models = %+v", resp)
	}
}
