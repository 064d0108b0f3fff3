package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"google.golang.org/api/option"

	"github.com/lehigh-university-libraries/bookmatch/internal/metrics"
	"github.com/lehigh-university-libraries/bookmatch/internal/providers"
)

type stubSearcher struct {
	snippets []Snippet
	err      error
	calls    int
}

func (s *stubSearcher) Search(ctx context.Context, query string) ([]Snippet, error) {
	s.calls++
	return s.snippets, s.err
}

type stubProvider struct {
	response string
	err      error
	prompts  []string
}

func (p *stubProvider) Generate(ctx context.Context, config providers.Config) (string, error) {
	p.prompts = append(p.prompts, config.Prompt)
	return p.response, p.err
}

func TestChain(t *testing.T) {
	failing := &stubSearcher{err: errors.New("boom")}
	empty := &stubSearcher{snippets: []Snippet{{Text: "  "}}}
	good := &stubSearcher{snippets: []Snippet{{Text: "A synopsis"}}}
	unused := &stubSearcher{snippets: []Snippet{{Text: "never"}}}

	chain := Chain{failing, empty, good, unused}
	snippets, err := chain.Search(context.Background(), "q")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(snippets) != 1 || snippets[0].Text != "A synopsis" {
		t.Errorf("Expected snippet from third source, got %+v", snippets)
	}
	if failing.calls != 1 || empty.calls != 1 || good.calls != 1 {
		t.Errorf("Expected each source up to the hit to be called once, got %d %d %d", failing.calls, empty.calls, good.calls)
	}
	if unused.calls != 0 {
		t.Errorf("Expected sources after the hit to be skipped, got %d calls", unused.calls)
	}
}

func TestChainAllFailed(t *testing.T) {
	chain := Chain{&stubSearcher{err: errors.New("first")}, &stubSearcher{err: errors.New("second")}}
	_, err := chain.Search(context.Background(), "q")
	if err == nil {
		t.Fatal("Expected error when every source fails")
	}
	if !strings.Contains(err.Error(), "first") || !strings.Contains(err.Error(), "second") {
		t.Errorf("Expected joined errors, got %v", err)
	}
}

func TestChainNothingFound(t *testing.T) {
	snippets, err := Chain{&stubSearcher{}}.Search(context.Background(), "q")
	if err != nil || len(snippets) != 0 {
		t.Errorf("Expected no snippets and no error, got %v, %v", snippets, err)
	}
}

func TestJoin(t *testing.T) {
	snippets := []Snippet{{Text: "one"}, {Text: ""}, {Text: " two "}, {Text: "three"}, {Text: "four"}}

	if got := Join(snippets, 3); got != "one two" {
		t.Errorf("Expected %q, got %q", "one two", got)
	}
	if got := Join(snippets, 0); got != "one two three four" {
		t.Errorf("Expected %q, got %q", "one two three four", got)
	}
}

func TestBooksSearch(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/volumes") {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{"volumeInfo": map[string]any{"title": "Dune", "description": "Desert planet politics."}},
				{"volumeInfo": map[string]any{"title": "Dune Messiah"}, "searchInfo": map[string]any{"textSnippet": "Paul rules."}},
				{"volumeInfo": map[string]any{"title": "Empty"}},
			},
		})
	}))
	defer srv.Close()

	b, err := NewBooks(context.Background(), "key", option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewBooks() error = %v", err)
	}

	snippets, err := b.Search(context.Background(), "Dune Frank Herbert")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if gotQuery != "Dune Frank Herbert" {
		t.Errorf("Expected query to be forwarded, got %q", gotQuery)
	}
	if len(snippets) != 2 {
		t.Fatalf("Expected 2 snippets, got %d: %+v", len(snippets), snippets)
	}
	if snippets[0].Text != "Desert planet politics." || snippets[1].Text != "Paul rules." {
		t.Errorf("Unexpected snippets: %+v", snippets)
	}
}

func TestWebSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("cx") != "engine" {
			http.Error(w, "missing cx", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{"title": "Review", "snippet": "A sweeping epic."},
			},
		})
	}))
	defer srv.Close()

	web, err := NewWeb(context.Background(), "key", "engine", option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewWeb() error = %v", err)
	}

	snippets, err := web.Search(context.Background(), "Dune")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(snippets) != 1 || snippets[0].Text != "A sweeping epic." {
		t.Errorf("Unexpected snippets: %+v", snippets)
	}
}

func TestNewWebRequiresCredentials(t *testing.T) {
	if _, err := NewWeb(context.Background(), "", "engine"); err == nil {
		t.Error("Expected error for missing API key")
	}
	if _, err := NewWeb(context.Background(), "key", ""); err == nil {
		t.Error("Expected error for missing engine ID")
	}
}

func TestGenerativeSearch(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
		wantText string
		wantErr  bool
	}{
		{name: "returns synopsis", response: " A long synopsis. ", wantText: "A long synopsis."},
		{name: "unknown book", response: "UNKNOWN"},
		{name: "empty response", response: ""},
		{name: "backend error", err: errors.New("down"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &stubProvider{response: tt.response, err: tt.err}
			snippets, err := NewGenerative(p, "stub", "m", 0.1).Search(context.Background(), "Dune Frank Herbert")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error=%v, got %v", tt.wantErr, err)
			}
			if len(p.prompts) != 1 || !strings.Contains(p.prompts[0], "Dune Frank Herbert") {
				t.Errorf("Expected one prompt containing the query, got %v", p.prompts)
			}
			got := Join(snippets, 0)
			if got != tt.wantText {
				t.Errorf("Expected %q, got %q", tt.wantText, got)
			}
		})
	}
}

func TestGenerativeSearchRecordsGeneration(t *testing.T) {
	before := testutil.CollectAndCount(metrics.GenerationDuration)
	name := fmt.Sprintf("synopsis-%d", time.Now().UnixNano())

	p := &stubProvider{response: "A synopsis."}
	if _, err := NewGenerative(p, name, "m", 0.1).Search(context.Background(), "Emma"); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	p = &stubProvider{err: errors.New("down")}
	if _, err := NewGenerative(p, name, "m", 0.1).Search(context.Background(), "Emma"); err == nil {
		t.Fatal("Expected backend error")
	}

	if got := testutil.CollectAndCount(metrics.GenerationDuration) - before; got != 2 {
		t.Errorf("Expected success and error series for the synopsis backend, got %d new series", got)
	}
}
