package musiclink

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"songbridge/pkg/fuzzy"
)

func TestFetchJSON(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"title":"Song","artist":{"name":"Band"}}`))
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"title":`))
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newHTTPClient()

	t.Run("valid document", func(t *testing.T) {
		doc, err := fetchJSON(context.Background(), client, server.URL+"/ok", "Test API")
		if err != nil {
			t.Fatalf("fetchJSON() error = %v", err)
		}
		if got := doc.Get("artist.name").String(); got != "Band" {
			t.Errorf("artist.name = %q, want Band", got)
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := fetchJSON(context.Background(), client, server.URL+"/broken", "Test API")
		if err == nil || !strings.Contains(err.Error(), "invalid JSON") {
			t.Errorf("fetchJSON() error = %v, want invalid JSON", err)
		}
	})

	t.Run("non-200 status", func(t *testing.T) {
		_, err := fetchJSON(context.Background(), client, server.URL+"/missing", "Test API")
		if err == nil || !strings.Contains(err.Error(), "Test API returned status 404") {
			t.Errorf("fetchJSON() error = %v, want status error", err)
		}
	})
}

func TestFetchPageMeta(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/og", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><head>
			<title>Fallback</title>
			<meta property="og:title" content=" Open Graph Title ">
		</head><body></body></html>`))
	})
	mux.HandleFunc("/plain", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>Only Title</title></head></html>`))
	})
	mux.HandleFunc("/short", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/plain", http.StatusFound)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newHTTPClient()

	tests := []struct {
		name      string
		path      string
		wantTitle string
		wantFinal string
	}{
		{"og:title preferred", "/og", "Open Graph Title", "/og"},
		{"title fallback", "/plain", "Only Title", "/plain"},
		{"redirect followed", "/short", "Only Title", "/plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, err := fetchPageMeta(context.Background(), client, server.URL+tt.path, "Test")
			if err != nil {
				t.Fatalf("fetchPageMeta() error = %v", err)
			}
			if meta.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", meta.Title, tt.wantTitle)
			}
			if meta.FinalURL != server.URL+tt.wantFinal {
				t.Errorf("FinalURL = %q, want %q", meta.FinalURL, server.URL+tt.wantFinal)
			}
		})
	}
}

func TestBestMatch(t *testing.T) {
	normalizer := fuzzy.NewNormalizer()

	candidates := []TrackInfo{
		{Title: "Yesterday Once More", Artist: "Carpenters", URL: "a"},
		{Title: "Yesterday", Artist: "The Beatles", URL: "b"},
	}

	t.Run("closest candidate", func(t *testing.T) {
		got, err := bestMatch(normalizer, candidates, "Yesterday", "The Beatles")
		if err != nil {
			t.Fatalf("bestMatch() error = %v", err)
		}
		if got.URL != "b" {
			t.Errorf("bestMatch() URL = %q", got.URL)
		}
	})

	t.Run("nothing close enough", func(t *testing.T) {
		_, err := bestMatch(normalizer, candidates, "Qqqq", "Zzzz")
		if !errors.Is(err, ErrNoResults) {
			t.Errorf("bestMatch() error = %v, want ErrNoResults", err)
		}
	})

	t.Run("no candidates", func(t *testing.T) {
		_, err := bestMatch(normalizer, nil, "Yesterday", "The Beatles")
		if !errors.Is(err, ErrNoResults) {
			t.Errorf("bestMatch() error = %v, want ErrNoResults", err)
		}
	})
}
