package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/matzehuels/vrplot/pkg/cache"
	"github.com/matzehuels/vrplot/pkg/errors"
)

const body = "a,b,c\n1,2,3\n"

func TestFetchCaches(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Header.Get("User-Agent") != "vrplot" {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := NewClient(fc, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		data, err := c.Fetch(ctx, srv.URL+"/iris.csv", false)
		if err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}
		if string(data) != body {
			t.Errorf("Fetch() = %q", data)
		}
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("server called %d times, want 1", n)
	}

	if _, err := c.Fetch(ctx, srv.URL+"/iris.csv", true); err != nil {
		t.Fatal(err)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("refresh did not refetch: %d calls", n)
	}
}

func TestFetchRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	data, err := NewClient(nil, nil).Fetch(context.Background(), srv.URL, false)
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if string(data) != body || calls.Load() != 2 {
		t.Errorf("Fetch() = %q after %d calls", data, calls.Load())
	}
}

func TestFetchErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing.csv":
			http.NotFound(w, r)
		default:
			w.WriteHeader(http.StatusForbidden)
		}
	}))
	defer srv.Close()
	c := NewClient(nil, nil)

	tests := []struct {
		url  string
		want errors.Code
	}{
		{srv.URL + "/missing.csv", errors.ErrCodeFileNotFound},
		{srv.URL + "/private.csv", errors.ErrCodeNetwork},
		{"ftp://example.com/iris.csv", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		_, err := c.Fetch(context.Background(), tt.url, false)
		if !errors.Is(err, tt.want) {
			t.Errorf("Fetch(%s) error = %v, want code %s", tt.url, err, tt.want)
		}
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		url, name, ext string
	}{
		{"https://example.com/data/iris.csv", "iris", ".csv"},
		{"https://example.com/mtcars.JSON?raw=1", "mtcars", ".json"},
		{"https://example.com/", "data", ""},
		{"https://example.com", "data", ""},
	}
	for _, tt := range tests {
		name, ext := Name(tt.url)
		if name != tt.name || ext != tt.ext {
			t.Errorf("Name(%q) = %q, %q; want %q, %q", tt.url, name, ext, tt.name, tt.ext)
		}
	}
}

func TestIsURL(t *testing.T) {
	for s, want := range map[string]bool{
		"https://example.com/iris.csv": true,
		"http://localhost/x.json":      true,
		"iris.csv":                     false,
		"/tmp/iris.csv":                false,
	} {
		if got := IsURL(s); got != want {
			t.Errorf("IsURL(%q) = %v, want %v", s, got, want)
		}
	}
}
