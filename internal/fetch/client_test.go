package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Document(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "munistats-test/1.0", r.Header.Get("User-Agent"))
		fmt.Fprint(w, `<html><body><table><tr><td id="v">hello</td></tr></table></body></html>`)
	}))
	defer srv.Close()

	c := NewClient(Options{UserAgent: "munistats-test/1.0", MaxRetries: 1})
	doc, err := c.Document(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "hello", doc.Find("#v").Text())
}

func TestClient_Document_RetriesServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `<html><body><table><tr><td id="v">recovered</td></tr></table></body></html>`)
	}))
	defer srv.Close()

	c := NewClient(Options{MaxRetries: 3})
	doc, err := c.Document(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "recovered", doc.Find("#v").Text())
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_Document_RetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(Options{MaxRetries: 1})
	_, err := c.Document(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_Document_NoRetryOnNotFound(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient(Options{MaxRetries: 3})
	_, err := c.Document(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Equal(t, int32(1), calls.Load(), "client errors are not transient")
}

func TestClient_Document_Pacing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body></body></html>`)
	}))
	defer srv.Close()

	delay := 50 * time.Millisecond
	c := NewClient(Options{MaxRetries: 1, Delay: delay})

	start := time.Now()
	for range 3 {
		_, err := c.Document(context.Background(), srv.URL)
		require.NoError(t, err)
	}
	// first request is immediate, the next two honor the pacing floor
	assert.GreaterOrEqual(t, time.Since(start), 2*delay)
}

func TestClient_Document_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body></body></html>`)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(Options{MaxRetries: 1})
	_, err := c.Document(ctx, srv.URL)
	require.Error(t, err)
}

func TestClient_Document_Charset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=windows-1252")
		// 0x93/0x94 are curly quotes in windows-1252
		w.Write([]byte("<html><body><table><tr><td id=\"v\">\x93quoted\x94</td></tr></table></body></html>"))
	}))
	defer srv.Close()

	c := NewClient(Options{MaxRetries: 1})
	doc, err := c.Document(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "“quoted”", doc.Find("#v").Text())
}
