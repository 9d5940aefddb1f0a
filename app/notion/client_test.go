package notion

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(Options{
		BaseURL:   srv.URL,
		Token:     "secret",
		BaseDelay: time.Millisecond,
		MaxDelay:  5 * time.Millisecond,
	})
}

func TestGetPageSendsAuthHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "2025-09-03", r.Header.Get("Notion-Version"))
		assert.Equal(t, "/v1/pages/p-1", r.URL.Path)
		_, _ = w.Write([]byte(`{"object":"page","id":"p-1","parent":{"type":"page_id","page_id":"root"}}`))
	}))
	defer srv.Close()

	page, err := newTestClient(srv).GetPage(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, "p-1", page.ID)
	assert.True(t, page.IsFull())
}

func TestRetriesOn429ThenSucceeds(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"object":"database","id":"db-1","data_sources":[{"id":"ds-1"}]}`))
	}))
	defer srv.Close()

	db, err := newTestClient(srv).GetDatabase(context.Background(), "db-1")
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, "ds-1", db.PrimaryDataSource())
}

func TestRetriesExhaustedOn500(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).GetPage(context.Background(), "p-1")
	require.Error(t, err)
	// initial attempt plus the default three retries
	assert.Equal(t, 4, attempts)
	assert.Contains(t, err.Error(), "status=500")
}

func TestClientErrorNotRetried(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"object":"error","code":"object_not_found","message":"Could not find page"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).GetPage(context.Background(), "p-1")
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.Contains(t, err.Error(), "object_not_found")
	assert.Contains(t, err.Error(), "Could not find page")
}

func TestCreateDatabasePayload(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/databases", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`{"object":"database","id":"db-1","data_sources":[{"id":"ds-1"}]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).CreateDatabase(context.Background(), "page-1", "Topics")
	require.NoError(t, err)

	parent := got["parent"].(map[string]any)
	assert.Equal(t, "page_id", parent["type"])
	assert.Equal(t, "page-1", parent["page_id"])
	initial := got["initial_data_source"].(map[string]any)
	props := initial["properties"].(map[string]any)
	assert.Contains(t, props, "Name")
	assert.Contains(t, props, "Description")
}

func TestCreatePagePayload(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`{"object":"page","id":"p-1","parent":{"type":"data_source_id","data_source_id":"ds-1"}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).CreatePage(context.Background(), "ds-1", "General", "Starter topic")
	require.NoError(t, err)

	parent := got["parent"].(map[string]any)
	assert.Equal(t, "data_source_id", parent["type"])
	assert.Equal(t, "ds-1", parent["data_source_id"])
	props := got["properties"].(map[string]any)
	assert.Contains(t, props, "Name")
	assert.Contains(t, props, "Description")
}

func TestBlockChildrenPaginates(t *testing.T) {
	// opaque cursor with characters that must survive query encoding
	const cursor = "v2:abc+def/ghi=="
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("start_cursor") == "" {
			_, _ = w.Write([]byte(`{"object":"list","results":[{"a":1}],"has_more":true,"next_cursor":"` + cursor + `"}`))
			return
		}
		assert.Equal(t, cursor, r.URL.Query().Get("start_cursor"))
		_, _ = w.Write([]byte(`{"object":"list","results":[{"b":2}],"has_more":false}`))
	}))
	defer srv.Close()

	blocks, err := newTestClient(srv).GetBlockChildren(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Len(t, blocks, 2)
}

func TestEmptyTokenRejected(t *testing.T) {
	c := NewClient(Options{BaseURL: "http://127.0.0.1:0"})
	_, err := c.GetPage(context.Background(), "p-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token is empty")
}

func TestRetryDelayCapped(t *testing.T) {
	c := NewClient(Options{Token: "x", BaseDelay: 100 * time.Millisecond, MaxDelay: 300 * time.Millisecond})
	assert.Equal(t, 100*time.Millisecond, c.retryDelay(1, ""))
	assert.Equal(t, 200*time.Millisecond, c.retryDelay(2, ""))
	assert.Equal(t, 300*time.Millisecond, c.retryDelay(3, ""))
	assert.Equal(t, 300*time.Millisecond, c.retryDelay(8, ""))

	// Retry-After wins over backoff but is still capped
	assert.Equal(t, 300*time.Millisecond, c.retryDelay(1, "30"))
	assert.Equal(t, 100*time.Millisecond, c.retryDelay(1, "garbage"))
}
