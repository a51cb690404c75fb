package pinecone

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manova/internal/platform/logger"
)

func testClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(logger.NewNop(), Config{
		APIKey:    "test-key",
		IndexHost: srv.URL,
		Timeout:   5 * time.Second,
	})
	require.NoError(t, err)
	return c
}

func TestNewValidation(t *testing.T) {
	_, err := New(logger.NewNop(), Config{IndexHost: "h"})
	assert.Error(t, err, "missing api key")

	_, err = New(logger.NewNop(), Config{APIKey: "k"})
	assert.Error(t, err, "missing index host")

	_, err = New(nil, Config{APIKey: "k", IndexHost: "h"})
	assert.Error(t, err, "missing logger")
}

func TestUpsertSendsHeadersAndBody(t *testing.T) {
	var gotPath, gotKey, gotVersion string
	var gotBody UpsertRequest

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("Api-Key")
		gotVersion = r.Header.Get("X-Pinecone-Api-Version")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(UpsertResponse{UpsertedCount: 1})
	})

	resp, err := c.Upsert(context.Background(), UpsertRequest{
		Namespace: "manova",
		Vectors:   []Vector{{ID: "u1_123_abc", Values: []float32{0.1, 0.2}}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.UpsertedCount)
	assert.Equal(t, "/vectors/upsert", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "2025-01", gotVersion)
	assert.Equal(t, "manova", gotBody.Namespace)
	require.Len(t, gotBody.Vectors, 1)
}

func TestUpsertEmptyIsNoop(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an empty upsert")
	})

	resp, err := c.Upsert(context.Background(), UpsertRequest{})
	require.NoError(t, err)
	assert.Zero(t, resp.UpsertedCount)
}

func TestQuery(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query", r.URL.Path)
		var req QueryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 10, req.TopK, "topK defaults when unset")
		json.NewEncoder(w).Encode(QueryResponse{Matches: []QueryMatch{
			{ID: "a", Score: 0.93, Metadata: map[string]any{"domain": "Health"}},
		}})
	})

	resp, err := c.Query(context.Background(), QueryRequest{Vector: []float32{1}})
	require.NoError(t, err)
	require.Len(t, resp.Matches, 1)
	assert.Equal(t, 0.93, resp.Matches[0].Score)
}

func TestQueryRequiresVector(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {})
	_, err := c.Query(context.Background(), QueryRequest{})
	assert.Error(t, err)
}

func TestListIDsPaginates(t *testing.T) {
	calls := 0
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/vectors/list", r.URL.Path)
		assert.Equal(t, "u1_", r.URL.Query().Get("prefix"))
		if calls == 1 {
			w.Write([]byte(`{"vectors":[{"id":"u1_1"},{"id":"u1_2"}],"pagination":{"next":"tok"}}`))
			return
		}
		assert.Equal(t, "tok", r.URL.Query().Get("paginationToken"))
		w.Write([]byte(`{"vectors":[{"id":"u1_3"}],"pagination":{}}`))
	})

	ids, err := c.ListIDs(context.Background(), "manova", "u1_", 100)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1_1", "u1_2", "u1_3"}, ids)
	assert.Equal(t, 2, calls)
}

func TestDeleteIDs(t *testing.T) {
	var got deleteRequest
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/vectors/delete", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{}`))
	})

	require.NoError(t, c.DeleteIDs(context.Background(), "manova", []string{"a", "b"}))
	assert.Equal(t, []string{"a", "b"}, got.IDs)
	assert.Equal(t, "manova", got.Namespace)

	// Empty delete never hits the wire.
	require.NoError(t, c.DeleteIDs(context.Background(), "manova", nil))
}

func TestIndexNotFound(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "index not found", http.StatusNotFound)
	})

	_, err := c.Query(context.Background(), QueryRequest{Vector: []float32{1}})
	assert.ErrorIs(t, err, ErrIndexNotFound)
}

func TestServerError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.Query(context.Background(), QueryRequest{Vector: []float32{1}})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrIndexNotFound)
}
