package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOpenAI serves the embeddings and models endpoints with
// deterministic vectors derived from input length.
func fakeOpenAI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/models", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("/embeddings", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input []string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		data := make([]map[string]any, len(req.Input))
		// Answer out of order to exercise index-based reassembly.
		for i := len(req.Input) - 1; i >= 0; i-- {
			data[len(req.Input)-1-i] = map[string]any{
				"embedding": []float64{float64(len(req.Input[i])), 1, 0},
				"index":     i,
			}
		}
		json.NewEncoder(w).Encode(map[string]any{"data": data})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestNewEmbeddingService_RequiresAPIKey(t *testing.T) {
	_, err := NewEmbeddingService(Config{})
	assert.ErrorContains(t, err, "API key")
}

func TestDefaults(t *testing.T) {
	s, err := NewEmbeddingService(Config{APIKey: "test-key"})
	require.NoError(t, err)
	assert.Equal(t, "text-embedding-3-small", s.ModelName())
	assert.Equal(t, 1536, s.Dimensions())
}

func TestEmbedBatch_ReordersByIndex(t *testing.T) {
	srv := fakeOpenAI(t)
	s, err := NewEmbeddingService(Config{APIKey: "test-key", BaseURL: srv.URL, Model: "text-embedding-ada-002"})
	require.NoError(t, err)

	vecs, err := s.EmbedBatch(context.Background(), []string{"a", "bb", "ccc"})
	require.NoError(t, err)
	require.Len(t, vecs, 3)
	assert.Equal(t, float32(1), vecs[0][0])
	assert.Equal(t, float32(2), vecs[1][0])
	assert.Equal(t, float32(3), vecs[2][0])
}

func TestEmbed(t *testing.T) {
	srv := fakeOpenAI(t)
	s, err := NewEmbeddingService(Config{APIKey: "test-key", BaseURL: srv.URL, Model: "text-embedding-ada-002"})
	require.NoError(t, err)

	vec, err := s.Embed(context.Background(), "pool")
	require.NoError(t, err)
	assert.Equal(t, []float32{4, 1, 0}, vec)
}

func TestPing(t *testing.T) {
	srv := fakeOpenAI(t)

	s, err := NewEmbeddingService(Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)
	assert.NoError(t, s.Ping(context.Background()))

	bad, err := NewEmbeddingService(Config{APIKey: "wrong", BaseURL: srv.URL})
	require.NoError(t, err)
	assert.Error(t, bad.Ping(context.Background()))
}
