package quotes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClient_Quote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/quote", r.URL.Path)
		require.Equal(t, "ACME", r.URL.Query().Get("symbol"))
		require.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"symbol":"ACME","close":"42.50"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	payload, err := client.Quote(context.Background(), "ACME")
	require.NoError(t, err)
	require.JSONEq(t, `{"symbol":"ACME","close":"42.50"}`, string(payload))
}

func TestClient_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/symbol_search", r.URL.Path)
		w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	_, err := client.Search(context.Background(), "AC")
	require.NoError(t, err)
}

func TestClient_MissingAPIKey(t *testing.T) {
	client := NewClient("http://localhost", "")
	_, err := client.Quote(context.Background(), "ACME")
	require.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestClient_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	_, err := client.Quote(context.Background(), "ACME")
	require.Error(t, err)
	require.Contains(t, err.Error(), "429")
}

func TestClient_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	_, err := client.Quote(context.Background(), "ACME")
	require.Error(t, err)
}
