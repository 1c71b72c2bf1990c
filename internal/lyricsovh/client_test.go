package lyricsovh

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/AC/DC/Back In Black", r.URL.Path)
		_, _ = w.Write([]byte(`{"lyrics":"Back in black\nI hit the sack"}`))
	}))
	defer srv.Close()

	text, err := New(WithBaseURL(srv.URL)).Get(context.Background(), "AC/DC", "Back In Black")
	require.NoError(t, err)
	assert.Equal(t, "Back in black\nI hit the sack", text)
}

func TestClient_Get_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"No lyrics found"}`))
	}))
	defer srv.Close()

	_, err := New(WithBaseURL(srv.URL)).Get(context.Background(), "a", "b")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_Get_EmptyLyrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"lyrics":""}`))
	}))
	defer srv.Close()

	_, err := New(WithBaseURL(srv.URL)).Get(context.Background(), "a", "b")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_Get_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := New(WithBaseURL(srv.URL)).Get(context.Background(), "a", "b")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
