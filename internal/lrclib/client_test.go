package lrclib

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/get", r.URL.Path)
		assert.Equal(t, "Artist", r.URL.Query().Get("artist_name"))
		assert.Equal(t, "Song", r.URL.Query().Get("track_name"))
		assert.Equal(t, "Album", r.URL.Query().Get("album_name"))
		assert.Equal(t, "215", r.URL.Query().Get("duration"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"id":7,"trackName":"Song","artistName":"Artist","albumName":"Album",` +
			`"duration":215.0,"instrumental":false,"plainLyrics":"words","syncedLyrics":"[00:01.00]words"}`))
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL + "/"))
	res, err := c.Get(context.Background(), GetParams{
		Artist:   "Artist",
		Title:    "Song",
		Album:    "Album",
		Duration: 215 * time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, res.ID)
	assert.True(t, res.HasSyncedLyrics())
	assert.True(t, res.HasPlainLyrics())
	assert.Equal(t, "[00:01.00]words", res.SyncedLyrics)
}

func TestClient_Get_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Failed to find specified track"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := New(WithBaseURL(srv.URL)).Get(context.Background(), GetParams{Artist: "a", Title: "b"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_Get_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(WithBaseURL(srv.URL)).Get(context.Background(), GetParams{Artist: "a", Title: "b"})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadGateway, se.Code)
}

func TestClient_Get_NullLyrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":1,"trackName":"x","syncedLyrics":null,"plainLyrics":null}`))
	}))
	defer srv.Close()

	res, err := New(WithBaseURL(srv.URL)).Get(context.Background(), GetParams{Artist: "a", Title: "x"})
	require.NoError(t, err)
	assert.False(t, res.HasSyncedLyrics())
	assert.False(t, res.HasPlainLyrics())
}

func TestClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "artist song", r.URL.Query().Get("q"))
		assert.Equal(t, "song", r.URL.Query().Get("track_name"))
		assert.False(t, r.URL.Query().Has("album_name"))
		_, _ = w.Write([]byte(`[{"id":1,"trackName":"song","artistName":"artist"},{"id":2,"trackName":"song (live)"}]`))
	}))
	defer srv.Close()

	results, err := New(WithBaseURL(srv.URL)).Search(context.Background(), SearchParams{
		Query: "artist song",
		Track: "song",
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 2, results[1].ID)
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := New(WithBaseURL(srv.URL), WithTimeout(20*time.Millisecond)).
		Get(context.Background(), GetParams{Artist: "a", Title: "b"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
