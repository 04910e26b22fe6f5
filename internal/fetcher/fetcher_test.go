package fetcher_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"raven_news/internal/fetcher"

	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	const feed = `<?xml version="1.0"?><rss version="2.0"><channel></channel></rss>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(feed))
	}))
	defer server.Close()

	f := fetcher.New(5 * time.Second)
	body, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	require.Equal(t, feed, string(body))
}

func TestFetchBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	f := fetcher.New(5 * time.Second)
	_, err := f.Fetch(context.Background(), server.URL)
	require.Error(t, err)

	var fetchErr *fetcher.FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	require.Equal(t, server.URL, fetchErr.URL)
}

func TestFetchTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	f := fetcher.New(5 * time.Second)
	_, err := f.Fetch(ctx, server.URL)
	require.Error(t, err)

	var fetchErr *fetcher.FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.Zero(t, fetchErr.StatusCode)
}

func TestFetchConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	f := fetcher.New(time.Second)
	_, err := f.Fetch(context.Background(), url)
	require.Error(t, err)

	var fetchErr *fetcher.FetchError
	require.True(t, errors.As(err, &fetchErr))
}
