package helpers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchUTF8Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		w.Write([]byte("<feed>ok</feed>"))
	}))
	defer server.Close()

	body, err := FetchUTF8(context.Background(), server.URL)
	require.NoError(t, err)

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "<feed>ok</feed>", string(data))
}

func TestFetchUTF8RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "60")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := FetchUTF8(context.Background(), server.URL)
	require.Error(t, err)
	assert.True(t, IsRateLimited(err))
	assert.Contains(t, err.Error(), "60")
}

func TestFetchUTF8UnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := FetchUTF8(context.Background(), server.URL)
	require.Error(t, err)
	assert.False(t, IsRateLimited(err))
	assert.Contains(t, err.Error(), "404")
}

func TestFetchUTF8ConvertsLegacyEncoding(t *testing.T) {
	// "café" in ISO-8859-1
	latin1 := []byte{'c', 'a', 'f', 0xe9}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml; charset=iso-8859-1")
		w.Write(latin1)
	}))
	defer server.Close()

	body, err := FetchUTF8(context.Background(), server.URL)
	require.NoError(t, err)

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "café", string(data))
}

func TestIsRateLimitedOnOtherError(t *testing.T) {
	assert.False(t, IsRateLimited(context.Canceled))
}
