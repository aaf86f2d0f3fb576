package translation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPBackend_Translate_Success(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "en", r.URL.Query().Get("sl"))
		assert.Equal(t, "ru", r.URL.Query().Get("tl"))
		assert.Equal(t, "Hello world", r.URL.Query().Get("q"))
		w.Write([]byte(`[[["Привет мир","Hello world",null,null,10]],null,"en"]`))
	}))
	defer server.Close()

	backend := NewHTTPBackend(server.URL)

	// Act
	out, err := backend.Translate(context.Background(), "Hello world", "en", "ru")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Привет мир", out)
}

func TestHTTPBackend_Translate_JoinsMultipleChunks(t *testing.T) {
	// Arrange - long inputs come back as multiple sentence chunks
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[[["First part. ","x"],["Second part.","y"]],null,"en"]`))
	}))
	defer server.Close()

	backend := NewHTTPBackend(server.URL)

	// Act
	out, err := backend.Translate(context.Background(), "irrelevant", "en", "uk")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "First part. Second part.", out)
}

func TestHTTPBackend_Translate_RetriesServerErrors(t *testing.T) {
	// Arrange - first attempt 503, second succeeds
	t.Setenv("VST_TRANSLATE_BASE_BACKOFF_MS", "1")
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[[["ok","ok"]],null,"en"]`))
	}))
	defer server.Close()

	backend := NewHTTPBackend(server.URL)

	// Act
	out, err := backend.Translate(context.Background(), "ok", "en", "ru")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestHTTPBackend_Translate_ClientErrorNotRetried(t *testing.T) {
	// Arrange
	t.Setenv("VST_TRANSLATE_BASE_BACKOFF_MS", "1")
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	backend := NewHTTPBackend(server.URL)

	// Act
	_, err := backend.Translate(context.Background(), "bad", "en", "ru")

	// Assert - one request, and the error reports the real attempt count
	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Contains(t, err.Error(), "failed after 1 attempt(s)")
}

func TestHTTPBackend_Translate_MalformedResponse(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"an array"}`))
	}))
	defer server.Close()

	backend := NewHTTPBackend(server.URL)

	// Act
	_, err := backend.Translate(context.Background(), "text", "en", "ru")

	// Assert
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse translation response")
}

func TestHTTPBackend_Translate_RespectsContextCancellation(t *testing.T) {
	// Arrange
	t.Setenv("VST_TRANSLATE_BASE_BACKOFF_MS", "60000")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	backend := NewHTTPBackend(server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Act
	_, err := backend.Translate(ctx, "text", "en", "ru")

	// Assert
	assert.Error(t, err)
}
