package translation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// HTTPBackend translates text through a Google-translate-compatible HTTP
// endpoint, retrying transient failures with exponential backoff
type HTTPBackend struct {
	endpoint      string
	client        *http.Client
	logger        *zap.Logger
	maxRetries    int
	baseBackoffMs int
}

// NewHTTPBackend creates an HTTPBackend for the given endpoint
func NewHTTPBackend(endpoint string) *HTTPBackend {
	maxRetries := 3
	baseBackoffMs := 500

	// Allow test environment to override retry parameters
	if envMaxRetries := os.Getenv("VST_TRANSLATE_MAX_RETRIES"); envMaxRetries != "" {
		if retries, err := strconv.Atoi(envMaxRetries); err == nil && retries >= 0 {
			maxRetries = retries
		}
	}
	if envBackoff := os.Getenv("VST_TRANSLATE_BASE_BACKOFF_MS"); envBackoff != "" {
		if backoff, err := strconv.Atoi(envBackoff); err == nil && backoff >= 0 {
			baseBackoffMs = backoff
		}
	}

	return &HTTPBackend{
		endpoint:      endpoint,
		client:        createTranslationHTTPClient(),
		logger:        zap.NewNop(), // Default to no-op logger
		maxRetries:    maxRetries,
		baseBackoffMs: baseBackoffMs,
	}
}

// NewHTTPBackendWithLogger creates an HTTPBackend with a custom logger
func NewHTTPBackendWithLogger(endpoint string, logger *zap.Logger) *HTTPBackend {
	b := NewHTTPBackend(endpoint)
	if logger != nil {
		b.logger = logger
	}
	return b
}

// createTranslationHTTPClient creates an HTTP client with separate timeouts
// for connection establishment and the full request
func createTranslationHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: 10 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 15 * time.Second,
			MaxIdleConnsPerHost:   4,
		},
	}
}

// Translate requests a translation, retrying on transport errors and 5xx
// responses
func (b *HTTPBackend) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	var lastErr error
	attempts := 0

	for attempt := 0; attempt <= b.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(b.baseBackoffMs*(1<<(attempt-1))) * time.Millisecond
			b.logger.Debug("retrying translation request",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff))

			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		attempts++
		translated, retryable, err := b.translateOnce(ctx, text, sourceLang, targetLang)
		if err == nil {
			return translated, nil
		}

		lastErr = err
		if !retryable {
			break
		}
		b.logger.Warn("translation request failed",
			zap.Error(err),
			zap.Int("attempt", attempt),
			zap.Int("max_retries", b.maxRetries))
	}

	return "", fmt.Errorf("translation failed after %d attempt(s): %w", attempts, lastErr)
}

// translateOnce performs a single request; the second return value reports
// whether the failure is worth retrying
func (b *HTTPBackend) translateOnce(ctx context.Context, text, sourceLang, targetLang string) (string, bool, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", sourceLang)
	params.Set("tl", targetLang)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", false, fmt.Errorf("failed to build translation request: %w", err)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("translation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return "", true, fmt.Errorf("translation service returned status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("translation service returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, fmt.Errorf("failed to read translation response: %w", err)
	}

	translated, err := parseTranslationResponse(body)
	if err != nil {
		return "", false, err
	}

	return translated, false, nil
}

// parseTranslationResponse extracts the translated text from the nested
// array payload the gtx endpoint returns:
// [[["translated","original",...],...],...]
func parseTranslationResponse(body []byte) (string, error) {
	var payload []interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("failed to parse translation response: %w", err)
	}

	if len(payload) == 0 {
		return "", fmt.Errorf("translation response is empty")
	}

	chunks, ok := payload[0].([]interface{})
	if !ok {
		return "", fmt.Errorf("unexpected translation response shape")
	}

	var sb strings.Builder
	for _, chunk := range chunks {
		parts, ok := chunk.([]interface{})
		if !ok || len(parts) == 0 {
			continue
		}
		if piece, ok := parts[0].(string); ok {
			sb.WriteString(piece)
		}
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("translation response contained no text")
	}

	return sb.String(), nil
}
