package translation

import (
	"context"
	"fmt"
)

// Backend translates text between languages. Implementations wrap an
// external translation service; the pipeline only depends on this interface.
type Backend interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// MockBackend is a test backend that tags text instead of translating it
type MockBackend struct{}

// NewMockBackend creates a MockBackend
func NewMockBackend() *MockBackend {
	return &MockBackend{}
}

// Translate returns the input prefixed with the language pair
func (m *MockBackend) Translate(_ context.Context, text, sourceLang, targetLang string) (string, error) {
	return fmt.Sprintf("[TRANSLATED:%s->%s] %s", sourceLang, targetLang, text), nil
}
