package translation

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Translator wraps a Backend with the skip rules shared by every backend:
// blank text and same-language pairs pass through untranslated.
type Translator struct {
	backend Backend
	logger  *zap.Logger
}

// NewTranslator creates a Translator with the given backend
func NewTranslator(backend Backend) *Translator {
	return &Translator{
		backend: backend,
		logger:  zap.NewNop(), // Default to no-op logger
	}
}

// NewTranslatorWithLogger creates a Translator with a custom logger
func NewTranslatorWithLogger(backend Backend, logger *zap.Logger) *Translator {
	t := NewTranslator(backend)
	if logger != nil {
		t.logger = logger
	}
	return t
}

// SetBackend replaces the translation backend
func (t *Translator) SetBackend(backend Backend) {
	t.backend = backend
}

// Translate converts text from sourceLang to targetLang. Blank text and
// identical language pairs are returned unchanged without touching the
// backend.
func (t *Translator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	if sourceLang == targetLang {
		t.logger.Debug("skipping translation for identical language pair",
			zap.String("lang", sourceLang))
		return text, nil
	}

	translated, err := t.backend.Translate(ctx, text, sourceLang, targetLang)
	if err != nil {
		return "", err
	}

	t.logger.Debug("translated segment text",
		zap.String("source_lang", sourceLang),
		zap.String("target_lang", targetLang),
		zap.String("original", text),
		zap.String("translated", translated))

	return translated, nil
}
