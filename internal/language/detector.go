package language

import (
	"strings"

	"github.com/pemistahl/lingua-go"
	"go.uber.org/zap"
)

// supportedLanguages maps the language codes this pipeline targets to
// human-readable names
var supportedLanguages = map[string]string{
	"en": "English",
	"uk": "Ukrainian",
	"ru": "Russian",
}

// Detector identifies the source language of subtitle text
type Detector struct {
	detector lingua.LanguageDetector
	logger   *zap.Logger
}

// NewDetector creates a Detector restricted to the supported language set
func NewDetector() *Detector {
	languages := []lingua.Language{
		lingua.English,
		lingua.Ukrainian,
		lingua.Russian,
	}

	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(languages...).
			Build(),
		logger: zap.NewNop(), // Default to no-op logger
	}
}

// NewDetectorWithLogger creates a Detector with a custom logger
func NewDetectorWithLogger(logger *zap.Logger) *Detector {
	d := NewDetector()
	if logger != nil {
		d.logger = logger
	}
	return d
}

// DetectLanguage returns the ISO 639-1 code of the given text, or empty
// string when detection fails or the text is blank
func (d *Detector) DetectLanguage(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	language, exists := d.detector.DetectLanguageOf(text)
	if !exists {
		d.logger.Debug("language detection failed", zap.String("text", text))
		return ""
	}

	code := strings.ToLower(language.IsoCode639_1().String())
	d.logger.Debug("detected language",
		zap.String("text", text),
		zap.String("language", code))

	return code
}

// DetectFromSegments detects the dominant language across multiple segment
// texts by voting; returns empty string when nothing is detectable
func (d *Detector) DetectFromSegments(texts []string) string {
	votes := make(map[string]int)
	for _, text := range texts {
		if code := d.DetectLanguage(text); code != "" {
			votes[code]++
		}
	}

	best := ""
	bestCount := 0
	for code, count := range votes {
		if count > bestCount || (count == bestCount && code < best) {
			best = code
			bestCount = count
		}
	}

	d.logger.Debug("segment language vote completed",
		zap.Int("segments", len(texts)),
		zap.String("winner", best),
		zap.Int("votes", bestCount))

	return best
}

// IsSupported reports whether a language code is in the supported set
func IsSupported(code string) bool {
	_, ok := supportedLanguages[code]
	return ok
}

// Name returns the human-readable name for a language code, or the code
// itself when unknown
func Name(code string) string {
	if name, ok := supportedLanguages[code]; ok {
		return name
	}
	return code
}
