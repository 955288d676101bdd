// Package translation localizes generated text into a target language.
package translation

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/astrorag/internal/metrics"
)

const (
	// MaxInputRunes bounds the text wrapped by a placeholder translation.
	MaxInputRunes = 240

	hindiPrefix = "[HI] "
	hindiSuffix = " [Translated to Hindi - stub]"
	ellipsis    = "…"
)

// Service is the translation adapter. Only Hindi has a placeholder
// rendering; every other language passes through unchanged.
type Service struct{}

// New creates a translation adapter.
func New() *Service {
	return &Service{}
}

// Translate localizes text into lang. Empty input yields empty output.
// The error return lets real translators plug in behind the same contract.
func (s *Service) Translate(ctx context.Context, text, lang string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	txt := sanitize(text)
	if txt == "" {
		return "", nil
	}

	tag := strings.ToLower(strings.TrimSpace(lang))
	if !strings.HasPrefix(tag, "hi") {
		metrics.TranslationsTotal.WithLabelValues(label(tag), "passthrough").Inc()
		return txt, nil
	}

	metrics.TranslationsTotal.WithLabelValues("hi", "translated").Inc()
	return hindiPrefix + truncate(txt, MaxInputRunes) + hindiSuffix, nil
}

// IsTranslated reports whether text carries the placeholder marker.
func IsTranslated(text string) bool {
	return strings.HasPrefix(text, hindiPrefix) && strings.HasSuffix(text, hindiSuffix)
}

// sanitize collapses runs of whitespace and control characters into single spaces.
func sanitize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return strings.TrimRight(string(runes[:limit-1]), " ") + ellipsis
}

func label(tag string) string {
	if tag == "" {
		return "unknown"
	}
	base, _, _ := strings.Cut(tag, "-")
	if len(base) > 3 {
		return "other"
	}
	return base
}
