// Package prompt assembles the text sent to completion backends.
package prompt

import (
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/astrorag/internal/domain"
)

// MaxSnippets is the number of retrieved snippets rendered into a prompt.
const MaxSnippets = 3

const (
	persona     = "You are a compassionate astrological assistant."
	instruction = "Generate a concise, actionable, positive daily insight (1-2 sentences)."
	contextSep  = " | "
	todayLayout = "Jan 02"
)

// Tones chosen from the profile score.
const (
	ToneBold     = "bold and encouraging"
	ToneCalm     = "calm and cautious"
	ToneBalanced = "balanced and empathetic"
)

// Input carries everything a prompt may mention. Optional fields are omitted
// from the output when empty.
type Input struct {
	Name           string
	Zodiac         string
	ProfileSummary string
	Snippets       []string
	BirthPlace     string
	BirthDate      string
	BirthTime      string
	TargetLanguage string
	// Tone is the persona tone. Empty means ToneBalanced.
	Tone string
	// Today stamps the generation date. Zero omits the line.
	Today time.Time
}

// Build renders the prompt. Pure: the same Input always yields the same string.
func Build(in Input) string {
	var b strings.Builder

	tone := in.Tone
	if tone == "" {
		tone = ToneBalanced
	}
	fmt.Fprintf(&b, "%s Tone: %s.\n\n", persona, tone)

	fmt.Fprintf(&b, "Name: %s\n", in.Name)
	fmt.Fprintf(&b, "Zodiac: %s\n", in.Zodiac)
	writeLine(&b, "Birth Date", in.BirthDate)
	writeLine(&b, "Birth Time", in.BirthTime)
	writeLine(&b, "Birth Place", in.BirthPlace)
	if !in.Today.IsZero() {
		writeLine(&b, "Today", in.Today.Format(todayLayout))
	}
	writeLine(&b, "Profile", in.ProfileSummary)

	if snippets := nonEmpty(in.Snippets, MaxSnippets); len(snippets) > 0 {
		writeLine(&b, "Context", strings.Join(snippets, contextSep))
	}

	b.WriteString("\n")
	b.WriteString(instruction)
	if lang := LanguageName(in.TargetLanguage); lang != "" {
		fmt.Fprintf(&b, " Respond directly in %s.", lang)
	}
	return b.String()
}

// ToneForScore maps a profile score to a persona tone.
func ToneForScore(score int) string {
	switch {
	case score >= 75:
		return ToneBold
	case score <= 25:
		return ToneCalm
	default:
		return ToneBalanced
	}
}

// Summary renders the profile fields worth mentioning in a prompt.
func Summary(p domain.Profile) string {
	parts := []string{fmt.Sprintf("score %d", p.Score)}
	if p.Tone != "" {
		parts = append(parts, "prefers a "+p.Tone+" tone")
	}
	if p.Preference != "" {
		parts = append(parts, "likes "+p.Preference+" advice")
	}
	return strings.Join(parts, "; ")
}

var languageNames = map[string]string{
	"hi": "Hindi",
	"bn": "Bengali",
	"ta": "Tamil",
	"te": "Telugu",
	"mr": "Marathi",
	"gu": "Gujarati",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"pt": "Portuguese",
	"ru": "Russian",
	"ja": "Japanese",
	"zh": "Chinese",
}

// LanguageName returns a display name for a non-English language tag, or ""
// for English and empty tags. Unknown tags are returned as given.
func LanguageName(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	base, _, _ := strings.Cut(strings.ReplaceAll(tag, "_", "-"), "-")
	if base == "" || base == domain.DefaultLanguage {
		return ""
	}
	if name, ok := languageNames[base]; ok {
		return name
	}
	return tag
}

func writeLine(b *strings.Builder, label, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, value)
}

func nonEmpty(snippets []string, limit int) []string {
	out := make([]string, 0, limit)
	for _, s := range snippets {
		if len(out) == limit {
			break
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
