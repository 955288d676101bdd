package generation

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/kailas-cloud/astrorag/internal/domain"
	"github.com/kailas-cloud/astrorag/internal/domain/zodiac"
)

// seedPromptRunes is how much of the prompt feeds template selection.
const seedPromptRunes = 140

// templates take the name as %[1]s and the sign as %[2]s.
var templates = []string{
	"%[1]s, your %[2]s energy favors one small, steady step forward today.",
	"%[1]s, as a %[2]s you will find clarity by finishing what you already started.",
	"Today rewards your %[2]s instincts, %[1]s; trust a quiet decision you have been postponing.",
	"%[1]s, let your %[2]s warmth open one honest conversation today.",
	"A calm %[2]s focus will help you, %[1]s, turn pressure into progress.",
	"%[1]s, your %[2]s curiosity is an asset today; learn one new thing and put it to use.",
}

var closings = map[zodiac.Sign]string{
	zodiac.Aries:       "Channel your drive into the task that matters most.",
	zodiac.Taurus:      "Your patience is your quiet advantage.",
	zodiac.Gemini:      "Share an idea with someone who can build on it.",
	zodiac.Cancer:      "Home and close ties will recharge you.",
	zodiac.Leo:         "Your leadership and warmth will shine; embrace spontaneity.",
	zodiac.Virgo:       "Tidy one loose end and enjoy the calm it brings.",
	zodiac.Libra:       "Seek balance before you commit.",
	zodiac.Scorpio:     "Trust your depth, but let others see a little of it.",
	zodiac.Sagittarius: "A short detour may teach you more than the main road.",
	zodiac.Capricorn:   "Steady effort today builds tomorrow's summit.",
	zodiac.Aquarius:    "An unconventional idea deserves a first test.",
	zodiac.Pisces:      "Let intuition guide one choice, then check the facts.",
}

const defaultClosing = "Stay present and take small, steady actions."

// Deterministic is the local template tier. It never fails and always
// answers in English, so non-English requests go through translation.
type Deterministic struct{}

// NewDeterministic creates the template tier.
func NewDeterministic() *Deterministic {
	return &Deterministic{}
}

// Source implements domain.Generator.
func (d *Deterministic) Source() domain.Source { return domain.SourceDeterministic }

// Available implements domain.Generator.
func (d *Deterministic) Available() bool { return true }

// Generate implements domain.Generator. Identical inputs give identical text.
func (d *Deterministic) Generate(_ context.Context, req domain.CompletionRequest) (domain.Completion, error) {
	seed := req.Seed
	tpl := templates[TemplateIndex(seed.Name, seed.BirthDate, req.Prompt)]

	var b strings.Builder
	fmt.Fprintf(&b, tpl, seed.Name, seed.Zodiac)
	b.WriteString(" ")
	b.WriteString(Closing(zodiac.Sign(seed.Zodiac)))
	if hint := strings.TrimRight(strings.TrimSpace(seed.Hint), ". "); hint != "" {
		fmt.Fprintf(&b, " Keep in mind: %s.", hint)
	}
	return domain.Completion{Text: b.String(), Language: domain.DefaultLanguage}, nil
}

// TemplateIndex derives a stable template index from the request facts.
func TemplateIndex(name, birthDate, prompt string) int {
	if runes := []rune(prompt); len(runes) > seedPromptRunes {
		prompt = string(runes[:seedPromptRunes])
	}
	sum := sha256.Sum256([]byte(name + "|" + birthDate + "|" + prompt))
	return int(binary.BigEndian.Uint64(sum[:8]) % uint64(len(templates)))
}

// Closing returns the sign-specific closing clause.
func Closing(sign zodiac.Sign) string {
	if c, ok := closings[sign]; ok {
		return c
	}
	return defaultClosing
}
