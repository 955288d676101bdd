package domain

import "context"

// Source identifies which backend tier produced a generated text.
type Source string

const (
	// SourcePrimaryRemote is the first configured remote completion backend.
	SourcePrimaryRemote Source = "primary-remote"
	// SourceSecondaryRemote is the second configured remote completion backend.
	SourceSecondaryRemote Source = "secondary-remote"
	// SourceDeterministic is the local template backend. It never fails.
	SourceDeterministic Source = "deterministic-fallback"

	// translatedSuffix marks text localized after generation.
	translatedSuffix = "+translation-adapter"
)

// WithTranslation returns the combined source for text that went through the translation adapter.
func (s Source) WithTranslation() Source {
	return s + translatedSuffix
}

// DefaultLanguage is the native output language of every backend unless instructed otherwise.
const DefaultLanguage = "en"

// CompletionRequest is a single text-completion call.
type CompletionRequest struct {
	Prompt      string
	MaxTokens   int
	Temperature float32
	// Language is the language the prompt asked the backend to answer in.
	Language string
	// Seed carries request facts the deterministic tier derives its choice from.
	Seed CompletionSeed
}

// CompletionSeed holds the request facts a deterministic backend may need
// besides the prompt itself.
type CompletionSeed struct {
	Name      string
	Zodiac    string
	BirthDate string
	Hint      string
}

// Completion is a backend's answer.
type Completion struct {
	Text string
	// Language is the language the text is written in.
	Language string
}

// Generator is one tier of the generation fallback chain.
type Generator interface {
	Source() Source
	// Available reports whether the tier has the configuration it needs.
	Available() bool
	Generate(ctx context.Context, req CompletionRequest) (Completion, error)
}
