package domain

// RAGConfig holds retrieval and generation tuning, not exposed to clients.
type RAGConfig struct {
	// K is the number of corpus hits requested per generation.
	K int
	// Threshold is the minimum similarity a hit needs to become part of the hint.
	Threshold float64
	// MaxHints caps how many surviving hits are concatenated into the hint.
	MaxHints int
	// MaxTokens and Temperature are passed to remote completion backends.
	MaxTokens   int
	Temperature float32
}

// DefaultRAGConfig returns the reference tuning.
func DefaultRAGConfig() RAGConfig {
	return RAGConfig{
		K:           3,
		Threshold:   0.35,
		MaxHints:    2,
		MaxTokens:   120,
		Temperature: 0.7,
	}
}
