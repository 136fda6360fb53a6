package explain

// Config holds LLM request settings for the explainer.
type Config struct {
	MaxTokens   int
	Temperature float64

	// MaxSimilar caps how many similar questions one request may ask for.
	MaxSimilar int
}

// DefaultConfig returns the default explainer settings.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   1024,
		Temperature: 0.3,
		MaxSimilar:  5,
	}
}
