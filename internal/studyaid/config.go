package studyaid

// Config holds generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64

	// MaxSubjects caps how many of the weakest subjects get tips.
	MaxSubjects int
}

func DefaultConfig() Config {
	return Config{
		MaxTokens:   512,
		Temperature: 0.4,
		MaxSubjects: 3,
	}
}
