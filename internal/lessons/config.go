package lessons

// Config holds lesson generation and grading settings.
type Config struct {
	LessonMaxTokens  int
	GradingMaxTokens int
	Temperature      float64
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		LessonMaxTokens:  768,
		GradingMaxTokens: 256,
		Temperature:      0.5,
	}
}
