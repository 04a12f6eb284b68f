package engine

// Config holds the response policy constants.
type Config struct {
	// Threshold is the similarity a match must exceed to be used. Zero or
	// negative means DefaultThreshold, the same rule the YAML config applies.
	Threshold float64
	// MaxResponseLength is the length above which keyword refinement is tried.
	MaxResponseLength int
	// EmptyPrompt is returned for blank input.
	EmptyPrompt string
	// Fallbacks are returned, one at random, when nothing clears Threshold.
	Fallbacks []string
}

const (
	DefaultThreshold         = 0.05
	DefaultMaxResponseLength = 500
	DefaultEmptyPrompt       = "Please ask me a question about John Doe's skills, experience, or projects!"
)

// DefaultFallbacks returns the built-in fallback messages.
func DefaultFallbacks() []string {
	return []string{
		"I'm sorry, I don't have specific information about that in my knowledge base.",
		"Could you rephrase your question?",
		"I can tell you about my skills, experience, projects, or contact details. What would you like to know?",
		"That's an interesting question, but I don't have enough information to answer it fully.",
	}
}

// DefaultConfig returns the default response policy.
func DefaultConfig() Config {
	return Config{
		Threshold:         DefaultThreshold,
		MaxResponseLength: DefaultMaxResponseLength,
		EmptyPrompt:       DefaultEmptyPrompt,
		Fallbacks:         DefaultFallbacks(),
	}
}

// withDefaults fills fields that would otherwise leave a path without an answer.
func (c Config) withDefaults() Config {
	if c.Threshold <= 0 {
		c.Threshold = DefaultThreshold
	}
	if c.MaxResponseLength <= 0 {
		c.MaxResponseLength = DefaultMaxResponseLength
	}
	if c.EmptyPrompt == "" {
		c.EmptyPrompt = DefaultEmptyPrompt
	}
	var fallbacks []string
	for _, f := range c.Fallbacks {
		if f != "" {
			fallbacks = append(fallbacks, f)
		}
	}
	if len(fallbacks) == 0 {
		fallbacks = DefaultFallbacks()
	}
	c.Fallbacks = fallbacks
	return c
}
