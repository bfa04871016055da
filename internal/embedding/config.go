package embedding

// Language selects the stop-word behavior.
type Language string

const (
	// LangEnglish uses the English stop-word set only.
	LangEnglish Language = "en"
	// LangMulti additionally strips common non-English stop words.
	LangMulti Language = "multi"
)

// Config holds the embedding engine settings. Vectors produced under
// different configs are never comparable; construct one engine per
// process and share it.
type Config struct {
	Dimensions int
	Normalize  bool
	Stemming   bool
	Language   Language
}

// DefaultConfig returns the standard 384-dimension normalized config.
func DefaultConfig() Config {
	return Config{
		Dimensions: 384,
		Normalize:  true,
		Stemming:   true,
		Language:   LangMulti,
	}
}

// withDefaults fills zero values.
func (c Config) withDefaults() Config {
	if c.Dimensions <= 0 {
		c.Dimensions = 384
	}
	if c.Language == "" {
		c.Language = LangMulti
	}
	return c
}
