package analysis

import (
	"time"

	"github.com/go-logr/logr"
)

type Config struct {
	ModelName       string
	OllamaURL       string
	Temperature     float64
	MaxOutputTokens int

	RetryCount     int
	CallTimeout    time.Duration
	MaxInputTokens int
	Concurrency    int

	// TemplateOverridesPath optionally replaces per-section prompt
	// templates from a YAML file.
	TemplateOverridesPath string

	Logger logr.Logger
}
