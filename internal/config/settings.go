package config

import (
	"strings"
	"time"
)

// Settings is the validated configuration handed to the pipeline components.
// It is built once at startup; core packages never read viper directly.
type Settings struct {
	GitHubToken      string
	GitHubAPIBaseURL string
	LogLevel         string

	LLMModel        string
	OllamaURL       string
	Temperature     float64
	MaxOutputTokens int
	RetryCount      int
	CallTimeout     time.Duration
	MaxInputTokens  int
	Concurrency     int

	BotSuffix             string
	MinCommentLength      int
	KeepAcknowledgements  bool
	TemplateOverridesPath string

	OutputDir     string
	PostgresURL   string
	PostgresDebug bool
	MCPListenAddr string
}

func Load() (Settings, error) {
	s := Settings{
		GitHubToken:      GitHubToken(),
		GitHubAPIBaseURL: GitHubAPIBaseURL(),
		LogLevel:         LogLevel(),

		LLMModel:        LLMModel(),
		OllamaURL:       OllamaURL(),
		Temperature:     LLMTemperature(),
		MaxOutputTokens: LLMMaxOutputTokens(),
		RetryCount:      LLMRetryCount(),
		MaxInputTokens:  LLMMaxInputTokens(),
		Concurrency:     LLMConcurrency(),

		BotSuffix:             BotSuffix(),
		MinCommentLength:      MinCommentLength(),
		KeepAcknowledgements:  KeepAcknowledgements(),
		TemplateOverridesPath: TemplateOverridesPath(),

		OutputDir:     OutputDir(),
		PostgresURL:   PostgresURL(),
		PostgresDebug: PostgresDebug(),
		MCPListenAddr: MCPListenAddr(),
	}

	timeout, err := parseDuration(LLMCallTimeout(), 2*time.Minute)
	if err != nil {
		return Settings{}, Errorf("invalid %s: %v", KeyLLMCallTimeout, err)
	}
	s.CallTimeout = timeout

	if err := s.validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s Settings) validate() error {
	if strings.TrimSpace(s.LLMModel) == "" {
		return Errorf("%s must not be empty", KeyLLMModel)
	}
	if s.Temperature < 0 || s.Temperature > 2 {
		return Errorf("%s must be between 0.0 and 2.0, got %g", KeyLLMTemperature, s.Temperature)
	}
	if s.MaxOutputTokens <= 0 {
		return Errorf("%s must be positive, got %d", KeyLLMMaxOutputTokens, s.MaxOutputTokens)
	}
	if s.RetryCount < 0 {
		return Errorf("%s must not be negative, got %d", KeyLLMRetryCount, s.RetryCount)
	}
	if s.CallTimeout <= 0 {
		return Errorf("%s must be positive", KeyLLMCallTimeout)
	}
	if s.MaxInputTokens <= 0 {
		return Errorf("%s must be positive, got %d", KeyLLMMaxInputTokens, s.MaxInputTokens)
	}
	if s.Concurrency < 1 {
		return Errorf("%s must be at least 1, got %d", KeyLLMConcurrency, s.Concurrency)
	}
	if s.BotSuffix == "" {
		return Errorf("%s must not be empty", KeyBotSuffix)
	}
	return nil
}

func parseDuration(value string, fallback time.Duration) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback, nil
	}
	return time.ParseDuration(trimmed)
}
