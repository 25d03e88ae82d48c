package config

const (
	KeyGitHubToken      = "github_token"
	KeyGitHubAPIBaseURL = "github_api_base_url"
	KeyLogLevel         = "log_level"

	KeyLLMModel           = "llm_model"
	KeyOllamaURL          = "ollama_url"
	KeyLLMTemperature     = "llm_temperature"
	KeyLLMMaxOutputTokens = "llm_max_output_tokens"
	KeyLLMRetryCount      = "llm_retry_count"
	KeyLLMCallTimeout     = "llm_call_timeout"
	KeyLLMMaxInputTokens  = "llm_max_input_tokens"
	KeyLLMConcurrency     = "llm_concurrency"

	KeyBotSuffix            = "bot_suffix"
	KeyMinCommentLength     = "min_comment_length"
	KeyKeepAcknowledgements = "keep_acknowledgements"
	KeyTemplateOverrides    = "template_overrides"

	KeyOutputDir     = "output_dir"
	KeyPostgresURL   = "postgres_url"
	KeyPostgresDebug = "postgres_debug"
	KeyMCPListenAddr = "mcp_listen_addr"
)
