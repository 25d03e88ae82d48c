package config

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func Init(root *cobra.Command) {
	viper.AutomaticEnv()
	_ = godotenv.Load(".env")
	if root != nil {
		_ = viper.BindPFlags(root.PersistentFlags())
	}
	setDefaults()
}

func setDefaults() {
	viper.SetDefault(KeyGitHubAPIBaseURL, "")
	viper.SetDefault(KeyLogLevel, "info")

	viper.SetDefault(KeyLLMModel, "llama3.1")
	viper.SetDefault(KeyOllamaURL, "http://localhost:11434")
	viper.SetDefault(KeyLLMTemperature, 0.1)
	viper.SetDefault(KeyLLMMaxOutputTokens, 1024)
	viper.SetDefault(KeyLLMRetryCount, 3)
	viper.SetDefault(KeyLLMCallTimeout, "2m")
	viper.SetDefault(KeyLLMMaxInputTokens, 6000)
	viper.SetDefault(KeyLLMConcurrency, 4)

	viper.SetDefault(KeyBotSuffix, "[bot]")
	viper.SetDefault(KeyMinCommentLength, 10)
	viper.SetDefault(KeyKeepAcknowledgements, false)
	viper.SetDefault(KeyTemplateOverrides, "")

	viper.SetDefault(KeyOutputDir, "output")
	viper.SetDefault(KeyPostgresURL, "")
	viper.SetDefault(KeyPostgresDebug, false)
	viper.SetDefault(KeyMCPListenAddr, ":8765")
}

func GitHubToken() string      { return viper.GetString(KeyGitHubToken) }
func GitHubAPIBaseURL() string { return viper.GetString(KeyGitHubAPIBaseURL) }
func LogLevel() string         { return viper.GetString(KeyLogLevel) }

func LLMModel() string        { return viper.GetString(KeyLLMModel) }
func OllamaURL() string       { return viper.GetString(KeyOllamaURL) }
func LLMTemperature() float64 { return viper.GetFloat64(KeyLLMTemperature) }
func LLMMaxOutputTokens() int { return viper.GetInt(KeyLLMMaxOutputTokens) }
func LLMRetryCount() int      { return viper.GetInt(KeyLLMRetryCount) }
func LLMCallTimeout() string  { return viper.GetString(KeyLLMCallTimeout) }
func LLMMaxInputTokens() int  { return viper.GetInt(KeyLLMMaxInputTokens) }
func LLMConcurrency() int     { return viper.GetInt(KeyLLMConcurrency) }

func BotSuffix() string             { return viper.GetString(KeyBotSuffix) }
func MinCommentLength() int         { return viper.GetInt(KeyMinCommentLength) }
func KeepAcknowledgements() bool    { return viper.GetBool(KeyKeepAcknowledgements) }
func TemplateOverridesPath() string { return viper.GetString(KeyTemplateOverrides) }

func OutputDir() string     { return viper.GetString(KeyOutputDir) }
func PostgresURL() string   { return viper.GetString(KeyPostgresURL) }
func PostgresDebug() bool   { return viper.GetBool(KeyPostgresDebug) }
func MCPListenAddr() string { return viper.GetString(KeyMCPListenAddr) }
