package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env         string `mapstructure:"ENV"`
	Port        string `mapstructure:"PORT"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	CORSAllowed string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	OpenAIAPIKey  string `mapstructure:"OPENAI_API_KEY"`
	OpenAIBaseURL string `mapstructure:"OPENAI_BASE_URL"`
	GroqAPIKey    string `mapstructure:"GROQ_API_KEY"`
	GroqBaseURL   string `mapstructure:"GROQ_BASE_URL"`
	GeminiAPIKey  string `mapstructure:"GEMINI_API_KEY"`
	GeminiBaseURL string `mapstructure:"GEMINI_BASE_URL"`

	DefaultAIProvider string `mapstructure:"DEFAULT_AI_PROVIDER"`
	DefaultAIModel    string `mapstructure:"DEFAULT_AI_MODEL"`
	WhisperModel      string `mapstructure:"WHISPER_MODEL"`
	EngineMock        bool   `mapstructure:"ENGINE_MOCK"`

	MaxUploadSizeMB int64  `mapstructure:"MAX_UPLOAD_MB"`
	UploadDir       string `mapstructure:"UPLOAD_DIR"`
	ProcessedDir    string `mapstructure:"PROCESSED_DIR"`

	AIConcurrency  int64         `mapstructure:"AI_CONCURRENCY"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`

	// Declared for deployment parity; enforcement sits in the router
	// middleware with permissive defaults.
	RateLimitRequests int           `mapstructure:"RATE_LIMIT_REQUESTS"`
	RateLimitWindow   time.Duration `mapstructure:"RATE_LIMIT_WINDOW"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("DEFAULT_AI_PROVIDER", "openai")
	v.SetDefault("DEFAULT_AI_MODEL", "gpt-4o-mini")
	v.SetDefault("WHISPER_MODEL", "whisper-1")
	v.SetDefault("MAX_UPLOAD_MB", 100)
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("PROCESSED_DIR", "processed")
	v.SetDefault("AI_CONCURRENCY", 4)
	v.SetDefault("REQUEST_TIMEOUT", "60s")
	v.SetDefault("RATE_LIMIT_REQUESTS", 0)
	v.SetDefault("RATE_LIMIT_WINDOW", "1m")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) MaxUploadBytes() int64 {
	return c.MaxUploadSizeMB << 20
}
