package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	SerpAPI   SerpAPIConfig
	Matching  MatchingConfig
	Gemini    GeminiConfig
	Extractor ExtractorConfig
	Gallery   GalleryConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	MaxBodyBytes   int64    `mapstructure:"max_body_bytes"`
}

// SerpAPIConfig holds shopping search provider configuration
type SerpAPIConfig struct {
	APIKey            string        `mapstructure:"api_key"`
	BaseURL           string        `mapstructure:"base_url"`
	Engine            string        `mapstructure:"engine"`
	Language          string        `mapstructure:"language"`
	Country           string        `mapstructure:"country"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
}

// MatchingConfig holds furniture matching configuration
type MatchingConfig struct {
	Concurrency   int           `mapstructure:"concurrency"`
	SearchTimeout time.Duration `mapstructure:"search_timeout"`
	SimpleLimit   int           `mapstructure:"simple_limit"`
	EnrichedLimit int           `mapstructure:"enriched_limit"`
	DefaultBudget float64       `mapstructure:"default_budget"`
}

// GeminiConfig holds image generation model configuration
type GeminiConfig struct {
	APIKey     string `mapstructure:"api_key"`
	ImageModel string `mapstructure:"image_model"`
}

// ExtractorConfig holds configuration for the OpenAI-compatible furniture extractor
type ExtractorConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// GalleryConfig holds gallery persistence configuration
type GalleryConfig struct {
	DBPath     string           `mapstructure:"db_path"`
	Folder     string           `mapstructure:"folder"`
	Cloudinary CloudinaryConfig `mapstructure:"cloudinary"`
}

// CloudinaryConfig holds image host credentials
type CloudinaryConfig struct {
	CloudName string `mapstructure:"cloud_name"`
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute, 0 disables
}

// LogConfig holds logging configuration
type LogConfig struct {
	ServiceName string `mapstructure:"service_name"`
	Mode        string `mapstructure:"mode"`
	Encoding    string `mapstructure:"encoding"`
	Level       string `mapstructure:"level"`
}

// Load loads configuration from .env, environment variables and config files
func Load() (*Config, error) {
	// .env is optional; real environment variables take precedence
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/roomstyler/")

	v.SetEnvPrefix("ROOMSTYLER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "3000")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.max_body_bytes", 20<<20)

	// SerpAPI defaults
	v.SetDefault("serpapi.api_key", "")
	v.SetDefault("serpapi.base_url", "https://serpapi.com")
	v.SetDefault("serpapi.engine", "google_shopping")
	v.SetDefault("serpapi.language", "en")
	v.SetDefault("serpapi.country", "us")
	v.SetDefault("serpapi.timeout", "15s")
	v.SetDefault("serpapi.requests_per_second", 5)
	v.SetDefault("serpapi.burst", 5)

	// Matching defaults
	v.SetDefault("matching.concurrency", 4)
	v.SetDefault("matching.search_timeout", "20s")
	v.SetDefault("matching.simple_limit", 4)
	v.SetDefault("matching.enriched_limit", 6)
	v.SetDefault("matching.default_budget", 5000)

	// AI provider defaults
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.image_model", "gemini-2.5-flash-image")
	v.SetDefault("extractor.api_key", "")
	v.SetDefault("extractor.base_url", "")
	v.SetDefault("extractor.model", "gpt-4o")
	v.SetDefault("extractor.timeout", "90s")

	// Gallery defaults
	v.SetDefault("gallery.db_path", "./data/gallery.sqlite")
	v.SetDefault("gallery.folder", "hackathon-gallery")
	v.SetDefault("gallery.cloudinary.cloud_name", "")
	v.SetDefault("gallery.cloudinary.api_key", "")
	v.SetDefault("gallery.cloudinary.api_secret", "")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)

	// Log defaults
	v.SetDefault("log.service_name", "roomstyler-backend")
	v.SetDefault("log.mode", "console")
	v.SetDefault("log.encoding", "plain")
	v.SetDefault("log.level", "info")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port is required (set ROOMSTYLER_SERVER_PORT)")
	}

	if config.Matching.Concurrency < 1 {
		return fmt.Errorf("matching concurrency must be at least 1, got: %d", config.Matching.Concurrency)
	}

	if config.Matching.SimpleLimit < 1 || config.Matching.EnrichedLimit < 1 {
		return fmt.Errorf("matching result limits must be at least 1, got: %d/%d",
			config.Matching.SimpleLimit, config.Matching.EnrichedLimit)
	}

	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("per-IP rate limit cannot be negative, got: %d", config.RateLimit.PerIP)
	}

	switch config.Log.Level {
	case "debug", "info", "error", "severe":
	default:
		return fmt.Errorf("log level must be one of debug, info, error, severe, got: %s", config.Log.Level)
	}

	return nil
}

// Warnings lists missing credentials that will make some endpoints fail at call time
func (c *Config) Warnings() []string {
	var warnings []string
	if c.SerpAPI.APIKey == "" {
		warnings = append(warnings, "SerpAPI key not configured (ROOMSTYLER_SERPAPI_API_KEY): product searches will return empty results")
	}
	if c.Gemini.APIKey == "" {
		warnings = append(warnings, "Gemini key not configured (ROOMSTYLER_GEMINI_API_KEY): room design generation will fail")
	}
	if c.Extractor.APIKey == "" {
		warnings = append(warnings, "extractor key not configured (ROOMSTYLER_EXTRACTOR_API_KEY): room design generation will fail")
	}
	if !c.Gallery.Cloudinary.Configured() {
		warnings = append(warnings, "Cloudinary credentials not configured: gallery uploads will fail")
	}
	return warnings
}

// Configured reports whether all Cloudinary credentials are present
func (c CloudinaryConfig) Configured() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}
