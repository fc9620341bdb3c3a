package config

import (
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Env      string   `yaml:"env" env:"APP_ENV" env-default:"production"`
	Server   Server   `yaml:"server"`
	Slack    Slack    `yaml:"slack"`
	Endpoint Endpoint `yaml:"endpoint"`
}

// IsDevelopment reports whether the service runs in development mode
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Server holds HTTP server configuration
type Server struct {
	Host           string        `yaml:"host" env:"SERVER_HOST" env-default:"0.0.0.0"`
	Port           string        `yaml:"port" env:"SERVER_PORT" env-default:"8080"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"45s"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" env-default:"60s"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"SERVER_REQUEST_TIMEOUT" env-default:"40s"`
}

// Address returns the full server address
func (s Server) Address() string {
	return s.Host + ":" + s.Port
}

// Slack holds Slack Web API configuration
type Slack struct {
	// UserToken is the pre-provisioned user token; empty means every request fails with 500
	UserToken          string        `yaml:"user_token" env:"SLACK_USER_TOKEN"`
	BaseURL            string        `yaml:"base_url" env:"SLACK_BASE_URL" env-default:"https://slack.com/api"`
	Timeout            time.Duration `yaml:"timeout" env:"SLACK_TIMEOUT" env-default:"30s"`
	RateLimitPerMinute int           `yaml:"rate_limit_per_minute" env:"SLACK_RATE_LIMIT_PER_MINUTE" env-default:"50"`
}

// Endpoint holds the paths the conversations endpoint is served on
type Endpoint struct {
	Path      string `yaml:"path" env:"ENDPOINT_PATH" env-default:"/functions/v1/slack-channels"`
	AliasPath string `yaml:"alias_path" env:"ENDPOINT_ALIAS_PATH" env-default:"/slack/conversations"`
}

// Paths returns the non-empty endpoint paths
func (e Endpoint) Paths() []string {
	paths := make([]string, 0, 2)
	for _, p := range []string{e.Path, e.AliasPath} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// Viewer holds configuration of the terminal viewer
type Viewer struct {
	APIURL  string        `yaml:"api_url" env:"VIEWER_API_URL" env-default:"http://localhost:8080/functions/v1/slack-channels"`
	AnonKey string        `yaml:"anon_key" env:"VIEWER_ANON_KEY"`
	Timeout time.Duration `yaml:"timeout" env:"VIEWER_TIMEOUT" env-default:"60s"`
}

// MustLoad loads configuration from environment and exits on error
func MustLoad() Config {
	// Load .env file if exists (for development)
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	return cfg
}

// MustLoadViewer loads the viewer configuration from environment and exits on error
func MustLoadViewer() Viewer {
	_ = godotenv.Load()

	var cfg Viewer
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("failed to load viewer config: %v", err)
	}

	return cfg
}

// LoadFromFile loads configuration from a YAML file, environment variables override it
func LoadFromFile(path string) (Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
