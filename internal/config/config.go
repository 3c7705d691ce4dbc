package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates every subsystem's settings.
type Config struct {
	Server  ServerConfig
	Client  ClientConfig
	Auth    AuthConfig
	Storage StorageConfig
	AI      AIConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	client, err := loadClientConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:  server,
		Client:  client,
		Auth:    loadAuthConfig(),
		Storage: loadStorageConfig(),
		AI:      ai,
	}, nil
}

// ServerConfig describes the local daemon. The default bind is loopback
// only; the bridge is not meant to be reachable off-host.
type ServerConfig struct {
	Addr            string
	RateLimit       int
	RateLimitWindow time.Duration
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "3001"
	}

	addr := port
	if !strings.Contains(port, ":") {
		if strings.Contains(port, " ") {
			return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
		}
		addr = "127.0.0.1:" + port
	}

	limit := 100
	if override, err := parseOptionalIntEnv("BEAR_RATE_LIMIT"); err != nil {
		return ServerConfig{}, err
	} else if override != nil && *override > 0 {
		limit = *override
	}

	windowSeconds := 60
	if override, err := parseOptionalIntEnv("BEAR_RATE_WINDOW"); err != nil {
		return ServerConfig{}, err
	} else if override != nil && *override > 0 {
		windowSeconds = *override
	}

	return ServerConfig{
		Addr:            addr,
		RateLimit:       limit,
		RateLimitWindow: time.Duration(windowSeconds) * time.Second,
	}, nil
}

// Transport selects how the client stack reaches the daemon.
const (
	TransportWS   = "ws"
	TransportHTTP = "http"
)

// ClientConfig describes the HTTP request executor and the fallback base
// used by the invocation adapter.
type ClientConfig struct {
	BaseURL    string
	APIVersion string
	Timeout    time.Duration
	Retries    int
	Transport  string
}

func loadClientConfig() (ClientConfig, error) {
	transport := getEnvOrDefault("BEAR_TRANSPORT", TransportWS)
	if transport != TransportWS && transport != TransportHTTP {
		return ClientConfig{}, fmt.Errorf("invalid BEAR_TRANSPORT value %q: must be %q or %q", transport, TransportWS, TransportHTTP)
	}

	timeoutSeconds := 30
	if override, err := parseOptionalIntEnv("BEAR_API_TIMEOUT"); err != nil {
		return ClientConfig{}, err
	} else if override != nil && *override > 0 {
		timeoutSeconds = *override
	}

	retries := 3
	if override, err := parseOptionalIntEnv("BEAR_API_RETRIES"); err != nil {
		return ClientConfig{}, err
	} else if override != nil && *override >= 0 {
		retries = *override
	}

	return ClientConfig{
		BaseURL:    getEnvOrDefault("BEAR_API_BASE_URL", "http://localhost:3001"),
		APIVersion: getEnvOrDefault("BEAR_API_VERSION", "v1"),
		Timeout:    time.Duration(timeoutSeconds) * time.Second,
		Retries:    retries,
		Transport:  transport,
	}, nil
}

// AuthConfig describes the bundled demo principal.
type AuthConfig struct {
	AdminUsername string
	AdminPassword string
	Environment   string
}

const defaultAdminPassword = "admin123"

func loadAuthConfig() AuthConfig {
	return AuthConfig{
		AdminUsername: getEnvOrDefault("BEAR_ADMIN_USERNAME", "admin"),
		AdminPassword: getEnvOrDefault("BEAR_ADMIN_PASSWORD", defaultAdminPassword),
		Environment:   getEnvOrDefault("BEAR_ENV", "development"),
	}
}

// DemoLoginEnabled reports whether the demo principal may authenticate.
// Production deployments must override the well-known default password.
func (c AuthConfig) DemoLoginEnabled() bool {
	if c.Environment == "production" && c.AdminPassword == defaultAdminPassword {
		return false
	}
	return c.AdminUsername != "" && c.AdminPassword != ""
}

// StorageConfig locates the local SQLite file backing session persistence
// and activity history.
type StorageConfig struct {
	Path string
}

func loadStorageConfig() StorageConfig {
	return StorageConfig{Path: getEnvOrDefault("BEAR_DB_PATH", "bearai.db")}
}

// AIConfig describes the optional Ark-backed assistant model.
type AIConfig struct {
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature *float64
	MaxTokens   *int
}

// Enabled reports whether the required credentials were provided.
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel builds a model instance from the configuration.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("ark credentials or model missing: set ARK_API_KEY + ARK_MODEL or the AK/SK pair")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		APIKey:      strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:   strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:   strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:       strings.TrimSpace(os.Getenv("ARK_MODEL")),
		BaseURL:     getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:      getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
