package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

var (
	configDir  string
	configErr  error
	configOnce sync.Once

	userConfigDir = os.UserConfigDir
)

// ClientConfig holds client-side configuration
type ClientConfig struct {
	ServerURL string `json:"server_url"`
}

// ServerConfig holds server-side configuration
type ServerConfig struct {
	ListenAddr  string `json:"listen_addr"`
	Title       string `json:"title"`
	MaxElements int    `json:"max_elements"`
	MetricsPort int    `json:"metrics_port"`

	// Per-IP rate limit on the compute endpoints, in requests per second.
	// Zero disables limiting.
	RateLimit float64 `json:"rate_limit"`
	RateBurst int     `json:"rate_burst"`

	// Peers (IPs or CIDRs) allowed to set forwarding headers such as
	// X-Forwarded-For. Empty means the TCP peer is always the client.
	TrustedProxies []string `json:"trusted_proxies"`

	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`
}

// Dir returns the configuration directory path
func Dir() (string, error) {
	configOnce.Do(func() {
		base, err := userConfigDir()
		if err != nil {
			configErr = err
			return
		}
		dir := filepath.Join(base, "setlab")
		if err := os.MkdirAll(dir, 0700); err != nil {
			configErr = err
			return
		}
		configDir = dir
	})
	return configDir, configErr
}

// LoadClient loads the client configuration
func LoadClient() (*ClientConfig, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return LoadClientFile(filepath.Join(dir, "config.json"))
}

// LoadClientFile loads the client configuration from path.
// A missing file yields an empty configuration.
func LoadClientFile(path string) (*ClientConfig, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := &ClientConfig{}
		applyClientEnv(cfg)
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	var cfg ClientConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyClientEnv(&cfg)
	return &cfg, nil
}

// SaveClient saves the client configuration
func SaveClient(cfg *ClientConfig) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, "config.json"), cfg)
}

// LoadServer loads the server configuration
// Environment variables take precedence over config file
func LoadServer() (*ServerConfig, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return LoadServerFile(filepath.Join(dir, "server.json"))
}

// LoadServerFile loads the server configuration from path, falling back to
// defaults when the file does not exist. Keys absent from the file keep
// their default values.
func LoadServerFile(path string) (*ServerConfig, error) {
	cfg := DefaultServerConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	applyServerEnv(cfg)
	return cfg, nil
}

// SaveServer saves the server configuration
func SaveServer(cfg *ServerConfig) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, "server.json"), cfg)
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ListenAddr:  ":8080",
		Title:       "Set Operations",
		MaxElements: 16,
		RateLimit:   10,
		RateBurst:   20,
		LogLevel:    "info",
		LogFormat:   "json",
	}
}

func applyServerEnv(cfg *ServerConfig) {
	if v := os.Getenv("SETLAB_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("SETLAB_TITLE"); v != "" {
		cfg.Title = v
	}
	if v := os.Getenv("SETLAB_MAX_ELEMENTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxElements = n
		}
	}
	if v := os.Getenv("SETLAB_METRICS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.MetricsPort = port
		}
	}
	if v := os.Getenv("SETLAB_RATE_LIMIT"); v != "" {
		if r, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RateLimit = r
		}
	}
	if v := os.Getenv("SETLAB_RATE_BURST"); v != "" {
		if b, err := strconv.Atoi(v); err == nil {
			cfg.RateBurst = b
		}
	}
	if v := os.Getenv("SETLAB_TRUSTED_PROXIES"); v != "" {
		cfg.TrustedProxies = splitList(v)
	}
	if v := os.Getenv("SETLAB_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("SETLAB_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
}

// splitList splits a comma-separated environment value, dropping blanks.
func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func applyClientEnv(cfg *ClientConfig) {
	if v := os.Getenv("SETLAB_SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
