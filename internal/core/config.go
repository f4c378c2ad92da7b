// Package core holds the application configuration shared by every songbridge command.
package core

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"songbridge/internal/i18n"
)

// Configuration defaults.
const (
	DefaultEndpoint           = "http://127.0.0.1:5000/api/convert"
	DefaultClientTimeout      = 30 * time.Second
	DefaultServerHost         = "127.0.0.1"
	DefaultServerPort         = 5000
	DefaultReadTimeout        = 10 * time.Second
	DefaultWriteTimeout       = 30 * time.Second
	DefaultRateLimitPerMinute = 30
	DefaultAllowedOrigin      = "*"
	DefaultCacheSize          = 1024
	DefaultCacheTTL           = 6 * time.Hour
	DefaultLogLevel           = "info"

	maxPort = 65535
)

type Config struct {
	Client  ClientConfig
	Server  ServerConfig
	Spotify SpotifyConfig
	YouTube YouTubeConfig
	Cache   CacheConfig
	Log     LogConfig
	App     AppConfig
}

// ClientConfig configures the conversion client used by the popup.
type ClientConfig struct {
	Endpoint string
	Timeout  time.Duration
}

type ServerConfig struct {
	Host               string
	Port               int
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	RateLimitPerMinute int    // Per client address; 0 disables limiting.
	AllowedOrigin      string // Value of Access-Control-Allow-Origin.
}

type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
}

type YouTubeConfig struct {
	APIKey string
}

// CacheConfig sizes the conversion result cache.
type CacheConfig struct {
	Size int
	TTL  time.Duration
}

type LogConfig struct {
	Level string
}

type AppConfig struct {
	Language string
}

func DefaultConfig() *Config {
	return &Config{
		Client: ClientConfig{
			Endpoint: DefaultEndpoint,
			Timeout:  DefaultClientTimeout,
		},
		Server: ServerConfig{
			Host:               DefaultServerHost,
			Port:               DefaultServerPort,
			ReadTimeout:        DefaultReadTimeout,
			WriteTimeout:       DefaultWriteTimeout,
			RateLimitPerMinute: DefaultRateLimitPerMinute,
			AllowedOrigin:      DefaultAllowedOrigin,
		},
		Cache: CacheConfig{
			Size: DefaultCacheSize,
			TTL:  DefaultCacheTTL,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
		App: AppConfig{
			Language: i18n.DefaultLanguage,
		},
	}
}

// Validate checks the settings the conversion server depends on.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > maxPort {
		errs = append(errs, fmt.Errorf("server port %d out of range", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server timeouts must be positive"))
	}
	if c.Server.RateLimitPerMinute < 0 {
		errs = append(errs, errors.New("rate limit must not be negative"))
	}
	if c.Cache.Size <= 0 {
		errs = append(errs, fmt.Errorf("cache size must be positive, got %d", c.Cache.Size))
	}
	if c.Cache.TTL <= 0 {
		errs = append(errs, errors.New("cache TTL must be positive"))
	}

	return errors.Join(errs...)
}

// ValidateClient checks the settings the conversion client depends on.
func (c *Config) ValidateClient() error {
	u, err := url.Parse(c.Client.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid conversion endpoint %q", c.Client.Endpoint)
	}
	if c.Client.Timeout <= 0 {
		return errors.New("client timeout must be positive")
	}
	return nil
}

// Addr returns the listen address of the conversion server.
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
