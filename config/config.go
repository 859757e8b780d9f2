package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type Config struct {
	Api      ApiConfig      `yaml:"api"`
	Client   ClientConfig   `yaml:"client"`
	Download DownloadConfig `yaml:"download"`
	Log      LogConfig      `yaml:"log"`
	Server   ServerConfig   `yaml:"server"`
}

// ApiConfig points the client at the gallery server.
type ApiConfig struct {
	BaseUrl string        `yaml:"baseUrl"`
	Timeout time.Duration `yaml:"timeout"`
	PerPage int           `yaml:"perPage"` // 0 lets the server decide
}

type ClientConfig struct {
	StateFile       string        `yaml:"stateFile"`
	PollInterval    time.Duration `yaml:"pollInterval"`
	MaxPollAttempts int           `yaml:"maxPollAttempts"`
}

type DownloadConfig struct {
	Dir           string `yaml:"dir"`
	MaxConcurrent int    `yaml:"maxConcurrent"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"` // empty means stderr
}

// ServerConfig only applies to the local devserver.
type ServerConfig struct {
	Port            string        `yaml:"port"`
	AllowedOrigins  string        `yaml:"allowedOrigins"`
	GenerationDelay time.Duration `yaml:"generationDelay"`
	PerPage         int           `yaml:"perPage"`
	RateLimit       bool          `yaml:"rateLimit"`
}

const (
	DefaultBaseUrl         = "http://localhost:5000"
	DefaultTimeout         = 30 * time.Second
	DefaultPollInterval    = 10 * time.Second
	DefaultMaxPollAttempts = 12
	DefaultDownloadDir     = "downloads"
	DefaultMaxConcurrent   = 4
	DefaultServerPort      = "5000"
	DefaultServerPerPage   = 12
)

// WithDefaults fills every zero value the yaml left out.
func (c Config) WithDefaults() Config {
	if strings.TrimSpace(c.Api.BaseUrl) == "" {
		c.Api.BaseUrl = DefaultBaseUrl
	}
	c.Api.BaseUrl = strings.TrimRight(c.Api.BaseUrl, "/")
	if c.Api.Timeout <= 0 {
		c.Api.Timeout = DefaultTimeout
	}
	if c.Client.PollInterval <= 0 {
		c.Client.PollInterval = DefaultPollInterval
	}
	if c.Client.MaxPollAttempts <= 0 {
		c.Client.MaxPollAttempts = DefaultMaxPollAttempts
	}
	if strings.TrimSpace(c.Client.StateFile) == "" {
		c.Client.StateFile = defaultStateFile()
	}
	if strings.TrimSpace(c.Download.Dir) == "" {
		c.Download.Dir = DefaultDownloadDir
	}
	if c.Download.MaxConcurrent <= 0 {
		c.Download.MaxConcurrent = DefaultMaxConcurrent
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Server.Port == "" {
		c.Server.Port = DefaultServerPort
	}
	if c.Server.AllowedOrigins == "" {
		c.Server.AllowedOrigins = "*"
	}
	if c.Server.PerPage <= 0 {
		c.Server.PerPage = DefaultServerPerPage
	}
	return c
}

func (c Config) Validate() error {
	u, err := url.Parse(c.Api.BaseUrl)
	if err != nil {
		return fmt.Errorf("api.baseUrl: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.baseUrl: unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("api.baseUrl: missing host")
	}
	if c.Api.PerPage < 0 {
		return errors.New("api.perPage must be >= 0")
	}
	if c.Client.MaxPollAttempts > 1000 {
		return errors.New("client.maxPollAttempts must be <= 1000")
	}
	return nil
}

func defaultStateFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "gallery-state.json"
	}
	return filepath.Join(dir, "gallery", "state.json")
}
