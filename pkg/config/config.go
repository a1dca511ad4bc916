// Copyright 2025 GreenScan Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads and validates the application configuration from a
// YAML file. Secret values support ${ENV_VAR} references and ENC(...)
// encrypted forms; an optional watcher reloads the file on change.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	AI       AIConfig       `yaml:"ai"`
	Analyzer AnalyzerConfig `yaml:"analyzer"`
	Server   ServerConfig   `yaml:"server"`
	Store    StoreConfig    `yaml:"store"`
	Report   ReportConfig   `yaml:"report"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// AIConfig selects and configures the AI backend.
type AIConfig struct {
	Provider       string `yaml:"provider"`
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	MaxTokens      int    `yaml:"max_tokens"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the request timeout for AI calls.
func (c AIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// AnalyzerConfig configures the content adapters.
type AnalyzerConfig struct {
	Browser BrowserConfig `yaml:"browser"`
	Video   VideoConfig   `yaml:"video"`
}

// BrowserConfig controls the headless browser used by the web adapter.
type BrowserConfig struct {
	Enabled        bool `yaml:"enabled"`
	PoolSize       int  `yaml:"pool_size"`
	MaxAgeMinutes  int  `yaml:"max_age_minutes"`
	TimeoutSeconds int  `yaml:"timeout_seconds"`
}

// VideoConfig controls frame sampling for the video adapter.
type VideoConfig struct {
	FFmpegPath         string `yaml:"ffmpeg_path"`
	FrameInterval      int    `yaml:"frame_interval_seconds"`
	MaxDurationSeconds int    `yaml:"max_duration_seconds"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port                   int `yaml:"port"`
	ReadTimeoutSeconds     int `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds    int `yaml:"write_timeout_seconds"`
	ShutdownTimeoutSeconds int `yaml:"shutdown_timeout_seconds"`
}

// StoreConfig configures the optional MySQL evaluation record sink.
type StoreConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	Table    string `yaml:"table"`
	Charset  string `yaml:"charset"`
}

// ReportConfig configures report rendering.
type ReportConfig struct {
	// FontPath points to a TTF file used for chart labels; charts fall
	// back to the built-in font when empty.
	FontPath string `yaml:"font_path"`
}

// Default returns a configuration with every field at its default.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info", Format: "text"},
		AI: AIConfig{
			Provider:       "anthropic",
			MaxTokens:      2000,
			TimeoutSeconds: 60,
		},
		Analyzer: AnalyzerConfig{
			Browser: BrowserConfig{
				Enabled:        true,
				PoolSize:       2,
				MaxAgeMinutes:  30,
				TimeoutSeconds: 60,
			},
			Video: VideoConfig{
				FFmpegPath:         "ffmpeg",
				FrameInterval:      1,
				MaxDurationSeconds: 60,
			},
		},
		Server: ServerConfig{
			Port:                   8080,
			ReadTimeoutSeconds:     30,
			WriteTimeoutSeconds:    120,
			ShutdownTimeoutSeconds: 10,
		},
		Store: StoreConfig{
			Database: "greenscan",
			Table:    "evaluation_records",
			Charset:  "utf8mb4",
		},
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	switch c.AI.Provider {
	case "anthropic", "openai":
	default:
		return fmt.Errorf("unsupported AI provider: %q", c.AI.Provider)
	}
	if c.AI.MaxTokens <= 0 {
		return fmt.Errorf("ai.max_tokens must be positive, got %d", c.AI.MaxTokens)
	}
	if c.AI.TimeoutSeconds <= 0 {
		return fmt.Errorf("ai.timeout_seconds must be positive, got %d", c.AI.TimeoutSeconds)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Analyzer.Video.FrameInterval <= 0 {
		return fmt.Errorf("analyzer.video.frame_interval_seconds must be positive, got %d", c.Analyzer.Video.FrameInterval)
	}
	if c.Analyzer.Video.MaxDurationSeconds <= 0 {
		return fmt.Errorf("analyzer.video.max_duration_seconds must be positive, got %d", c.Analyzer.Video.MaxDurationSeconds)
	}
	if c.Store.Enabled {
		if c.Store.Host == "" {
			return fmt.Errorf("store.host cannot be empty when the store is enabled")
		}
		if c.Store.Port == "" {
			return fmt.Errorf("store.port cannot be empty when the store is enabled")
		}
		if c.Store.Username == "" {
			return fmt.Errorf("store.username cannot be empty when the store is enabled")
		}
	}
	return nil
}
