/*
 * Copyright (c) 2026 by the aiquiz authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package config loads and persists the user-editable application
// configuration. Settings live in a YAML file in the user scope; the Gemini
// API key never touches disk and is kept in the OS keyring. Environment
// variables act as read-only overrides at runtime.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type GeneralConfig struct {
	TelemetryOptIn bool   `yaml:"telemetry_opt_in"`
	Theme          string `yaml:"theme"` // "system" | "light" | "dark"
	EnableServer   bool   `yaml:"enable_server"`
}

type GeminiConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Model     string `yaml:"model"`
	TimeoutMs int    `yaml:"timeout_ms"`
	// The API key is not stored on disk; it lives in the OS keychain.
}

type QuizConfig struct {
	QuestionsPerRound int    `yaml:"questions_per_round"`
	Difficulty        string `yaml:"difficulty"`   // "easy" | "medium" | "hard"
	ProfilesDir       string `yaml:"profiles_dir"` // relative to the working directory
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	General       GeneralConfig `yaml:"general"`
	Gemini        GeminiConfig  `yaml:"gemini"`
	Quiz          QuizConfig    `yaml:"quiz"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{TelemetryOptIn: false, Theme: "system", EnableServer: false},
		Gemini: GeminiConfig{
			Endpoint:  "https://generativelanguage.googleapis.com",
			Model:     "gemini-1.5-flash",
			TimeoutMs: 15000,
		},
		Quiz:    QuizConfig{QuestionsPerRound: 10, Difficulty: "medium", ProfilesDir: "profiles"},
		Logging: LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvGeminiAPIKey    = "AIQ_GEMINI_API_KEY"
	EnvGeminiEndpoint  = "AIQ_GEMINI_ENDPOINT"
	EnvGeminiModel     = "AIQ_GEMINI_MODEL"
	EnvGeminiTimeoutMs = "AIQ_GEMINI_TIMEOUT_MS"
	EnvTelemetryOptIn  = "AIQ_TELEMETRY_OPT_IN"
	EnvEnableServer    = "AIQ_ENABLE_SERVER"
	EnvProfilesDir     = "AIQ_PROFILES_DIR"
	EnvLogLevel        = "AIQ_LOG_LEVEL"
	EnvLogFormat       = "AIQ_LOG_FORMAT"
	EnvLogSource       = "AIQ_LOG_SOURCE"
	EnvLogFile         = "AIQ_LOG_FILE"
)

// Service/keys for the OS keyring.
const (
	keyringService = "AIQuiz"
	keyringAPIKey  = "gemini_api_key"
)

// TokenStore abstracts the keyring, so tests can stub it.
type TokenStore interface {
	Get(service, key string) (string, error)
	Set(service, key, value string) error
	Delete(service, key string) error
}

var tokenStore TokenStore = &osKeyring{}

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "AIQuiz")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "AIQuiz")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "aiquiz")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges
// environment overrides. The Gemini API key is resolved separately: the
// AIQ_GEMINI_API_KEY environment variable wins, otherwise the OS keyring.
func Load() (AppConfig, string, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, "", err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	key := strings.TrimSpace(os.Getenv(EnvGeminiAPIKey))
	if key == "" {
		key, _ = tokenStore.Get(keyringService, keyringAPIKey)
	}
	return cfg, key, nil
}

// Save writes the user config YAML. The API key, if non-empty, goes into the
// OS keyring only.
func Save(cfg AppConfig, apiKey string) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	if apiKey != "" {
		if err := tokenStore.Set(keyringService, keyringAPIKey, apiKey); err != nil {
			return err
		}
	}
	return nil
}

// SetAPIKey stores the Gemini API key in the OS keyring.
func SetAPIKey(key string) error {
	return tokenStore.Set(keyringService, keyringAPIKey, strings.TrimSpace(key))
}

// DeleteAPIKey removes the Gemini API key from the OS keyring.
func DeleteAPIKey() error {
	return tokenStore.Delete(keyringService, keyringAPIKey)
}

// IsAPIKeyConfigured reports whether a non-empty Gemini API key is available
// from the environment or the OS keyring.
func IsAPIKeyConfigured() bool {
	if strings.TrimSpace(os.Getenv(EnvGeminiAPIKey)) != "" {
		return true
	}
	key, err := tokenStore.Get(keyringService, keyringAPIKey)
	return err == nil && strings.TrimSpace(key) != ""
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.General.Theme != "" {
		dst.General.Theme = src.General.Theme
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.General.TelemetryOptIn = src.General.TelemetryOptIn
	dst.General.EnableServer = src.General.EnableServer
	if src.Gemini.Endpoint != "" {
		dst.Gemini.Endpoint = src.Gemini.Endpoint
	}
	if src.Gemini.Model != "" {
		dst.Gemini.Model = src.Gemini.Model
	}
	if src.Gemini.TimeoutMs != 0 {
		dst.Gemini.TimeoutMs = src.Gemini.TimeoutMs
	}
	if src.Quiz.QuestionsPerRound != 0 {
		dst.Quiz.QuestionsPerRound = src.Quiz.QuestionsPerRound
	}
	if src.Quiz.Difficulty != "" {
		dst.Quiz.Difficulty = strings.ToLower(strings.TrimSpace(src.Quiz.Difficulty))
	}
	if strings.TrimSpace(src.Quiz.ProfilesDir) != "" {
		dst.Quiz.ProfilesDir = strings.TrimSpace(src.Quiz.ProfilesDir)
	}
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvGeminiEndpoint)); v != "" {
		cfg.Gemini.Endpoint = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvGeminiModel)); v != "" {
		cfg.Gemini.Model = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvGeminiTimeoutMs)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Gemini.TimeoutMs = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryOptIn)); v != "" {
		cfg.General.TelemetryOptIn = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvEnableServer)); v != "" {
		cfg.General.EnableServer = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvProfilesDir)); v != "" {
		cfg.Quiz.ProfilesDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func parseBool(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}
