// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete terminal-gpt configuration.
type Config struct {
	// BaseDir anchors every relative directory below. Empty means the
	// directory holding the executable.
	BaseDir string `toml:"base_dir"`

	Backend BackendConfig `toml:"backend"`
	Models  ModelsConfig  `toml:"models"`
	History HistoryConfig `toml:"history"`
	Speech  SpeechConfig  `toml:"speech"`
	Log     LogConfig     `toml:"log"`
	UI      UIConfig      `toml:"ui"`
	Git     GitConfig     `toml:"git"`

	// APIKey is only ever read from the environment.
	APIKey string `toml:"-"`
}

// BackendConfig configures the OpenAI-compatible API.
type BackendConfig struct {
	// BaseURL overrides the API endpoint (empty = api.openai.com)
	BaseURL string `toml:"base_url"`
	// TimeoutSecs bounds a single request
	TimeoutSecs int `toml:"timeout_secs"`
	// RequestsPerMinute paces requests client side (0 = unlimited)
	RequestsPerMinute int `toml:"requests_per_minute"`
}

// ModelsConfig lists the models offered per mode.
type ModelsConfig struct {
	Chat          []string `toml:"chat"`
	DefaultChat   string   `toml:"default_chat"`
	Image         []string `toml:"image"`
	DefaultImage  string   `toml:"default_image"`
	Speech        []string `toml:"speech"`
	DefaultSpeech string   `toml:"default_speech"`
	Voices        []string `toml:"voices"`
	DefaultVoice  string   `toml:"default_voice"`
	ImageSize     string   `toml:"image_size"`
}

// HistoryConfig controls chat history files.
type HistoryConfig struct {
	// Dir holds saved histories, relative to BaseDir unless absolute
	Dir string `toml:"dir"`
	// RecordFailures appends failed exchanges to the history
	RecordFailures bool `toml:"record_failures"`
}

// SpeechConfig controls synthesized audio files.
type SpeechConfig struct {
	Dir string `toml:"dir"`
}

// LogConfig controls the log file.
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `toml:"level"`
	// File is relative to BaseDir unless absolute
	File string `toml:"file"`
}

// UIConfig controls terminal output.
type UIConfig struct {
	// Markdown renders chat replies as markdown on a TTY
	Markdown bool `toml:"markdown"`
	// Color is auto, always or never
	Color string `toml:"color"`
}

// GitConfig controls the git command helper.
type GitConfig struct {
	Enabled bool `toml:"enabled"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

var (
	// ChatModels are the chat completion models offered by default.
	ChatModels = []string{"gpt-3.5-turbo", "gpt-4o", "gpt-4o-mini", "gpt-4-turbo"}

	// ImageModels are the image generation models offered by default.
	ImageModels = []string{"dall-e-3", "dall-e-2"}

	// SpeechModels are the text-to-speech models offered by default.
	SpeechModels = []string{"tts-1", "tts-1-hd"}

	// Voices are the speech voices offered by default.
	Voices = []string{"alloy", "echo", "fable", "onyx", "nova", "shimmer"}

	imageSizes = []string{"256x256", "512x512", "1024x1024", "1792x1024", "1024x1792"}
	logLevels  = []string{"debug", "info", "warn", "error"}
	colorModes = []string{"auto", "always", "never"}
)

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			TimeoutSecs:       120,
			RequestsPerMinute: 20,
		},
		Models: ModelsConfig{
			Chat:          slices.Clone(ChatModels),
			DefaultChat:   "gpt-3.5-turbo",
			Image:         slices.Clone(ImageModels),
			DefaultImage:  "dall-e-3",
			Speech:        slices.Clone(SpeechModels),
			DefaultSpeech: "tts-1",
			Voices:        slices.Clone(Voices),
			DefaultVoice:  "alloy",
			ImageSize:     "1024x1024",
		},
		History: HistoryConfig{
			Dir:            "chat_histories",
			RecordFailures: true,
		},
		Speech: SpeechConfig{
			Dir: "speeches",
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join("logs", "terminal-gpt.log"),
		},
		UI: UIConfig{
			Markdown: true,
			Color:    "auto",
		},
	}
}

// SetDefaults fills empty fields left by a partial config file. An empty
// default model is the first entry of its list.
func (c *Config) SetDefaults() {
	d := Default()

	if c.Backend.TimeoutSecs == 0 {
		c.Backend.TimeoutSecs = d.Backend.TimeoutSecs
	}
	if len(c.Models.Chat) == 0 {
		c.Models.Chat = d.Models.Chat
	}
	if c.Models.DefaultChat == "" {
		c.Models.DefaultChat = c.Models.Chat[0]
	}
	if len(c.Models.Image) == 0 {
		c.Models.Image = d.Models.Image
	}
	if c.Models.DefaultImage == "" {
		c.Models.DefaultImage = c.Models.Image[0]
	}
	if len(c.Models.Speech) == 0 {
		c.Models.Speech = d.Models.Speech
	}
	if c.Models.DefaultSpeech == "" {
		c.Models.DefaultSpeech = c.Models.Speech[0]
	}
	if len(c.Models.Voices) == 0 {
		c.Models.Voices = d.Models.Voices
	}
	if c.Models.DefaultVoice == "" {
		c.Models.DefaultVoice = c.Models.Voices[0]
	}
	if c.Models.ImageSize == "" {
		c.Models.ImageSize = d.Models.ImageSize
	}
	if c.History.Dir == "" {
		c.History.Dir = d.History.Dir
	}
	if c.Speech.Dir == "" {
		c.Speech.Dir = d.Speech.Dir
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.File == "" {
		c.Log.File = d.Log.File
	}
	if c.UI.Color == "" {
		c.UI.Color = d.UI.Color
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the terminal-gpt configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".terminal-gpt"), nil
}

// DefaultPath returns the path of the default config file.
func DefaultPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load builds the configuration from defaults, the TOML file at path and
// the environment, then validates it. An empty path means DefaultPath,
// which may be absent. An explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := LoadTOML(cfg, path); err != nil {
				return nil, err
			}
		} else if explicit {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg. Unknown keys are rejected so a
// typo does not silently fall back to a default.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("failed to decode TOML file: unknown keys %s", strings.Join(keys, ", "))
	}

	// A model list set without its default picks its own first entry.
	m := &cfg.Models
	for _, pair := range []struct {
		list, def string
		value     *string
	}{
		{"chat", "default_chat", &m.DefaultChat},
		{"image", "default_image", &m.DefaultImage},
		{"speech", "default_speech", &m.DefaultSpeech},
		{"voices", "default_voice", &m.DefaultVoice},
	} {
		if md.IsDefined("models", pair.list) && !md.IsDefined("models", pair.def) {
			*pair.value = ""
		}
	}
	return nil
}

// =============================================================================
// API KEY
// =============================================================================

// ErrMissingAPIKey is returned when no API key is configured. It is fatal
// for commands that talk to the backend.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not set")

// RequireAPIKey returns ErrMissingAPIKey when no key was found.
func (c *Config) RequireAPIKey() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// =============================================================================
// RESOLVED PATHS
// =============================================================================

// ResolveBaseDir returns BaseDir, or the executable's directory when unset.
func (c *Config) ResolveBaseDir() (string, error) {
	if c.BaseDir != "" {
		return filepath.Abs(c.BaseDir)
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// Paths are the resolved locations of everything written to disk.
type Paths struct {
	Base    string
	History string
	Catalog string
	Speech  string
	LogFile string
}

// ResolvePaths resolves every directory against the base directory.
func (c *Config) ResolvePaths() (Paths, error) {
	base, err := c.ResolveBaseDir()
	if err != nil {
		return Paths{}, err
	}
	history := under(base, c.History.Dir)
	return Paths{
		Base:    base,
		History: history,
		Catalog: filepath.Join(history, "catalog.db"),
		Speech:  under(base, c.Speech.Dir),
		LogFile: under(base, c.Log.File),
	}, nil
}

func under(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// Timeout returns the per-request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSecs) * time.Second
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration and returns every problem found as
// ValidateErrors. It does not check the API key; see RequireAPIKey.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if c.Backend.BaseURL != "" {
		u, err := url.Parse(c.Backend.BaseURL)
		if err != nil {
			add("backend.base_url", "invalid URL: %v", err)
		} else if u.Scheme != "http" && u.Scheme != "https" {
			add("backend.base_url", "scheme must be http or https, got %q", u.Scheme)
		}
	}
	if c.Backend.TimeoutSecs <= 0 {
		add("backend.timeout_secs", "must be positive, got %d", c.Backend.TimeoutSecs)
	}
	if c.Backend.RequestsPerMinute < 0 {
		add("backend.requests_per_minute", "cannot be negative")
	}

	checkChoice := func(field string, options []string, def string) {
		if len(options) == 0 {
			add(field, "at least one entry is required")
			return
		}
		if !slices.Contains(options, def) {
			add("models.default_"+strings.TrimPrefix(field, "models."), "%q is not in %s", def, field)
		}
	}
	checkChoice("models.chat", c.Models.Chat, c.Models.DefaultChat)
	checkChoice("models.image", c.Models.Image, c.Models.DefaultImage)
	checkChoice("models.speech", c.Models.Speech, c.Models.DefaultSpeech)
	if len(c.Models.Voices) == 0 {
		add("models.voices", "at least one entry is required")
	} else if !slices.Contains(c.Models.Voices, c.Models.DefaultVoice) {
		add("models.default_voice", "%q is not in models.voices", c.Models.DefaultVoice)
	}

	if !slices.Contains(imageSizes, c.Models.ImageSize) {
		add("models.image_size", "invalid size %q, must be one of: %s", c.Models.ImageSize, strings.Join(imageSizes, ", "))
	}
	if !slices.Contains(logLevels, strings.ToLower(c.Log.Level)) {
		add("log.level", "invalid level %q, must be one of: %s", c.Log.Level, strings.Join(logLevels, ", "))
	}
	if !slices.Contains(colorModes, strings.ToLower(c.UI.Color)) {
		add("ui.color", "invalid mode %q, must be one of: %s", c.UI.Color, strings.Join(colorModes, ", "))
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
