// Package config loads settings from defaults, an optional YAML file, the
// environment (including a .env file) and command-line flags, in that order
// of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/api"
	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/bot"
	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/consts"
	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/forms"
	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/history"
)

type Config struct {
	BackendURL string        `yaml:"backend_url"`
	Timeout    time.Duration `yaml:"timeout"`
	// RateLimit is requests per second to the backend; 0 is unlimited.
	RateLimit float64 `yaml:"rate_limit"`
	// Retries applies to transport failures only.
	Retries  uint   `yaml:"retries"`
	Language string `yaml:"language"`

	MaxBatchClaims    int   `yaml:"max_batch_claims"`
	MaxImageBytes     int64 `yaml:"max_image_bytes"`
	MaxVideoBytes     int64 `yaml:"max_video_bytes"`
	MaxImageDimension int   `yaml:"max_image_dimension"`

	HistoryBackend string `yaml:"history_backend"`
	HistoryPath    string `yaml:"history_path"`
	HistorySize    int    `yaml:"history_size"`
	RedisURL       string `yaml:"redis_url"`

	Listen        string `yaml:"listen"`
	TelegramToken string `yaml:"telegram_bot_token"`
	// TelegramAllowedChats restricts the bot to these chats when non-empty.
	TelegramAllowedChats []int64 `yaml:"telegram_allowed_chats"`
	// TelegramLogChat receives a copy of every bot reply when non-zero.
	TelegramLogChat int64 `yaml:"telegram_log_chat"`
}

func Default() *Config {
	return &Config{
		BackendURL:     consts.DefaultBackendURL,
		Timeout:        consts.DefaultTimeout,
		Language:       consts.DefaultLanguage,
		MaxBatchClaims: consts.MaxBatchClaims,
		MaxImageBytes:  consts.MaxImageBytes,
		MaxVideoBytes:  consts.MaxVideoBytes,
		HistoryBackend: string(history.BackendSQLite),
		HistoryPath:    defaultHistoryPath(),
		HistorySize:    consts.HistorySize,
		Listen:         consts.DefaultListenAddr,
	}
}

func defaultHistoryPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "lumina", "history.db")
}

// LoadDotEnv reads KEY=value pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Load returns the defaults overlaid with the YAML file at path (skipped when
// path is empty) and then with the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	strs := map[string]*string{
		"LUMINA_BACKEND_URL":     &c.BackendURL,
		"LUMINA_LANGUAGE":        &c.Language,
		"LUMINA_HISTORY_BACKEND": &c.HistoryBackend,
		"LUMINA_HISTORY_PATH":    &c.HistoryPath,
		"LUMINA_LISTEN":          &c.Listen,
		"REDIS_URL":              &c.RedisURL,
		"TELEGRAM_BOT_TOKEN":     &c.TelegramToken,
	}
	for name, dst := range strs {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"LUMINA_MAX_BATCH_CLAIMS":    &c.MaxBatchClaims,
		"LUMINA_MAX_IMAGE_DIMENSION": &c.MaxImageDimension,
		"LUMINA_HISTORY_SIZE":        &c.HistorySize,
	}
	for name, dst := range ints {
		if v := os.Getenv(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", name, err)
			}
			*dst = n
		}
	}

	int64s := map[string]*int64{
		"LUMINA_MAX_IMAGE_BYTES": &c.MaxImageBytes,
		"LUMINA_MAX_VIDEO_BYTES": &c.MaxVideoBytes,
	}
	for name, dst := range int64s {
		if v := os.Getenv(name); v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", name, err)
			}
			*dst = n
		}
	}

	if v := os.Getenv("LUMINA_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid LUMINA_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	if v := os.Getenv("LUMINA_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid LUMINA_RATE_LIMIT: %w", err)
		}
		c.RateLimit = f
	}
	if v := os.Getenv("TELEGRAM_ALLOWED_CHATS"); v != "" {
		ids, err := ParseChatIDs(v)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_ALLOWED_CHATS: %w", err)
		}
		c.TelegramAllowedChats = ids
	}
	if v := os.Getenv("TELEGRAM_LOG_CHAT"); v != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_LOG_CHAT: %w", err)
		}
		c.TelegramLogChat = id
	}
	if v := os.Getenv("LUMINA_RETRIES"); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid LUMINA_RETRIES: %w", err)
		}
		c.Retries = uint(n)
	}
	return nil
}

// ParseChatIDs reads a comma-separated list of chat IDs.
func ParseChatIDs(value string) ([]int64, error) {
	var ids []int64
	for _, v := range strings.Split(value, ",") {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid chat id: %s", v)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

var validHistoryBackends = []history.Backend{
	history.BackendSQLite, history.BackendRedis, history.BackendMemory, history.BackendOff,
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid backend url: %q", c.BackendURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative, got %v", c.RateLimit)
	}
	if _, ok := consts.Languages[c.Language]; !ok {
		return fmt.Errorf("unsupported language: %s", c.Language)
	}
	if c.MaxBatchClaims <= 0 {
		return fmt.Errorf("max_batch_claims must be positive, got %d", c.MaxBatchClaims)
	}
	if c.MaxImageBytes <= 0 || c.MaxVideoBytes <= 0 {
		return fmt.Errorf("upload size limits must be positive")
	}
	if c.MaxImageDimension < 0 {
		return fmt.Errorf("max_image_dimension must not be negative, got %d", c.MaxImageDimension)
	}

	validBackend := false
	for _, b := range validHistoryBackends {
		if history.Backend(c.HistoryBackend) == b {
			validBackend = true
			break
		}
	}
	if !validBackend {
		return fmt.Errorf("invalid history backend: %s (valid: %v)", c.HistoryBackend, validHistoryBackends)
	}
	if history.Backend(c.HistoryBackend) == history.BackendRedis && c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required for the redis history backend")
	}
	return nil
}

func (c *Config) APIOptions(logger *slog.Logger) api.Options {
	return api.Options{
		BaseURL:   c.BackendURL,
		Timeout:   c.Timeout,
		RateLimit: c.RateLimit,
		Retries:   c.Retries,
		Logger:    logger,
	}
}

func (c *Config) Limits() forms.Limits {
	return forms.Limits{
		MaxBatchClaims:    c.MaxBatchClaims,
		MaxImageBytes:     c.MaxImageBytes,
		MaxVideoBytes:     c.MaxVideoBytes,
		MaxImageDimension: c.MaxImageDimension,
	}
}

func (c *Config) BotConfig() bot.Config {
	return bot.Config{
		Token:        c.TelegramToken,
		AllowedChats: c.TelegramAllowedChats,
		LogChat:      c.TelegramLogChat,
		Language:     c.Language,
	}
}

func (c *Config) HistoryOptions(logger *slog.Logger) history.Options {
	return history.Options{
		Backend:  history.Backend(c.HistoryBackend),
		Path:     c.HistoryPath,
		RedisURL: c.RedisURL,
		Size:     c.HistorySize,
		Logger:   logger,
	}
}
