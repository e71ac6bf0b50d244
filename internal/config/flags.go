package config

import (
	"github.com/spf13/pflag"
)

// RegisterFlags adds one override flag per setting. Only flags the user
// actually sets are applied, so unset flags never mask file or env values.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("backend", d.BackendURL, "Backend base URL")
	fs.Duration("timeout", d.Timeout, "Backend request timeout")
	fs.Float64("rate-limit", 0, "Backend requests per second (0 = unlimited)")
	fs.Uint("retries", 0, "Extra attempts after a transport failure")
	fs.String("language", d.Language, "Preferred analysis language (en, es, fr, de, it, pt, zh)")
	fs.String("history-backend", d.HistoryBackend, "History store (sqlite, redis, memory, off)")
	fs.String("history-path", d.HistoryPath, "SQLite history file")
	fs.Int("max-image-dimension", 0, "Downscale images larger than this many pixels (0 = never)")
}

func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	var err error
	changed := func(name string) bool {
		return err == nil && fs.Changed(name)
	}

	if changed("backend") {
		c.BackendURL, err = fs.GetString("backend")
	}
	if changed("timeout") {
		c.Timeout, err = fs.GetDuration("timeout")
	}
	if changed("rate-limit") {
		c.RateLimit, err = fs.GetFloat64("rate-limit")
	}
	if changed("retries") {
		c.Retries, err = fs.GetUint("retries")
	}
	if changed("language") {
		c.Language, err = fs.GetString("language")
	}
	if changed("history-backend") {
		c.HistoryBackend, err = fs.GetString("history-backend")
	}
	if changed("history-path") {
		c.HistoryPath, err = fs.GetString("history-path")
	}
	if changed("max-image-dimension") {
		c.MaxImageDimension, err = fs.GetInt("max-image-dimension")
	}
	return err
}
