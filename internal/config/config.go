package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"SalesScanner/internal/filter"
)

const (
	defaultTimezone   = "America/Montevideo"
	defaultLogLevel   = "info"
	configPathEnv     = "SALES_SCANNER_CONFIG"
	outDirEnv         = "SALES_SCANNER_OUTDIR"
	logLevelEnv       = "SALES_SCANNER_LOG_LEVEL"
	timezoneEnv       = "SALES_SCANNER_TIMEZONE"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Run           RunConfig          `yaml:"run"`
	Filters       FilterConfig       `yaml:"filters"`
	KnownBad      *filter.KnownBad   `yaml:"knownBad"`
	Notifications NotificationConfig `yaml:"notifications"`
}

// LoggingConfig controls slog output.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// RunConfig describes where outputs go and which clock the threshold uses.
type RunConfig struct {
	Timezone string         `yaml:"timezone"`
	OutDir   string         `yaml:"outdir"`
	Outputs  []string       `yaml:"outputs"`
	location *time.Location `yaml:"-"`
}

// Location resolves the run timezone string to a time.Location.
func (r RunConfig) Location() *time.Location {
	if r.location != nil {
		return r.location
	}
	loc, err := time.LoadLocation(defaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// FilterConfig selects the filter-state categories. Pointers distinguish an
// absent key from an explicit false when merging.
type FilterConfig struct {
	Disabled    bool  `yaml:"disabled"`
	Rescheduled *bool `yaml:"rescheduled"`
	Cancelled   *bool `yaml:"cancelled"`
	Returned    *bool `yaml:"returned"`
	Delayed     *bool `yaml:"delayed"`
	InTransit   *bool `yaml:"inTransit"`
}

// Categories resolves the toggles; unset ones are enabled.
func (f FilterConfig) Categories() filter.Categories {
	on := func(v *bool) bool { return v == nil || *v }
	return filter.Categories{
		Rescheduled: on(f.Rescheduled),
		Cancelled:   on(f.Cancelled),
		Returned:    on(f.Returned),
		Delayed:     on(f.Delayed),
		InTransit:   on(f.InTransit),
	}
}

// States is the filter-state list for the configured categories.
func (f FilterConfig) States() []string {
	return filter.States(f.Categories())
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
	APIURL   string `yaml:"apiUrl"`
}

// Enabled reports whether both credentials are present.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// Load reads .env, the YAML configuration (if present) and applies
// environment overrides. path wins over $SALES_SCANNER_CONFIG.
func Load(path string) Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: cannot read .env: %v", err)
	}

	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		fileCfg, err := readFile(path)
		if err != nil {
			log.Printf("config: %v (falling back to defaults)", err)
		} else {
			cfg = mergeConfig(cfg, fileCfg)
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

func readFile(path string) (Config, error) {
	var fileCfg Config
	raw, err := os.ReadFile(path)
	if err != nil {
		return fileCfg, fmt.Errorf("cannot read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
		return fileCfg, fmt.Errorf("cannot parse %s: %w", path, err)
	}
	return fileCfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(outDirEnv); v != "" {
		c.Run.OutDir = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(timezoneEnv); v != "" {
		c.Run.Timezone = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Run.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc = defaultConfig().Run.Location()
	}
	c.Run.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Run.Timezone != "" {
		base.Run.Timezone = override.Run.Timezone
	}
	if override.Run.OutDir != "" {
		base.Run.OutDir = override.Run.OutDir
	}
	if len(override.Run.Outputs) > 0 {
		base.Run.Outputs = override.Run.Outputs
	}

	if override.Filters.Disabled {
		base.Filters.Disabled = true
	}
	for _, pair := range []struct{ dst, src **bool }{
		{&base.Filters.Rescheduled, &override.Filters.Rescheduled},
		{&base.Filters.Cancelled, &override.Filters.Cancelled},
		{&base.Filters.Returned, &override.Filters.Returned},
		{&base.Filters.Delayed, &override.Filters.Delayed},
		{&base.Filters.InTransit, &override.Filters.InTransit},
	} {
		if *pair.src != nil {
			*pair.dst = *pair.src
		}
	}

	if override.KnownBad != nil {
		base.KnownBad = override.KnownBad
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}
	if override.Notifications.Telegram.APIURL != "" {
		base.Notifications.Telegram.APIURL = override.Notifications.Telegram.APIURL
	}

	return base
}

func defaultConfig() Config {
	knownBad := filter.DefaultKnownBad()
	return Config{
		Logging: LoggingConfig{Level: defaultLogLevel},
		Run: RunConfig{
			Timezone: defaultTimezone,
			OutDir:   defaultOutDir(),
			Outputs:  []string{"report", "json"},
		},
		KnownBad: &knownBad,
	}
}

// defaultOutDir is the desktop when there is one, else the working directory.
func defaultOutDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	desktop := filepath.Join(home, "Desktop")
	if info, err := os.Stat(desktop); err == nil && info.IsDir() {
		return desktop
	}
	return "."
}
