package shared

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog/log"
)

// ConfigPathEnv overrides the YAML config file location.
const ConfigPathEnv = "CONFIG_PATH"

var defaultConfigPaths = []string{"config.yaml", "config.yml"}

type RelayConfig struct {
	Name string `koanf:"name" validate:"required"`
	URL  string `koanf:"url" validate:"required,contains={url}"`
	Mode string `koanf:"mode" validate:"oneof=raw wrapped"`
}

type Config struct {
	AppEnv      string `koanf:"app_env"`
	LogLevel    string `koanf:"log_level"`
	HTTPAddr    string `koanf:"http_addr" validate:"required"`
	MetricsAddr string `koanf:"metrics_addr"`

	// RequestTimeout bounds one API request, acquisition included.
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"gt=0"`

	// Timezone decides which calendar day a review falls on.
	Timezone string `koanf:"timezone" validate:"required"`

	// Redis is optional; an empty address disables the relay payload cache.
	RedisAddr string        `koanf:"redis_addr"`
	RedisPass string        `koanf:"redis_password"`
	RedisDB   int           `koanf:"redis_db" validate:"gte=0"`
	CacheTTL  time.Duration `koanf:"cache_ttl" validate:"gte=0"`

	DefaultCountry  string `koanf:"default_country" validate:"len=2,lowercase"`
	FallbackCountry string `koanf:"fallback_country" validate:"len=2,lowercase"`
	AnalysisLang    string `koanf:"analysis_lang" validate:"oneof=en tr"`
	ReviewSort      string `koanf:"review_sort" validate:"oneof=mostRecent mostHelpful"`
	PlayReviewsKey  string `koanf:"play_reviews_key" validate:"required"`

	RelayTimeout    time.Duration `koanf:"relay_timeout" validate:"gt=0"`
	RelayRPS        int           `koanf:"relay_rps" validate:"gt=0"`
	BreakerFailures int           `koanf:"breaker_failures" validate:"gt=0"`
	BreakerCooldown time.Duration `koanf:"breaker_cooldown" validate:"gt=0"`
	Relays          []RelayConfig `koanf:"relays" validate:"dive"`

	AcquireRatePerMin int    `koanf:"acquire_rate_per_min" validate:"gte=0"`
	AnalyzeWorkers    int    `koanf:"analyze_workers" validate:"gt=0"`
	AnalyzeRange      string `koanf:"analyze_range" validate:"oneof=last7 last30 last365 all"`
}

func defaults() Config {
	return Config{
		AppEnv:            "prod",
		LogLevel:          "info",
		HTTPAddr:          ":8080",
		MetricsAddr:       "",
		RequestTimeout:    2 * time.Minute,
		Timezone:          "UTC",
		RedisDB:           0,
		CacheTTL:          10 * time.Minute,
		DefaultCountry:    "tr",
		FallbackCountry:   "us",
		AnalysisLang:      "en",
		ReviewSort:        "mostRecent",
		PlayReviewsKey:    "ds:11",
		RelayTimeout:      15 * time.Second,
		RelayRPS:          2,
		BreakerFailures:   5,
		BreakerCooldown:   time.Minute,
		AcquireRatePerMin: 20,
		AnalyzeWorkers:    4,
		AnalyzeRange:      "all",
	}
}

// DefaultRelays is the built-in relay chain, most trusted first.
func DefaultRelays() []RelayConfig {
	return []RelayConfig{
		{Name: "allorigins-get", URL: "https://api.allorigins.win/get?url={url}", Mode: "wrapped"},
		{Name: "corsproxy", URL: "https://corsproxy.io/?url={url}", Mode: "raw"},
		{Name: "allorigins-raw", URL: "https://api.allorigins.win/raw?url={url}", Mode: "raw"},
		{Name: "codetabs", URL: "https://api.codetabs.com/v1/proxy/?quest={url}", Mode: "raw"},
	}
}

// Load layers defaults, an optional YAML file and environment variables
// (APP_ENV, HTTP_ADDR, REDIS_ADDR, RELAY_TIMEOUT=20s, ...), then validates.
func Load() (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}
	if p := configPath(); p != "" {
		if err := k.Load(file.Provider(p), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", p, err)
		}
		log.Info().Str("path", p).Msg("config file loaded")
	}
	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	var c Config
	if err := k.Unmarshal("", &c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.DefaultCountry = strings.ToLower(c.DefaultCountry)
	c.FallbackCountry = strings.ToLower(c.FallbackCountry)
	if len(c.Relays) == 0 {
		c.Relays = DefaultRelays()
	}

	if err := Validate(c); err != nil {
		return Config{}, err
	}
	if c.RedisAddr == "" {
		log.Info().Msg("REDIS_ADDR is empty; relay payload cache disabled")
	}
	return c, nil
}

func Validate(c Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func configPath() string {
	if p := os.Getenv(ConfigPathEnv); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range defaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
