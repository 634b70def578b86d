package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "PARTNERDESK"

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env    string
	Port   string
	DBPath string
	// MigrationsDir overrides the embedded migrations when set.
	MigrationsDir string
	// TiersFile points at a YAML tier catalog; empty means the built-in tiers.
	TiersFile   string
	Log         LogConfig
	HTTP        HTTPConfig
	Marketplace MarketplaceConfig
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Format string
	Output string
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	CORSAllowOrigins []string
}

// MarketplaceConfig holds the Uzum and Yandex Market endpoints. An empty base
// URL leaves that integration unconfigured.
type MarketplaceConfig struct {
	UzumBaseURL   string
	UzumToken     string
	YandexBaseURL string
	YandexToken   string
	Timeout       time.Duration
}

// IsDev reports whether the app runs outside production.
func (c Config) IsDev() bool {
	return c.Env != "production"
}

// Load reads .env (if present) and the environment and returns a populated Config.
//
// Variables use the PARTNERDESK_ prefix (PARTNERDESK_LOG_LEVEL,
// PARTNERDESK_HTTP_READ_TIMEOUT, ...). PORT and DB_PATH are also honoured.
func Load() (Config, error) {
	return load(".env")
}

func load(dotenvPath string) (Config, error) {
	// Best-effort: a missing file is fine, production injects real env vars.
	if err := loadDotEnv(dotenvPath); err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	_ = v.BindEnv("port", envPrefix+"_PORT", "PORT")
	_ = v.BindEnv("db_path", envPrefix+"_DB_PATH", "DB_PATH")

	cfg := Config{
		Env:           v.GetString("env"),
		Port:          v.GetString("port"),
		DBPath:        v.GetString("db_path"),
		MigrationsDir: v.GetString("migrations_dir"),
		TiersFile:     v.GetString("tiers_file"),
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			CORSAllowOrigins: splitList(v.GetString("http.cors_allow_origins")),
		},
		Marketplace: MarketplaceConfig{
			UzumBaseURL:   v.GetString("marketplace.uzum_base_url"),
			UzumToken:     v.GetString("marketplace.uzum_token"),
			YandexBaseURL: v.GetString("marketplace.yandex_base_url"),
			YandexToken:   v.GetString("marketplace.yandex_token"),
			Timeout:       v.GetDuration("marketplace.timeout"),
		},
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("port", "8080")
	v.SetDefault("db_path", "./dev.db")
	v.SetDefault("migrations_dir", "")
	v.SetDefault("tiers_file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 15*time.Second)
	v.SetDefault("http.cors_allow_origins", "")
	v.SetDefault("marketplace.uzum_base_url", "")
	v.SetDefault("marketplace.uzum_token", "")
	v.SetDefault("marketplace.yandex_base_url", "")
	v.SetDefault("marketplace.yandex_token", "")
	v.SetDefault("marketplace.timeout", 10*time.Second)
}

func (c Config) validate() error {
	if c.Port == "" {
		return fmt.Errorf("config: port is required")
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log format must be json or console, got %q", c.Log.Format)
	}
	if c.HTTP.ReadTimeout <= 0 || c.HTTP.WriteTimeout <= 0 {
		return fmt.Errorf("config: http timeouts must be positive")
	}
	if c.Marketplace.Timeout <= 0 {
		return fmt.Errorf("config: marketplace timeout must be positive")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
