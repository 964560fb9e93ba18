package config

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/Alturino/plantstore/internal/log"
)

type Application struct {
	Env       string `mapstructure:"env"        json:"env"`
	Host      string `mapstructure:"host"       json:"host"`
	SecretKey string `mapstructure:"secret_key" json:"-"`
	LogPath   string `mapstructure:"log_path"   json:"log_path"`
	Port      int    `mapstructure:"port"       json:"port"`
}

type Log struct {
	Level      string `mapstructure:"level"       json:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" json:"max_backups"`
	Console    bool   `mapstructure:"console"     json:"console"`
}

type Database struct {
	Name           string `mapstructure:"name"            json:"name"`
	Host           string `mapstructure:"host"            json:"host"`
	MigrationPath  string `mapstructure:"migration_path"  json:"migration_path"`
	Password       string `mapstructure:"password"        json:"-"`
	TimeZone       string `mapstructure:"timezone"        json:"timezone"`
	Username       string `mapstructure:"username"        json:"username"`
	MaxConnections int32  `mapstructure:"max_connections" json:"max_connections"`
	MinConnections int32  `mapstructure:"min_connections" json:"min_connections"`
	Port           uint16 `mapstructure:"port"            json:"port"`
}

type Cache struct {
	Host     string `mapstructure:"host"     json:"host"`
	Password string `mapstructure:"password" json:"-"`
	Database int    `mapstructure:"database" json:"database"`
	Port     uint16 `mapstructure:"port"     json:"port"`
}

type Otel struct {
	Host string `mapstructure:"host" json:"host"`
	Port int    `mapstructure:"port" json:"port"`
}

func (o Otel) Endpoint() string {
	return fmt.Sprintf("%s:%d", o.Host, o.Port)
}

type Backend struct {
	BaseURL string `mapstructure:"base_url" json:"base_url"`
}

type Shipping struct {
	OriginPostalCode   string        `mapstructure:"origin_postal_code"   json:"origin_postal_code"`
	FallbackRate       string        `mapstructure:"fallback_rate"        json:"fallback_rate"`
	BreakerMaxFailures uint32        `mapstructure:"breaker_max_failures" json:"breaker_max_failures"`
	BreakerOpenTimeout time.Duration `mapstructure:"breaker_open_timeout" json:"breaker_open_timeout"`
}

func (s Shipping) FallbackAmount() decimal.Decimal {
	return parseDecimal(s.FallbackRate, decimal.NewFromInt(100))
}

type Checkout struct {
	TaxRate          string `mapstructure:"tax_rate"           json:"tax_rate"`
	Currency         string `mapstructure:"currency"           json:"currency"`
	PhoneDigits      int    `mapstructure:"phone_digits"       json:"phone_digits"`
	PostalCodeDigits int    `mapstructure:"postal_code_digits" json:"postal_code_digits"`
}

func (c Checkout) TaxRateAmount() decimal.Decimal {
	return parseDecimal(c.TaxRate, decimal.RequireFromString("0.18"))
}

type Catalog struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl" json:"cache_ttl"`
}

type Config struct {
	Database    `mapstructure:"db"          json:"db"`
	Cache       `mapstructure:"cache"       json:"cache"`
	Application `mapstructure:"application" json:"application"`
	Otel        `mapstructure:"otel"        json:"otel"`
	Backend     `mapstructure:"backend"     json:"backend"`
	Shipping    `mapstructure:"shipping"    json:"shipping"`
	Checkout    `mapstructure:"checkout"    json:"checkout"`
	Catalog     `mapstructure:"catalog"     json:"catalog"`
	Log         `mapstructure:"log"         json:"log"`
}

func (cfg Config) LogOptions() log.Options {
	return log.Options{
		Env:        cfg.Application.Env,
		Path:       cfg.Application.LogPath,
		Level:      cfg.Log.Level,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		Console:    cfg.Log.Console,
	}
}

var (
	once   sync.Once
	config *Config
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("application.env", "production")
	v.SetDefault("application.host", "0.0.0.0")
	v.SetDefault("application.port", 8080)
	v.SetDefault("application.log_path", "/var/log/storefront.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.console", false)
	v.SetDefault("otel.host", "otel-collector")
	v.SetDefault("otel.port", 4317)
	v.SetDefault("shipping.origin_postal_code", "110001")
	v.SetDefault("shipping.fallback_rate", "100")
	v.SetDefault("shipping.breaker_max_failures", 5)
	v.SetDefault("shipping.breaker_open_timeout", 30*time.Second)
	v.SetDefault("checkout.tax_rate", "0.18")
	v.SetDefault("checkout.currency", "INR")
	v.SetDefault("checkout.phone_digits", 10)
	v.SetDefault("checkout.postal_code_digits", 6)
	v.SetDefault("catalog.cache_ttl", 5*time.Minute)
}

func Load(c context.Context, filename string) (*Config, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "config Load").
		Str("filename", filename).
		Logger()

	v := viper.New()
	v.SetConfigName(filename)
	v.AddConfigPath("./env")
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	logger = logger.With().Str(log.KeyProcess, "reading config").Logger()
	logger.Info().Msg("reading config")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error when reading config with error=%w", err)
	}
	logger.Info().Msg("read config")

	logger = logger.With().Str(log.KeyProcess, "unmarshaling config").Logger()
	logger.Info().Msg("unmarshaling config")
	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config with error=%w", err)
	}
	logger.Info().Msg("unmarshaled config")

	return &cfg, nil
}

// InitConfig loads the config once per process and exits on failure.
func InitConfig(c context.Context, filename string) *Config {
	once.Do(func() {
		logger := zerolog.Ctx(c).
			With().
			Str(log.KeyTag, "main InitConfig").
			Str(log.KeyProcess, "init config").
			Logger()

		cfg, err := Load(c, filename)
		if err != nil {
			logger.Fatal().Err(err).Msg(err.Error())
		}
		config = cfg
		logger.Info().Any(log.KeyConfig, cfg).Msg("initialized config")
	})
	return config
}

func parseDecimal(value string, fallback decimal.Decimal) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return fallback
	}
	return d
}
