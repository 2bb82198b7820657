package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/fx"
)

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type DBConfig struct {
	// DSN is the postgres connection string. Leave empty to run with
	// in-memory stores (all subscriptions and archive history reset on
	// restart; paid tiers revert to free until the provider webhooks
	// re-sync them).
	DSN string `mapstructure:"dsn"`
}

type Env string

const (
	EnvDev  Env = "dev"
	EnvProd Env = "prod"
)

// LemonSqueezyConfig holds the payment-provider credentials. WebhookSecret
// empty disables signature verification (dev mode only).
type LemonSqueezyConfig struct {
	APIKey        string `mapstructure:"api_key"`
	StoreID       string `mapstructure:"store_id"`
	WebhookSecret string `mapstructure:"webhook_secret"`
	ProVariantID  string `mapstructure:"pro_variant_id"`
	TeamVariantID string `mapstructure:"team_variant_id"`
}

// AirtableConfig holds the OAuth client used by the connect/callback flow.
type AirtableConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURI  string `mapstructure:"redirect_uri"`
}

type Config struct {
	Env      Env          `mapstructure:"env"`
	Server   ServerConfig `mapstructure:"server"`
	Database DBConfig     `mapstructure:"database"`
	// APIKey guards the archive/billing routes via bearer auth. Empty
	// disables auth entirely (dev mode).
	APIKey       string             `mapstructure:"api_key"`
	AppURL       string             `mapstructure:"app_url"`
	LemonSqueezy LemonSqueezyConfig `mapstructure:"lemonsqueezy"`
	Airtable     AirtableConfig     `mapstructure:"airtable"`
	MetricsAddr  string             `mapstructure:"metrics_addr"`
}

// VariantIDForTier maps a purchasable tier to its provider variant id.
func (c *Config) VariantIDForTier(tier string) string {
	switch tier {
	case "pro":
		return c.LemonSqueezy.ProVariantID
	case "team":
		return c.LemonSqueezy.TeamVariantID
	}
	return ""
}

func New() (*Config, error) {
	v := viper.New()
	// Allow overriding config file via env:
	// - APP_CONFIG_FILE: absolute or relative file path (e.g., /etc/app/prod.yaml)
	// - APP_CONFIG_NAME: config base name without extension (default: "config")
	if file := os.Getenv("APP_CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
	} else {
		cfgName := os.Getenv("APP_CONFIG_NAME")
		if cfgName == "" {
			cfgName = "config"
		}
		v.SetConfigName(cfgName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("env", "dev")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8888)
	v.SetDefault("database.dsn", "")
	v.SetDefault("app_url", "https://archivebase.dasgroupllc.com")
	v.SetDefault("metrics_addr", "")

	if err := v.ReadInConfig(); err != nil {
		_ = err
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &c, nil
}

var Module = fx.Options(
	fx.Provide(New),
)
