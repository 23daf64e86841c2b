package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed defaults.yaml
var defaults []byte

// ---- Root ----

type Config struct {
	HTTP        HTTPConfig        `mapstructure:"http"`
	Log         LogConfig         `mapstructure:"log"`
	MySQL       DatabaseConfig    `mapstructure:"mysql"`
	ClickHouse  DatabaseConfig    `mapstructure:"clickhouse"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Kafka       KafkaConfig       `mapstructure:"kafka"`
	Switch      SwitchConfig      `mapstructure:"switch"`
	Correlation CorrelationConfig `mapstructure:"correlation"`
	Process     ProcessConfig     `mapstructure:"process"`
	Perf        PerfConfig        `mapstructure:"perf"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	Tenants     []TenantConfig    `mapstructure:"tenants"`
}

// ---- Leaf structs ----

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idletime"`
	PingTimeout     time.Duration `mapstructure:"ping_timeout"`
}

type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

type KafkaConfig struct {
	Brokers        []string `mapstructure:"brokers"`
	GroupID        string   `mapstructure:"group_id"`
	MinBytes       int      `mapstructure:"min_bytes"`
	MaxBytes       int      `mapstructure:"max_bytes"`
	CommitInterval int      `mapstructure:"commit_interval_ms"`
}

// SwitchConfig points at the account-lookup side of the counterparty switch.
type SwitchConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	TimeoutMs int    `mapstructure:"timeout_ms"`
}

type CorrelationConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// ProcessConfig describes the workflow-engine bridge.
type ProcessConfig struct {
	LookupFlow   string        `mapstructure:"lookup_flow"` // e.g. "party-lookup-{tenant}"
	SignalTTL    time.Duration `mapstructure:"signal_ttl"`
	StartTopic   string        `mapstructure:"start_topic"`
	SignalTopic  string        `mapstructure:"signal_topic"`
	CommandTopic string        `mapstructure:"command_topic"`
}

type PerfConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	ResponseDelay time.Duration `mapstructure:"response_delay"`
}

type RateLimitConfig struct {
	RPS   int `mapstructure:"rps"`
	Burst int `mapstructure:"burst"`
}

// TenantConfig binds a request origin domain to a local tenant and the FSP
// identity that tenant acts as on the switch.
type TenantConfig struct {
	Domain   string `mapstructure:"domain"`
	TenantID string `mapstructure:"tenant_id"`
	FspID    string `mapstructure:"fsp_id"`
}

// FlowID expands the lookup flow template for a tenant.
func (p ProcessConfig) FlowID(tenantID string) string {
	return strings.ReplaceAll(p.LookupFlow, "{tenant}", tenantID)
}

// TenantByDomain resolves the tenant owning a request origin (host without port).
func (c Config) TenantByDomain(domain string) (TenantConfig, error) {
	for _, t := range c.Tenants {
		if t.Domain == domain {
			return t, nil
		}
	}
	return TenantConfig{}, fmt.Errorf("no tenant configured for domain %q", domain)
}

// TenantByID resolves a tenant by its identifier.
func (c Config) TenantByID(tenantID string) (TenantConfig, error) {
	for _, t := range c.Tenants {
		if t.TenantID == tenantID {
			return t, nil
		}
	}
	return TenantConfig{}, fmt.Errorf("unknown tenant %q", tenantID)
}

// Load reads embedded defaults, merges user YAML (if provided), and applies env overrides (SWCONN_*).
func Load(path string) (Config, error) {
	v := viper.New()

	// embedded defaults
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return Config{}, err
	}

	if path != "" {
		v.SetConfigFile(path)
		_ = v.MergeInConfig()
	}

	// env override (SWCONN_*)
	v.SetEnvPrefix("SWCONN")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
