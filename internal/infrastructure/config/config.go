// Package config loads the service configuration from an optional config.toml and the
// environment. Environment variables always win.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Log       LogConfig
	AWS       AWSConfig
	Tables    TablesConfig
	Redis     RedisConfig
	Queue     QueueConfig
	Provider  ProviderConfig
	Numbering NumberingConfig
	Deadlines DeadlinesConfig
	Scheduler SchedulerConfig
	Metrics   MetricsConfig
}

type AppConfig struct {
	Name string
	Env  string // development, production
	Port string
}

type LogConfig struct {
	Level  string
	Format string
	Output string
}

type AWSConfig struct {
	Region           string
	AccessKeyID      string
	SecretAccessKey  string
	DynamoDBEndpoint string
}

type TablesConfig struct {
	Quotes       string
	Bookings     string
	Certificates string
	Reference    string
}

// RedisConfig selects the queue and lock backend. An empty Addr runs both in memory.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type QueueConfig struct {
	Workers       int
	MaxDeliveries int
	BaseBackoff   time.Duration
	MaxBackoff    time.Duration
	Group         string
	Consumer      string
	ClaimIdle     time.Duration
}

type ProviderConfig struct {
	BaseURL     string
	Token       string
	Timeout     time.Duration
	MaxAttempts int
	RateLimit   float64
	Burst       int
	Mock        bool
}

type NumberingConfig struct {
	PolicyPrefix      string
	CertificatePrefix string
}

type DeadlinesConfig struct {
	Quote           time.Duration
	Booking         time.Duration
	DefaultQuoteTTL time.Duration
}

// SchedulerConfig sets the periodic job intervals; a negative interval disables the job.
type SchedulerConfig struct {
	ReferenceRefresh time.Duration
	QuoteExpiry      time.Duration
	Repair           time.Duration
}

type MetricsConfig struct {
	Addr string
}

// legacyEnv maps keys to the plain env names used by the deployment manifests.
var legacyEnv = map[string]string{
	"aws.region":            "AWS_REGION",
	"aws.access_key_id":     "AWS_ACCESS_KEY_ID",
	"aws.secret_access_key": "AWS_SECRET_ACCESS_KEY",
	"aws.dynamodb_endpoint": "DYNAMODB_ENDPOINT",
	"tables.quotes":         "QUOTES_TABLE",
	"tables.bookings":       "BOOKINGS_TABLE",
	"tables.certificates":   "CERTIFICATES_TABLE",
	"tables.reference":      "REFERENCE_TABLE",
	"redis.addr":            "REDIS_ADDR",
	"provider.base_url":     "PROVIDER_BASE_URL",
	"provider.token":        "PROVIDER_TOKEN",
	"provider.mock":         "PROVIDER_MOCK",
	"app.port":              "PORT",
}

// Load reads config.toml from the working directory or ./config when present, then
// applies CARGO_COVER_* and the plain env names above.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("CARGO_COVER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		if err := v.BindEnv(key, "CARGO_COVER_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		AWS: AWSConfig{
			Region:           v.GetString("aws.region"),
			AccessKeyID:      v.GetString("aws.access_key_id"),
			SecretAccessKey:  v.GetString("aws.secret_access_key"),
			DynamoDBEndpoint: v.GetString("aws.dynamodb_endpoint"),
		},
		Tables: TablesConfig{
			Quotes:       v.GetString("tables.quotes"),
			Bookings:     v.GetString("tables.bookings"),
			Certificates: v.GetString("tables.certificates"),
			Reference:    v.GetString("tables.reference"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Queue: QueueConfig{
			Workers:       v.GetInt("queue.workers"),
			MaxDeliveries: v.GetInt("queue.max_deliveries"),
			BaseBackoff:   v.GetDuration("queue.base_backoff"),
			MaxBackoff:    v.GetDuration("queue.max_backoff"),
			Group:         v.GetString("queue.group"),
			Consumer:      v.GetString("queue.consumer"),
			ClaimIdle:     v.GetDuration("queue.claim_idle"),
		},
		Provider: ProviderConfig{
			BaseURL:     v.GetString("provider.base_url"),
			Token:       v.GetString("provider.token"),
			Timeout:     v.GetDuration("provider.timeout"),
			MaxAttempts: v.GetInt("provider.max_attempts"),
			RateLimit:   v.GetFloat64("provider.rate_limit"),
			Burst:       v.GetInt("provider.burst"),
			Mock:        v.GetBool("provider.mock"),
		},
		Numbering: NumberingConfig{
			PolicyPrefix:      v.GetString("numbering.policy_prefix"),
			CertificatePrefix: v.GetString("numbering.certificate_prefix"),
		},
		Deadlines: DeadlinesConfig{
			Quote:           v.GetDuration("deadlines.quote"),
			Booking:         v.GetDuration("deadlines.booking"),
			DefaultQuoteTTL: v.GetDuration("deadlines.default_quote_ttl"),
		},
		Scheduler: SchedulerConfig{
			ReferenceRefresh: v.GetDuration("scheduler.reference_refresh"),
			QuoteExpiry:      v.GetDuration("scheduler.quote_expiry"),
			Repair:           v.GetDuration("scheduler.repair"),
		},
		Metrics: MetricsConfig{
			Addr: v.GetString("metrics.addr"),
		},
	}

	applyDefaults(cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	setDefault(&cfg.App.Name, "cargo-cover")
	setDefault(&cfg.App.Env, "development")
	setDefault(&cfg.App.Port, "8080")

	setDefault(&cfg.Log.Level, "info")
	setDefault(&cfg.Log.Output, "stdout")
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
		if cfg.IsProduction() {
			cfg.Log.Format = "json"
		}
	}

	setDefault(&cfg.AWS.Region, "us-east-1")
	setDefault(&cfg.AWS.AccessKeyID, "local")
	setDefault(&cfg.AWS.SecretAccessKey, "local")

	setDefault(&cfg.Tables.Quotes, "quotes")
	setDefault(&cfg.Tables.Bookings, "bookings")
	setDefault(&cfg.Tables.Certificates, "certificates")
	setDefault(&cfg.Tables.Reference, "reference_entities")

	if cfg.Queue.Workers <= 0 {
		cfg.Queue.Workers = 4
	}
	if cfg.Queue.MaxDeliveries <= 0 {
		cfg.Queue.MaxDeliveries = 5
	}
	setDuration(&cfg.Queue.BaseBackoff, time.Second)
	setDuration(&cfg.Queue.MaxBackoff, time.Minute)
	setDefault(&cfg.Queue.Group, "cargo-cover")
	setDefault(&cfg.Queue.Consumer, "worker-1")
	setDuration(&cfg.Queue.ClaimIdle, 5*time.Minute)

	setDuration(&cfg.Provider.Timeout, 10*time.Second)
	if cfg.Provider.MaxAttempts <= 0 {
		cfg.Provider.MaxAttempts = 3
	}
	if cfg.Provider.RateLimit <= 0 {
		cfg.Provider.RateLimit = 20
	}
	if cfg.Provider.Burst <= 0 {
		cfg.Provider.Burst = 5
	}

	setDefault(&cfg.Numbering.PolicyPrefix, "POL-")
	setDefault(&cfg.Numbering.CertificatePrefix, "CERT-")

	setDuration(&cfg.Deadlines.Quote, 20*time.Second)
	setDuration(&cfg.Deadlines.Booking, 30*time.Second)
	setDuration(&cfg.Deadlines.DefaultQuoteTTL, 72*time.Hour)

	setDuration(&cfg.Scheduler.ReferenceRefresh, time.Hour)
	setDuration(&cfg.Scheduler.QuoteExpiry, 5*time.Minute)
	setDuration(&cfg.Scheduler.Repair, 24*time.Hour)

	setDefault(&cfg.Metrics.Addr, ":9090")
}

func (c *Config) validate() error {
	var errs []error
	if !c.Provider.Mock && strings.TrimSpace(c.Provider.BaseURL) == "" {
		errs = append(errs, errors.New("provider.base_url is required unless provider.mock is set"))
	}
	if c.Numbering.PolicyPrefix == c.Numbering.CertificatePrefix {
		errs = append(errs, errors.New("numbering prefixes must differ"))
	}
	if c.Queue.MaxBackoff < c.Queue.BaseBackoff {
		errs = append(errs, errors.New("queue.max_backoff must not be below queue.base_backoff"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, "production")
}

// UsesRedis reports whether queues and locks run on redis.
func (c *Config) UsesRedis() bool {
	return c.Redis.Addr != ""
}

func setDefault(field *string, def string) {
	if strings.TrimSpace(*field) == "" {
		*field = def
	}
}

func setDuration(field *time.Duration, def time.Duration) {
	if *field == 0 {
		*field = def
	}
}
