package config

import (
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config stores service settings.
type Config struct {
	Port      int
	LogLevel  string
	Provider  Provider
	Retry     Retry
	DB        DB
	Kafka     Kafka
	Sync      Sync
	RateLimit RateLimit
}

// Provider stores waste provider API settings.
type Provider struct {
	Email             string
	Password          string
	APIURL            string
	Keys              APIKeys
	Timeout           time.Duration // single HTTP call
	OperationTimeout  time.Duration // one service operation, login and retries included
	RequestsPerSecond float64
	Burst             int
}

// APIKeys are the per-endpoint-family keys sent in the apiKey header.
type APIKeys struct {
	Authentication string
	Accounts       string
	Services       string
	Holidays       string
}

// Retry stores gateway retry settings.
type Retry struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DB stores PostgreSQL connection settings.
type DB struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN returns a pgx connection string.
func (d DB) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Pass),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Kafka stores delay notice publishing settings. No brokers disables publishing.
type Kafka struct {
	Brokers    []string
	DelayTopic string
}

// Enabled reports whether publishing is configured.
func (k Kafka) Enabled() bool {
	return len(k.Brokers) > 0 && strings.TrimSpace(k.DelayTopic) != ""
}

// Sync stores sync worker settings. HolidayType selects the holidays applied
// to pickup schedules.
type Sync struct {
	Interval    time.Duration
	HolidayType string
}

// RateLimit stores inbound per-client rate limit settings.
type RateLimit struct {
	Enabled bool
	Rate    float64 // requests per second
	Burst   int
	TTL     time.Duration // idle limiter eviction
	MaxKeys int           // tracked clients cap, 0 is unbounded
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	return LoadArgs(os.Args[1:])
}

// LoadArgs is Load with explicit command line arguments.
func LoadArgs(args []string) (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := &Config{
		Port:      defaultPort,
		LogLevel:  defaultLogLevel,
		Provider:  defaultProvider,
		Retry:     defaultRetry,
		DB:        defaultDB,
		Kafka:     defaultKafka,
		Sync:      defaultSync,
		RateLimit: defaultRateLimit,
	}
	if err := fromEnv(cfg); err != nil {
		return nil, err
	}

	fs := pflag.NewFlagSet("wm-pickup", pflag.ContinueOnError)
	fs.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.DurationVar(&cfg.Sync.Interval, "sync-interval", cfg.Sync.Interval, "pickup sync interval")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromEnv(cfg *Config) error {
	var err error
	if cfg.Port, err = envInt("PORT", cfg.Port); err != nil {
		return err
	}
	cfg.LogLevel = envString("LOG_LEVEL", cfg.LogLevel)

	p := &cfg.Provider
	p.Email = envString("WM_EMAIL", p.Email)
	p.Password = envString("WM_PASSWORD", p.Password)
	p.APIURL = envString("WM_API_URL", p.APIURL)
	p.Keys.Authentication = envString("WM_API_KEY_AUTHENTICATION", p.Keys.Authentication)
	p.Keys.Accounts = envString("WM_API_KEY_USER_ACCOUNTS", p.Keys.Accounts)
	p.Keys.Services = envString("WM_API_KEY_CUSTOMER_SERVICES", p.Keys.Services)
	p.Keys.Holidays = envString("WM_API_KEY_HOLIDAYS", p.Keys.Holidays)
	if p.Timeout, err = envDuration("WM_TIMEOUT", p.Timeout); err != nil {
		return err
	}
	if p.OperationTimeout, err = envDuration("WM_OPERATION_TIMEOUT", p.OperationTimeout); err != nil {
		return err
	}
	if p.RequestsPerSecond, err = envFloat("WM_RATE", p.RequestsPerSecond); err != nil {
		return err
	}
	if p.Burst, err = envInt("WM_BURST", p.Burst); err != nil {
		return err
	}

	r := &cfg.Retry
	if r.MaxAttempts, err = envInt("WM_RETRY_MAX_ATTEMPTS", r.MaxAttempts); err != nil {
		return err
	}
	if r.BaseDelay, err = envDuration("WM_RETRY_BASE_DELAY", r.BaseDelay); err != nil {
		return err
	}
	if r.MaxDelay, err = envDuration("WM_RETRY_MAX_DELAY", r.MaxDelay); err != nil {
		return err
	}

	d := &cfg.DB
	d.Host = envString("POSTGRES_HOST", d.Host)
	d.Port = envString("POSTGRES_PORT", d.Port)
	if _, err := strconv.Atoi(d.Port); err != nil {
		return fmt.Errorf("invalid POSTGRES_PORT %q: %w", d.Port, err)
	}
	d.User = envString("POSTGRES_USER", d.User)
	d.Pass = envString("POSTGRES_PASSWORD", d.Pass)
	d.Name = envString("POSTGRES_DB", d.Name)

	cfg.Kafka.Brokers = envList("KAFKA_BROKERS", cfg.Kafka.Brokers)
	cfg.Kafka.DelayTopic = envString("KAFKA_DELAY_TOPIC", cfg.Kafka.DelayTopic)

	if cfg.Sync.Interval, err = envDuration("SYNC_INTERVAL", cfg.Sync.Interval); err != nil {
		return err
	}
	cfg.Sync.HolidayType = envString("SYNC_HOLIDAY_TYPE", cfg.Sync.HolidayType)

	rl := &cfg.RateLimit
	if rl.Enabled, err = envBool("RATE_LIMIT_ENABLED", rl.Enabled); err != nil {
		return err
	}
	if rl.Rate, err = envFloat("RATE_LIMIT_RATE", rl.Rate); err != nil {
		return err
	}
	if rl.Burst, err = envInt("RATE_LIMIT_BURST", rl.Burst); err != nil {
		return err
	}
	if rl.TTL, err = envDuration("RATE_LIMIT_TTL", rl.TTL); err != nil {
		return err
	}
	if rl.MaxKeys, err = envInt("RATE_LIMIT_MAX_KEYS", rl.MaxKeys); err != nil {
		return err
	}
	return nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if _, err := url.ParseRequestURI(c.Provider.APIURL); err != nil {
		return fmt.Errorf("invalid WM_API_URL %q: %w", c.Provider.APIURL, err)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("invalid retry attempts: %d", c.Retry.MaxAttempts)
	}
	if c.Sync.Interval <= 0 {
		return fmt.Errorf("invalid sync interval: %s", c.Sync.Interval)
	}
	switch c.Sync.HolidayType {
	case "all", "upcoming":
	default:
		return fmt.Errorf("invalid SYNC_HOLIDAY_TYPE %q", c.Sync.HolidayType)
	}
	return nil
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func envFloat(key string, def float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return f, nil
}

func envBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func envList(key string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
