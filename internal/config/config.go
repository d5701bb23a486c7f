package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

// envPrefix префикс переменных окружения (PARKING_DB_PASSWORD или DB_PASSWORD)
const envPrefix = "parking"

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Razorpay  RazorpayConfig  `toml:"razorpay"`
	Redis     RedisConfig     `toml:"redis"`
	RabbitMQ  RabbitMQConfig  `toml:"rabbitmq"`
	Auth      AuthConfig      `toml:"auth"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	Pricing   PricingConfig   `toml:"pricing"`
	Booking   BookingConfig   `toml:"booking"`
	Workers   WorkersConfig   `toml:"workers"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     c.DBName,
		RawQuery: url.Values{"sslmode": []string{c.SSLMode}}.Encode(),
	}
	return u.String()
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type RazorpayConfig struct {
	KeyID     string `toml:"key_id"`
	KeySecret string `toml:"key_secret"`
	Currency  string `toml:"currency"`
	// Timeout в секундах
	Timeout int `toml:"timeout"`
}

type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type RabbitMQConfig struct {
	Enabled  bool   `toml:"enabled"`
	URL      string `toml:"url"`
	Exchange string `toml:"exchange"`
}

type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
	Issuer    string `toml:"issuer"`
}

type RateLimitConfig struct {
	Enabled bool `toml:"enabled"`
	// Rate в формате ulule/limiter: "60-M", "10-S", "1000-H"
	Rate string `toml:"rate"`
	// TrustForwardHeader брать IP клиента из X-Forwarded-For / X-Real-IP
	TrustForwardHeader bool `toml:"trust_forward_header"`
}

type PricingConfig struct {
	// MissingTierPolicy error | zero
	MissingTierPolicy string `toml:"missing_tier_policy"`
	// UnknownChargePolicy ignore | error
	UnknownChargePolicy string          `toml:"unknown_charge_policy"`
	QuoteTolerance      decimal.Decimal `toml:"quote_tolerance"`
	// Timezone для меток времени без смещения (IANA, например Asia/Kolkata)
	Timezone string `toml:"timezone"`
}

// Location таймзона для меток времени без смещения
func (c PricingConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}

type BookingConfig struct {
	// PaymentWindowMinutes через сколько минут неоплаченное бронирование истекает
	PaymentWindowMinutes int `toml:"payment_window_minutes"`
	// IdempotencyTTL время хранения ответа по Idempotency-Key, секунды
	IdempotencyTTL int `toml:"idempotency_ttl"`
}

func (c BookingConfig) PaymentWindow() time.Duration {
	return time.Duration(c.PaymentWindowMinutes) * time.Minute
}

type WorkersConfig struct {
	ExpiryInterval  int `toml:"expiry_interval"`
	ExpiryBatchSize int `toml:"expiry_batch_size"`
	// ExpiryLockTTL время жизни блокировки прохода, секунды. Проход обрывается раньше, чем она истечет
	ExpiryLockTTL    int `toml:"expiry_lock_ttl"`
	RelayInterval    int `toml:"relay_interval"`
	RelayBatchSize   int `toml:"relay_batch_size"`
	RelayMaxAttempts int `toml:"relay_max_attempts"`
}

func (c WorkersConfig) ExpiryLockDuration() time.Duration {
	return time.Duration(c.ExpiryLockTTL) * time.Second
}

// ExpirySweepTimeout дедлайн одного прохода, с запасом меньше TTL блокировки
func (c WorkersConfig) ExpirySweepTimeout() time.Duration {
	return c.ExpiryLockDuration() * 4 / 5
}

// secrets значения, которые можно переопределить из окружения
type secrets struct {
	DBPassword        string `envconfig:"DB_PASSWORD"`
	RazorpayKeyID     string `envconfig:"RAZORPAY_KEY_ID"`
	RazorpayKeySecret string `envconfig:"RAZORPAY_KEY_SECRET"`
	RedisPassword     string `envconfig:"REDIS_PASSWORD"`
	RabbitMQURL       string `envconfig:"RABBITMQ_URL"`
	JWTSecret         string `envconfig:"JWT_SECRET"`
}

// Load читает конфигурацию из TOML-файла и накладывает секреты из окружения
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	var env secrets
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return nil, fmt.Errorf("config: read environment: %w", err)
	}
	cfg.applySecrets(env)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default значения по умолчанию, перекрываемые файлом
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs:    LogsConfig{Level: "info"},
		Metrics: MetricsConfig{Path: "/metrics", ServiceName: "parking-service"},
		Razorpay: RazorpayConfig{
			Currency: "INR",
			Timeout:  10,
		},
		Redis:     RedisConfig{Addr: "localhost:6379"},
		RabbitMQ:  RabbitMQConfig{Exchange: "parking.events"},
		RateLimit: RateLimitConfig{Rate: "120-M"},
		Pricing: PricingConfig{
			MissingTierPolicy:   "error",
			UnknownChargePolicy: "ignore",
			QuoteTolerance:      decimal.RequireFromString("0.01"),
			Timezone:            "UTC",
		},
		Booking: BookingConfig{
			PaymentWindowMinutes: 15,
			IdempotencyTTL:       86400,
		},
		Workers: WorkersConfig{
			ExpiryInterval:   60,
			ExpiryBatchSize:  100,
			ExpiryLockTTL:    300,
			RelayInterval:    5,
			RelayBatchSize:   50,
			RelayMaxAttempts: 10,
		},
	}
}

func (c *Config) applySecrets(env secrets) {
	if env.DBPassword != "" {
		c.Database.Password = env.DBPassword
	}
	if env.RazorpayKeyID != "" {
		c.Razorpay.KeyID = env.RazorpayKeyID
	}
	if env.RazorpayKeySecret != "" {
		c.Razorpay.KeySecret = env.RazorpayKeySecret
	}
	if env.RedisPassword != "" {
		c.Redis.Password = env.RedisPassword
	}
	if env.RabbitMQURL != "" {
		c.RabbitMQ.URL = env.RabbitMQURL
	}
	if env.JWTSecret != "" {
		c.Auth.JWTSecret = env.JWTSecret
	}
}

// Validate проверяет обязательные значения
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("%w: server.http_port must be positive", ErrInvalidConfig)
	}
	if c.Database.Host == "" || c.Database.DBName == "" || c.Database.User == "" {
		return fmt.Errorf("%w: database host, dbname and user are required", ErrInvalidConfig)
	}
	if c.Razorpay.KeyID == "" || c.Razorpay.KeySecret == "" {
		return fmt.Errorf("%w: razorpay key_id and key_secret are required", ErrInvalidConfig)
	}
	if c.Razorpay.Currency == "" {
		return fmt.Errorf("%w: razorpay.currency is required", ErrInvalidConfig)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("%w: auth.jwt_secret is required", ErrInvalidConfig)
	}
	switch c.Pricing.MissingTierPolicy {
	case "error", "zero":
	default:
		return fmt.Errorf("%w: pricing.missing_tier_policy must be error or zero", ErrInvalidConfig)
	}
	switch c.Pricing.UnknownChargePolicy {
	case "ignore", "error":
	default:
		return fmt.Errorf("%w: pricing.unknown_charge_policy must be ignore or error", ErrInvalidConfig)
	}
	if c.Pricing.QuoteTolerance.IsNegative() {
		return fmt.Errorf("%w: pricing.quote_tolerance must not be negative", ErrInvalidConfig)
	}
	if _, err := c.Pricing.Location(); err != nil {
		return fmt.Errorf("%w: pricing.timezone: %v", ErrInvalidConfig, err)
	}
	if c.Booking.PaymentWindowMinutes <= 0 {
		return fmt.Errorf("%w: booking.payment_window_minutes must be positive", ErrInvalidConfig)
	}
	if c.Workers.ExpiryInterval <= 0 || c.Workers.RelayInterval <= 0 {
		return fmt.Errorf("%w: workers intervals must be positive", ErrInvalidConfig)
	}
	if c.Workers.ExpiryLockTTL <= c.Workers.ExpiryInterval {
		return fmt.Errorf("%w: workers.expiry_lock_ttl must be greater than workers.expiry_interval", ErrInvalidConfig)
	}
	if c.Workers.ExpiryBatchSize <= 0 || c.Workers.RelayBatchSize <= 0 || c.Workers.RelayMaxAttempts <= 0 {
		return fmt.Errorf("%w: workers batch sizes and max attempts must be positive", ErrInvalidConfig)
	}
	if c.RabbitMQ.Enabled && c.RabbitMQ.URL == "" {
		return fmt.Errorf("%w: rabbitmq.url is required when rabbitmq is enabled", ErrInvalidConfig)
	}
	return nil
}
