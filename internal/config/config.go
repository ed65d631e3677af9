package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	ErrReadConfig    = errors.New("config: failed to read config file")
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Clinic   ClinicConfig   `toml:"clinic"`
	Booking  BookingConfig  `toml:"booking"`
	Payment  PaymentConfig  `toml:"payment"`
	Email    EmailConfig    `toml:"email"`
	Webhook  WebhookConfig  `toml:"webhook"`
	Redis    RedisConfig    `toml:"redis"`
	Jobs     JobsConfig     `toml:"jobs"`
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

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type ClinicConfig struct {
	Timezone string `toml:"timezone"`
}

type BookingConfig struct {
	AllowAdminCancel      bool    `toml:"allow_admin_cancel"`
	AllowDoctorCancel     bool    `toml:"allow_doctor_cancel"`
	PatientMinHoursBefore float64 `toml:"patient_min_hours_before"`
}

type PaymentConfig struct {
	StripeSecretKey     string `toml:"stripe_secret_key"`
	StripeWebhookSecret string `toml:"stripe_webhook_secret"`
	BaseURL             string `toml:"base_url"`
	Currency            string `toml:"currency"`
	Timeout             int    `toml:"timeout"`
}

type EmailConfig struct {
	SendGridAPIKey string `toml:"sendgrid_api_key"`
	FromEmail      string `toml:"from_email"`
	FromName       string `toml:"from_name"`
}

type WebhookConfig struct {
	URL     string `toml:"url"`
	Secret  string `toml:"secret"`
	Timeout int    `toml:"timeout"`
}

type RedisConfig struct {
	Addr      string `toml:"addr"`
	Password  string `toml:"password"`
	DB        int    `toml:"db"`
	KeyPrefix string `toml:"key_prefix"`
}

type JobsConfig struct {
	CronSecret       string `toml:"cron_secret"`
	ArchiveAfterDays int    `toml:"archive_after_days"`
	LockTTL          int    `toml:"lock_ttl"`
}

// Load читает TOML-файл, подставляет значения по умолчанию и секреты из окружения.
// Файл .env в рабочей директории загружается, если он существует.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default конфигурация со значениями по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 30,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "appointment-service",
		},
		Clinic: ClinicConfig{Timezone: "UTC"},
		Booking: BookingConfig{
			AllowAdminCancel:      true,
			AllowDoctorCancel:     true,
			PatientMinHoursBefore: 24,
		},
		Payment: PaymentConfig{
			BaseURL:  "https://api.stripe.com",
			Currency: "usd",
			Timeout:  10,
		},
		Webhook: WebhookConfig{Timeout: 5},
		Redis:   RedisConfig{KeyPrefix: "appointments:"},
		Jobs: JobsConfig{
			ArchiveAfterDays: 90,
			LockTTL:          300,
		},
	}
}

func (c *Config) applyEnv() {
	overrideString(&c.Database.Password, "DB_PASSWORD")
	overrideString(&c.Database.Host, "DB_HOST")
	overrideInt(&c.Database.Port, "DB_PORT")
	overrideString(&c.Payment.StripeSecretKey, "STRIPE_SECRET_KEY")
	overrideString(&c.Payment.StripeWebhookSecret, "STRIPE_WEBHOOK_SECRET")
	overrideString(&c.Email.SendGridAPIKey, "SENDGRID_API_KEY")
	overrideString(&c.Webhook.URL, "WEBHOOK_URL")
	overrideString(&c.Webhook.Secret, "WEBHOOK_SECRET")
	overrideString(&c.Redis.Addr, "REDIS_ADDR")
	overrideString(&c.Redis.Password, "REDIS_PASSWORD")
	overrideString(&c.Jobs.CronSecret, "CRON_SECRET")
}

func overrideString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be in 1..65535", ErrInvalidConfig)
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("%w: database.dbname is required", ErrInvalidConfig)
	}
	if c.Database.User == "" {
		return fmt.Errorf("%w: database.user is required", ErrInvalidConfig)
	}
	if _, err := time.LoadLocation(c.Clinic.Timezone); err != nil {
		return fmt.Errorf("%w: clinic.timezone %q: %v", ErrInvalidConfig, c.Clinic.Timezone, err)
	}
	if c.Booking.PatientMinHoursBefore < 0 {
		return fmt.Errorf("%w: booking.patient_min_hours_before must not be negative", ErrInvalidConfig)
	}
	if c.Jobs.ArchiveAfterDays < 1 {
		return fmt.Errorf("%w: jobs.archive_after_days must be positive", ErrInvalidConfig)
	}
	return nil
}

// DSN строка подключения к PostgreSQL
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// URL строка подключения в формате URL (для golang-migrate)
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}

// Location часовой пояс клиники
func (c ClinicConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Policy настройки политики отмены и переноса
func (b BookingConfig) Policy() domain.PolicyConfig {
	return domain.PolicyConfig{
		AllowAdminCancel:      b.AllowAdminCancel,
		AllowDoctorCancel:     b.AllowDoctorCancel,
		PatientMinHoursBefore: b.PatientMinHoursBefore,
	}
}

// IsConfigured платёжный провайдер настроен
func (p PaymentConfig) IsConfigured() bool {
	return p.StripeSecretKey != ""
}
