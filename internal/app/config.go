package app

import (
	"errors"
	"flag"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/metinatakli/seat-reservation/internal/booking"
)

type Config struct {
	Port int
	Env  string
	DB   struct {
		DSN          string
		MaxOpenConns int
		MaxIdleTime  time.Duration
	}
	Redis struct {
		Url          string
		MaxOpenConns int
		MaxIdleConns int
		MaxIdleTime  time.Duration
		Idempotency  bool
	}
	Smtp struct {
		Host     string
		Port     int
		Username string
		Password string
		Sender   string
	}
	OtelCollectorUrl string
	HoldWindow       time.Duration
}

// loadConfig reads flags from args, falling back to environment variables and a .env
// file in the working directory.
func loadConfig(args []string) (cfg Config, displayVersion bool, err error) {
	err = godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, false, err
	}

	flags := flag.NewFlagSet("seat-reservation", flag.ContinueOnError)

	flags.IntVar(&cfg.Port, "port", getEnvAsInt("PORT", 3000), "server port")
	flags.StringVar(&cfg.Env, "env", getEnv("ENV", "dev"), "Environment (dev|staging|prod)")

	flags.StringVar(&cfg.DB.DSN, "db-dsn", getEnv("DB_DSN", ""), "PostgreSQL DSN")
	flags.IntVar(&cfg.DB.MaxOpenConns, "db-max-open-conns", getEnvAsInt("DB_MAX_OPEN_CONNS", 25), "PostgreSQL max open connections")
	flags.DurationVar(&cfg.DB.MaxIdleTime, "db-max-idle-time", getEnvAsDuration("DB_MAX_IDLE_TIME", 15*time.Minute), "PostgreSQL max idle time for connections")

	flags.StringVar(&cfg.Redis.Url, "redis-url", getEnv("REDIS_URL", ""), "Redis URL")
	flags.IntVar(&cfg.Redis.MaxOpenConns, "redis-max-open-conns", getEnvAsInt("REDIS_MAX_OPEN_CONNS", 25), "Redis max open connections")
	flags.IntVar(&cfg.Redis.MaxIdleConns, "redis-max-idle-conns", getEnvAsInt("REDIS_MAX_IDLE_CONNS", 10), "Redis max idle connections")
	flags.DurationVar(&cfg.Redis.MaxIdleTime, "redis-max-idle-time", getEnvAsDuration("REDIS_MAX_IDLE_TIME", 2*time.Minute), "Redis max idle time for connections")
	flags.BoolVar(&cfg.Redis.Idempotency, "redis-idempotency", getEnvAsBool("REDIS_IDEMPOTENCY", true), "Cache hold outcomes by idempotency key in Redis")

	flags.StringVar(&cfg.Smtp.Host, "smtp-host", getEnv("SMTP_HOST", "sandbox.smtp.mailtrap.io"), "SMTP host")
	flags.IntVar(&cfg.Smtp.Port, "smtp-port", getEnvAsInt("SMTP_PORT", 2525), "SMTP port")
	flags.StringVar(&cfg.Smtp.Username, "smtp-username", getEnv("SMTP_USERNAME", ""), "SMTP username")
	flags.StringVar(&cfg.Smtp.Password, "smtp-password", getEnv("SMTP_PASSWORD", ""), "SMTP password")
	flags.StringVar(&cfg.Smtp.Sender, "smtp-sender", getEnv("SMTP_SENDER", "CineX <no-reply@cinex.metinatakli.net>"), "SMTP sender")

	flags.StringVar(&cfg.OtelCollectorUrl, "otel-collector-url", getEnv("OTEL_COLLECTOR_URL", ""), "OpenTelemetry collector gRPC endpoint")
	flags.DurationVar(&cfg.HoldWindow, "hold-window", getEnvAsDuration("HOLD_WINDOW", booking.DefaultHoldWindow), "How long a seat hold lasts")

	showVersion := flags.Bool("version", false, "Display version and exit")

	err = flags.Parse(args)
	if err != nil {
		return cfg, false, err
	}

	return cfg, *showVersion, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}
