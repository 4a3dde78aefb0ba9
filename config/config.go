package config

import (
	"os"
	"strconv"
	"time"
)

// Config is read once at startup from the environment (.env in development).
type Config struct {
	DatabaseURL       string
	RedisAddr         string
	JWTSecret         []byte
	Port              string
	SchedulerInterval time.Duration

	SMTPHost   string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	SMTPSender string
}

func Load() Config {
	cfg := Config{
		DatabaseURL: os.Getenv("DB_URL"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		JWTSecret:   []byte(os.Getenv("JWT_SECRET")),
		Port:        os.Getenv("PORT"),
		SMTPHost:    os.Getenv("SMTP_HOST"),
		SMTPUser:    os.Getenv("SMTP_USER"),
		SMTPPass:    os.Getenv("SMTP_PASS"),
		SMTPSender:  os.Getenv("SMTP_SENDER"),
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	cfg.SMTPPort = 465
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.SMTPPort = port
		}
	}
	cfg.SchedulerInterval = time.Hour
	if v := os.Getenv("SCHEDULER_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.SchedulerInterval = d
		}
	}
	return cfg
}
