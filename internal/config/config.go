// Package config содержит логику чтения конфигурации сервиса заказа обедов.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

const (
	defaultRunAddress = "localhost:8080"
	defaultMailFrom   = "lunch@localhost"
	defaultAuthSecret = "lunch-secret"
)

// Config содержит параметры конфигурации сервиса заказа обедов.
type Config struct {
	RunAddress   string `env:"RUN_ADDRESS"`
	DatabaseURI  string `env:"DATABASE_URI"`
	RedisAddress string `env:"REDIS_ADDRESS"`
	AuthSecret   string `env:"AUTH_SECRET"`
	ReminderTime string `env:"REMINDER_TIME"`
	MailFrom     string `env:"MAIL_FROM"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
// Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	envCfg := Config{}
	if err := env.Parse(&envCfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg := &Config{}
	flag.StringVar(&cfg.RunAddress, "a", defaultRunAddress, "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.StringVar(&cfg.RedisAddress, "r", "", "redis address for mail queue and locks")
	flag.StringVar(&cfg.AuthSecret, "s", defaultAuthSecret, "secret for signing auth cookies")
	flag.StringVar(&cfg.ReminderTime, "t", "", "daily reminder time, HH:MM")
	flag.StringVar(&cfg.MailFrom, "f", defaultMailFrom, "sender address of outgoing mail")

	flag.Parse()

	override(&cfg.RunAddress, envCfg.RunAddress)
	override(&cfg.DatabaseURI, envCfg.DatabaseURI)
	override(&cfg.RedisAddress, envCfg.RedisAddress)
	override(&cfg.AuthSecret, envCfg.AuthSecret)
	override(&cfg.ReminderTime, envCfg.ReminderTime)
	override(&cfg.MailFrom, envCfg.MailFrom)

	if cfg.RunAddress == "" {
		cfg.RunAddress = defaultRunAddress
	}

	return cfg, nil
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
