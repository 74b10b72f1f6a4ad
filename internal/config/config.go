package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Environment - переменные окружения сервиса (префикс TASK_).
type Environment struct {
	Port           int           `default:"9002"`
	LogLevel       string        `default:"info" split_words:"true"`
	RequestTimeout time.Duration `default:"30s" split_words:"true"`

	DBHost     string `default:"localhost" split_words:"true"`
	DBPort     string `default:"5432" split_words:"true"`
	DBUser     string `default:"postgres" split_words:"true"`
	DBPassword string `default:"postgres" split_words:"true"`
	DBName     string `default:"tasks" split_words:"true"`
	DBSSLMode  string `default:"disable" split_words:"true"`

	MigrationsPath string `default:"file://migrations" split_words:"true"`

	// создать пользователя id=1 при старте (локальная разработка)
	SeedDemoUser bool `default:"false" split_words:"true"`

	// пустой URL выключает отправку телеметрии, остается только stdout
	AMQPURL        string `default:"" envconfig:"AMQP_URL"`
	TelemetryQueue string `default:"task_service_logs" split_words:"true"`
	ShipperBuffer  int    `default:"256" split_words:"true"`
}

// Process читает .env (если есть) и окружение.
// Реальные переменные окружения имеют приоритет над .env.
func Process() (*Environment, error) {
	_ = godotenv.Load()

	env := new(Environment)
	if err := envconfig.Process("task", env); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	return env, nil
}

// DatabaseURL собирает строку подключения к Postgres.
func (e *Environment) DatabaseURL() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		e.DBUser, e.DBPassword, e.DBHost, e.DBPort, e.DBName, e.DBSSLMode)
}
