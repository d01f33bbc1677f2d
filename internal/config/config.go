package config

import (
	"fmt"

	env "github.com/caarlos0/env/v11"
)

type Config struct {
	DatabaseURL string `env:"DATABASE_URL,required"`
	Port        int    `env:"PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv      string `env:"APP_ENV" envDefault:"production"`

	// Base URL of the back-office that serves customer and product snapshots.
	BackofficeURL string `env:"BACKOFFICE_URL" envDefault:"http://backoffice:8081"`

	// Circuit-breaker tuning for snapshot lookups. The breaker trips once the
	// failure rate over the rolling window exceeds BreakerFailureRate, provided
	// at least BreakerMinRequests calls were observed.
	BreakerFailureRate   float64 `env:"BREAKER_FAILURE_RATE" envDefault:"0.5"`
	BreakerMinRequests   uint32  `env:"BREAKER_MIN_REQUESTS" envDefault:"5"`
	BreakerWindowS       int     `env:"BREAKER_WINDOW_S" envDefault:"60"`
	BreakerOpenIntervalS int     `env:"BREAKER_OPEN_INTERVAL_S" envDefault:"30"`
	BreakerHalfOpenCalls uint32  `env:"BREAKER_HALF_OPEN_CALLS" envDefault:"3"`
	BreakerCallTimeoutMS int     `env:"BREAKER_CALL_TIMEOUT_MS" envDefault:"2000"`

	DBMaxOpenConns     int `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns     int `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	DBConnMaxLifetimeS int `env:"DB_CONN_MAX_LIFETIME_S" envDefault:"300"`
	DBConnMaxIdleTimeS int `env:"DB_CONN_MAX_IDLE_TIME_S" envDefault:"60"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}
