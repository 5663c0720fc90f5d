package main

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// serverEnv holds raw environment values for the daemon.
type serverEnv struct {
	Port        string        `env:"PORT"                 envDefault:"3000"`
	DatabaseURL string        `env:"DATABASE_URL,required"`
	RedisURL    string        `env:"REDIS_URL"            envDefault:"redis://localhost:6379"`
	JWTSecret   string        `env:"JWT_SECRET,required"`
	AccessTTL   time.Duration `env:"ACCESS_TOKEN_TTL"     envDefault:"1h"`
	RefreshTTL  time.Duration `env:"REFRESH_TOKEN_TTL"    envDefault:"168h"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `env:"GOOGLE_REDIRECT_URL"`
}

func loadEnv() (serverEnv, error) {
	var cfg serverEnv
	err := env.Parse(&cfg)
	return cfg, err
}
