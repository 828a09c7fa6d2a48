package config

import (
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env         string
	Port        string
	DatabaseURL string
	RedisURL    string
	// ReferencePrice is the default reference price for return
	// calculations when a request does not supply one.
	ReferencePrice   decimal.Decimal
	HoldingsCacheTTL time.Duration
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	dbURL := viper.GetString("DATABASE_URL_DEV")
	if env == "production" {
		dbURL = viper.GetString("DATABASE_URL_PROD")
	} else if env == "test" {
		dbURL = viper.GetString("DATABASE_URL_TEST")
	}
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL_DEV")
	}

	refPrice, err := referencePrice(viper.GetString("REFERENCE_PRICE"))
	if err != nil {
		return nil, err
	}

	ttl := viper.GetInt("HOLDINGS_CACHE_TTL_SECONDS")
	if ttl <= 0 {
		ttl = 60
	}

	return &Config{
		Env:              env,
		Port:             port,
		DatabaseURL:      dbURL,
		RedisURL:         viper.GetString("REDIS_URL"),
		ReferencePrice:   refPrice,
		HoldingsCacheTTL: time.Duration(ttl) * time.Second,
	}, nil
}

func referencePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NewFromInt(100), nil
	}
	return decimal.NewFromString(s)
}
