package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	AppPort    string
	AppEnv     string
	JWTSecret  string

	// TaxRate is the menu price-with-tax percentage. It stays 0 until
	// the business confirms an actual rate.
	TaxRate float64

	// Optional infrastructure; features stay off when unset.
	RedisAddr   string
	KafkaBroker string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:      os.Getenv("DB_HOST"),
		DBUser:      os.Getenv("DB_USER"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBName:      os.Getenv("DB_NAME"),
		DBPort:      os.Getenv("DB_PORT"),
		AppPort:     os.Getenv("APP_PORT"),
		AppEnv:      os.Getenv("APP_ENV"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		TaxRate:     parseRate(os.Getenv("TAX_RATE")),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		KafkaBroker: os.Getenv("KAFKA_BROKER"),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

func parseRate(s string) float64 {
	if s == "" {
		return 0
	}
	rate, err := strconv.ParseFloat(s, 64)
	if err != nil || rate < 0 {
		log.Fatalf("TAX_RATE must be a non-negative percentage, got %q", s)
	}
	return rate
}
