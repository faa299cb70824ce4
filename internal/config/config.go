package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config is built once at startup and passed by reference to the components
// that need it. Nothing outside this package reads the environment.
type Config struct {
	Port       string
	DBUrl      string
	JWTSecret  string
	JWTExpiry  time.Duration
	BcryptCost int

	RateLimit float64
	RateBurst int

	Seed bool
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println(".env file not found, using environment defaults")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default-secret-key-change-in-production"
		log.Println("JWT_SECRET not set, using default key")
	}

	return &Config{
		Port:       port,
		DBUrl:      os.Getenv("DB_URL"),
		JWTSecret:  secret,
		JWTExpiry:  durationEnv("JWT_EXPIRES_IN", 24*time.Hour),
		BcryptCost: intEnv("BCRYPT_COST", bcrypt.DefaultCost),
		RateLimit:  floatEnv("RATE_LIMIT", 10),
		RateBurst:  intEnv("RATE_BURST", 20),
		Seed:       os.Getenv("SEED") == "true",
	}
}

func intEnv(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func floatEnv(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("invalid %s=%q, using %g", key, v, fallback)
		return fallback
	}
	return f
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
