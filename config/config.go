package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Config collects every tunable the service reads from the environment.
type Config struct {
	Port            string
	Locations       []string
	DeliveryFee     float64
	DeliveryBuffer  time.Duration
	MonitorInterval time.Duration
	RedisAddr       string
}

func Load() Config {
	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		Locations:       splitList(getEnv("LOCATIONS", "ilha,talatona")),
		DeliveryFee:     getEnvFloat("DELIVERY_FEE", 500),
		DeliveryBuffer:  time.Duration(getEnvInt("DELIVERY_BUFFER_MIN", 30)) * time.Minute,
		MonitorInterval: time.Duration(getEnvInt("MONITOR_INTERVAL_MS", 3000)) * time.Millisecond,
		RedisAddr:       os.Getenv("REDIS_ADDR"),
	}
	return cfg
}

// HasLocation reports whether id is one of the configured restaurant sites.
func (c Config) HasLocation(id string) bool {
	for _, l := range c.Locations {
		if l == id {
			return true
		}
	}
	return false
}

// InitDB opens the authoritative store. MySQL in production; set
// DB_DRIVER=sqlite for a local file database.
func InitDB() (*gorm.DB, error) {
	if getEnv("DB_DRIVER", "mysql") == "sqlite" {
		return gorm.Open(sqlite.Open(getEnv("DB_PATH", "lastortillas.db")), &gorm.Config{})
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		getEnv("DB_USER", "root"),
		os.Getenv("DB_PASS"),
		getEnv("DB_HOST", "127.0.0.1"),
		getEnv("DB_PORT", "3306"),
		getEnv("DB_NAME", "lastortillas"),
	)
	return gorm.Open(mysql.Open(dsn), &gorm.Config{})
}

// NewRedis returns a client when REDIS_ADDR is set, nil otherwise. Callers
// fall back to the in-memory session store on nil.
func NewRedis(cfg Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: os.Getenv("REDIS_PASS"),
		DB:       getEnvInt("REDIS_DB", 0),
	})
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
