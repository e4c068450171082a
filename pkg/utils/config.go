package utils

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Booking  BookingConfig
	Redis    RedisConfig
	Admin    AdminConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
	// Storage selects the repository backend: "postgres" or "memory".
	Storage string
}

type DatabaseConfig struct {
	Host        string
	Port        string
	Name        string
	User        string
	Password    string
	MaxConns    int32
	LockTimeout time.Duration
	MaxRetries  int
	Migrate     bool
}

type JWTConfig struct {
	Secret string
}

type BookingConfig struct {
	TicketPrice decimal.Decimal
}

type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	UserCacheTTL time.Duration
}

type AdminConfig struct {
	Username string
	Email    string
}

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

func LoadConfig() (*Config, error) {
	return LoadConfigFrom(".env")
}

// LoadConfigFrom reads path when it exists; environment variables always win.
func LoadConfigFrom(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "theater-booking")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("STORAGE_DRIVER", StorageDriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_LOCK_TIMEOUT", "5s")
	v.SetDefault("DB_TX_MAX_RETRIES", 3)
	v.SetDefault("DB_MIGRATE", true)
	v.SetDefault("TICKET_PRICE", "10.00")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("USER_CACHE_TTL", "5m")
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_EMAIL", "admin@example.com")

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.AutomaticEnv()

	ticketPrice, err := decimal.NewFromString(v.GetString("TICKET_PRICE"))
	if err != nil {
		return nil, fmt.Errorf("invalid TICKET_PRICE %q: %w", v.GetString("TICKET_PRICE"), err)
	}
	if ticketPrice.IsNegative() {
		return nil, fmt.Errorf("TICKET_PRICE must not be negative, got %s", ticketPrice)
	}

	storage := v.GetString("STORAGE_DRIVER")
	if storage != StorageDriverPostgres && storage != StorageDriverMemory {
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", storage)
	}

	config := &Config{
		App: AppConfig{
			Name:    v.GetString("APP_NAME"),
			Port:    v.GetString("PORT"),
			Debug:   v.GetBool("DEBUG"),
			LogPath: v.GetString("LOG_PATH"),
			Storage: storage,
		},
		Database: DatabaseConfig{
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetString("DB_PORT"),
			Name:        v.GetString("DB_NAME"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASS"),
			MaxConns:    v.GetInt32("DB_MAX_CONNS"),
			LockTimeout: v.GetDuration("DB_LOCK_TIMEOUT"),
			MaxRetries:  v.GetInt("DB_TX_MAX_RETRIES"),
			Migrate:     v.GetBool("DB_MIGRATE"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
		},
		Booking: BookingConfig{
			TicketPrice: ticketPrice,
		},
		Redis: RedisConfig{
			Addr:         v.GetString("REDIS_ADDR"),
			Password:     v.GetString("REDIS_PASSWORD"),
			DB:           v.GetInt("REDIS_DB"),
			UserCacheTTL: v.GetDuration("USER_CACHE_TTL"),
		},
		Admin: AdminConfig{
			Username: v.GetString("ADMIN_USERNAME"),
			Email:    v.GetString("ADMIN_EMAIL"),
		},
	}

	return config, nil
}
