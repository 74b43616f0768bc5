package utils

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Session   SessionConfig
	Booking   BookingConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

// RedisConfig. Empty Addr means Redis is disabled and the in-memory
// rate-limit store and cache are used instead.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SessionConfig struct {
	ExpiryHours int
}

type BookingConfig struct {
	OpenHour          int
	CloseHour         int
	DailyQuotaMinutes int
	LockTimeout       time.Duration
	Timezone          string
}

type RateLimitConfig struct {
	Capacity int
	Window   time.Duration
}

type CacheConfig struct {
	TTL time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("SESSION_EXPIRY_HOURS", 24)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("BOOKING_OPEN_HOUR", 7)
	viper.SetDefault("BOOKING_CLOSE_HOUR", 22)
	viper.SetDefault("BOOKING_DAILY_QUOTA_MINUTES", 540)
	viper.SetDefault("BOOKING_LOCK_TIMEOUT", "5s")
	viper.SetDefault("BOOKING_TIMEZONE", "Local")
	viper.SetDefault("RATE_LIMIT_CAPACITY", 30)
	viper.SetDefault("RATE_LIMIT_WINDOW", "60s")
	viper.SetDefault("CACHE_TTL", "60s")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASS"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Session: SessionConfig{
			ExpiryHours: viper.GetInt("SESSION_EXPIRY_HOURS"),
		},
		Booking: BookingConfig{
			OpenHour:          viper.GetInt("BOOKING_OPEN_HOUR"),
			CloseHour:         viper.GetInt("BOOKING_CLOSE_HOUR"),
			DailyQuotaMinutes: viper.GetInt("BOOKING_DAILY_QUOTA_MINUTES"),
			LockTimeout:       viper.GetDuration("BOOKING_LOCK_TIMEOUT"),
			Timezone:          viper.GetString("BOOKING_TIMEZONE"),
		},
		RateLimit: RateLimitConfig{
			Capacity: viper.GetInt("RATE_LIMIT_CAPACITY"),
			Window:   viper.GetDuration("RATE_LIMIT_WINDOW"),
		},
		Cache: CacheConfig{
			TTL: viper.GetDuration("CACHE_TTL"),
		},
	}

	return config, nil
}
