package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Alternative-slot search tunables.
	AltSearchDays    int `mapstructure:"ALT_SEARCH_DAYS"`
	AltStepMinutes   int `mapstructure:"ALT_STEP_MINUTES"`
	AltMaxCandidates int `mapstructure:"ALT_MAX_CANDIDATES"`

	// Pricing.
	DemandDailySlots int    `mapstructure:"DEMAND_DAILY_SLOTS"`
	PricingRulesFile string `mapstructure:"PRICING_RULES_FILE"`

	// Waitlist.
	WaitlistTopK            int `mapstructure:"WAITLIST_TOP_K"`
	WaitlistDebounceMinutes int `mapstructure:"WAITLIST_DEBOUNCE_MINUTES"`
	WaitlistSweepMinutes    int `mapstructure:"WAITLIST_SWEEP_MINUTES"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("ALT_SEARCH_DAYS", 7)
	viper.SetDefault("ALT_STEP_MINUTES", 30)
	viper.SetDefault("ALT_MAX_CANDIDATES", 5)
	viper.SetDefault("DEMAND_DAILY_SLOTS", 8)
	viper.SetDefault("PRICING_RULES_FILE", "")
	viper.SetDefault("WAITLIST_TOP_K", 5)
	viper.SetDefault("WAITLIST_DEBOUNCE_MINUTES", 30)
	viper.SetDefault("WAITLIST_SWEEP_MINUTES", 10)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
