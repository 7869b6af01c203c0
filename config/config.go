package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	MetricsPath       string `mapstructure:"METRICS_PATH"`
	// Comma-separated proxy addresses or CIDRs whose forwarding headers are
	// believed. Empty means none are.
	TrustedProxies []string `mapstructure:"TRUSTED_PROXIES"`

	// MongoDB.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr         string `mapstructure:"REDIS_ADDR"`
	RedisPassword     string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB    int    `mapstructure:"REDIS_SESSION_DB"`
	RedisQueueDB      int    `mapstructure:"REDIS_QUEUE_DB"`
	SessionTTLMinutes int    `mapstructure:"SESSION_TTL_MINUTES"`

	// Payments.
	StripeKey          string `mapstructure:"STRIPE_KEY"`
	DefaultCurrency    string `mapstructure:"DEFAULT_CURRENCY"`
	PaymentHoldMinutes int    `mapstructure:"PAYMENT_HOLD_MINUTES"`

	// Notifications.
	ReminderLeadMinutes     int    `mapstructure:"REMINDER_LEAD_MINUTES"`
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`

	// Scheduling defaults, used when a provider leaves them unset or
	// publishes working hours the parser cannot read.
	SlotStepMinutes  int    `mapstructure:"SLOT_STEP_MINUTES"`
	DefaultWorkStart string `mapstructure:"DEFAULT_WORK_START"`
	DefaultWorkEnd   string `mapstructure:"DEFAULT_WORK_END"`
	SlotHorizonDays  int    `mapstructure:"SLOT_HORIZON_DAYS"`
}

var AppConfig Config

var defaults = map[string]any{
	"APP_PORT":                  "8080",
	"ENV":                       "development",
	"LOG_LEVEL":                 "info",
	"MAX_REQUESTS_PER_MIN":      100,
	"METRICS_PATH":              "/metrics",
	"TRUSTED_PROXIES":           "",
	"DATABASE_URL":              "mongodb://localhost:27017",
	"DATABASE_NAME":             "expertcall",
	"REDIS_ADDR":                "localhost:6379",
	"REDIS_PASSWORD":            "",
	"REDIS_SESSION_DB":          0,
	"REDIS_QUEUE_DB":            1,
	"SESSION_TTL_MINUTES":       30,
	"STRIPE_KEY":                "",
	"DEFAULT_CURRENCY":          "usd",
	"PAYMENT_HOLD_MINUTES":      15,
	"REMINDER_LEAD_MINUTES":     15,
	"FIREBASE_CREDENTIALS_FILE": "",
	"SLOT_STEP_MINUTES":         30,
	"DEFAULT_WORK_START":        "00:00",
	"DEFAULT_WORK_END":          "00:00",
	"SLOT_HORIZON_DAYS":         30,
}

// Load reads config.yaml from "." or "./config" (if present) and overlays
// environment variables on top of the defaults.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig populates AppConfig and exits on failure.
func LoadConfig() {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
