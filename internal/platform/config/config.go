package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	JWTSecret     string
	JWTExpiry     time.Duration
	JWTIssuer     string
	DeviceKeyHash string // bcrypt hash of the device key accepted at login
	RateLimit     string // ulule/limiter formatted rate, e.g. "60-M"

	Engine EngineConfig
}

// EngineConfig carries the recurring-expense-engine tunables. Defaults
// mirror the shipped app behavior.
type EngineConfig struct {
	DefaultCurrency           string
	DetectionWindowMonths     int
	MinOccurrences            int
	MinOccurrencesSubscribed  int
	GenerationHorizonDays     int
	ReminderWindowDays        int
	MissedPaymentGraceDays    int
	DuplicateAmountTolerance  float64
	AmountClusterTolerance    float64
	AmountClusterToleranceSub float64
}

// LoadConfig loads configuration from environment variables and a .env file
// if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "24h")
	viper.SetDefault("JWT_ISSUER", "organizer-backend")
	viper.SetDefault("DEVICE_KEY_HASH", "")
	viper.SetDefault("RATE_LIMIT", "60-M")

	viper.SetDefault("DEFAULT_CURRENCY", "UAH")
	viper.SetDefault("DETECTION_WINDOW_MONTHS", 3)
	viper.SetDefault("MIN_OCCURRENCES", 2)
	viper.SetDefault("MIN_OCCURRENCES_SUBSCRIPTION", 2)
	viper.SetDefault("GENERATION_HORIZON_DAYS", 60)
	viper.SetDefault("REMINDER_WINDOW_DAYS", 7)
	viper.SetDefault("MISSED_PAYMENT_GRACE_DAYS", 3)
	viper.SetDefault("DUPLICATE_AMOUNT_TOLERANCE", 0.10)
	viper.SetDefault("AMOUNT_CLUSTER_TOLERANCE", 0.10)
	viper.SetDefault("AMOUNT_CLUSTER_TOLERANCE_SUBSCRIPTION", 0.15)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiry, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiry = 24 * time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION (%q). Defaulting to %s.\n", jwtExpiryStr, jwtExpiry)
	}
	cfg.JWTExpiry = jwtExpiry
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.DeviceKeyHash = viper.GetString("DEVICE_KEY_HASH")
	if cfg.DeviceKeyHash == "" {
		log.Println("Warning: DEVICE_KEY_HASH not set. Login is disabled until it is configured.")
	}

	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	cfg.Engine = EngineConfig{
		DefaultCurrency:           viper.GetString("DEFAULT_CURRENCY"),
		DetectionWindowMonths:     viper.GetInt("DETECTION_WINDOW_MONTHS"),
		MinOccurrences:            viper.GetInt("MIN_OCCURRENCES"),
		MinOccurrencesSubscribed:  viper.GetInt("MIN_OCCURRENCES_SUBSCRIPTION"),
		GenerationHorizonDays:     viper.GetInt("GENERATION_HORIZON_DAYS"),
		ReminderWindowDays:        viper.GetInt("REMINDER_WINDOW_DAYS"),
		MissedPaymentGraceDays:    viper.GetInt("MISSED_PAYMENT_GRACE_DAYS"),
		DuplicateAmountTolerance:  viper.GetFloat64("DUPLICATE_AMOUNT_TOLERANCE"),
		AmountClusterTolerance:    viper.GetFloat64("AMOUNT_CLUSTER_TOLERANCE"),
		AmountClusterToleranceSub: viper.GetFloat64("AMOUNT_CLUSTER_TOLERANCE_SUBSCRIPTION"),
	}

	return cfg, nil
}
