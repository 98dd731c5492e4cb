package config

import (
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Store drivers.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Risk scorer kinds.
const (
	RiskScorerLinear = "linear"
	RiskScorerHTTP   = "http"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	StoreDriver    string
	MigrationsPath string

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string
	AuthRateLimit     string // ulule/limiter formatted rate, e.g. "10-M"

	CORSAllowedOrigins []string
	PosthogAPIKey      string

	// Accounts
	DefaultOpeningBalance decimal.Decimal
	MinOpeningBalance     decimal.Decimal

	// Validation pipeline
	VelocityWindow      time.Duration
	VelocityVolumeLimit decimal.Decimal
	RiskFailPolicy      string
	RiskScorer          string
	RiskScorerURL       string
	RiskScorerTimeout   time.Duration
	RiskModelWeights    []float64
	RiskModelBias       float64
	RiskCacheTTL        time.Duration

	// Redis (risk score cache). Empty RedisAddr disables the cache.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Kafka (ledger events). Empty KafkaBrokers logs events instead.
	KafkaBrokers []string
}

var defaultModelWeights = []float64{-4.0, 1.0, 0.5}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "secure-banking-app")
	viper.SetDefault("AUTH_RATE_LIMIT", "10-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("DEFAULT_OPENING_BALANCE", "1000")
	viper.SetDefault("MIN_OPENING_BALANCE", "100")
	viper.SetDefault("VELOCITY_WINDOW", "60s")
	viper.SetDefault("VELOCITY_VOLUME_LIMIT", "10000")
	viper.SetDefault("RISK_FAIL_POLICY", "threshold")
	viper.SetDefault("RISK_SCORER", RiskScorerLinear)
	viper.SetDefault("RISK_SCORER_URL", "")
	viper.SetDefault("RISK_SCORER_TIMEOUT", "2s")
	viper.SetDefault("RISK_MODEL_WEIGHTS", "-4.0,1.0,0.5")
	viper.SetDefault("RISK_MODEL_BIAS", 2.0)
	viper.SetDefault("RISK_CACHE_TTL", "10m")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("KAFKA_BROKERS", "")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	cfg.StoreDriver = strings.ToLower(viper.GetString("STORE_DRIVER"))
	if cfg.StoreDriver != StoreDriverPostgres && cfg.StoreDriver != StoreDriverMemory {
		log.Printf("Warning: Unknown STORE_DRIVER ('%s'). Defaulting to %s.\n", cfg.StoreDriver, StoreDriverPostgres)
		cfg.StoreDriver = StoreDriverPostgres
	}
	if cfg.DatabaseURL == "" && cfg.StoreDriver == StoreDriverPostgres {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "secure-banking-app"
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", cfg.JWTIssuer)
	}

	cfg.JWTExpiryDuration = durationOr("JWT_EXPIRY_DURATION", time.Hour)
	cfg.VelocityWindow = durationOr("VELOCITY_WINDOW", 60*time.Second)
	cfg.RiskScorerTimeout = durationOr("RISK_SCORER_TIMEOUT", 2*time.Second)
	cfg.RiskCacheTTL = durationOr("RISK_CACHE_TTL", 10*time.Minute)

	cfg.DefaultOpeningBalance = decimalOr("DEFAULT_OPENING_BALANCE", decimal.NewFromInt(1000))
	cfg.MinOpeningBalance = decimalOr("MIN_OPENING_BALANCE", decimal.NewFromInt(100))
	cfg.VelocityVolumeLimit = decimalOr("VELOCITY_VOLUME_LIMIT", decimal.NewFromInt(10000))
	if cfg.DefaultOpeningBalance.LessThan(cfg.MinOpeningBalance) {
		log.Printf("Warning: DEFAULT_OPENING_BALANCE (%s) is below MIN_OPENING_BALANCE (%s). Using the minimum.\n",
			cfg.DefaultOpeningBalance, cfg.MinOpeningBalance)
		cfg.DefaultOpeningBalance = cfg.MinOpeningBalance
	}

	cfg.RiskFailPolicy = strings.ToLower(viper.GetString("RISK_FAIL_POLICY"))
	cfg.RiskScorer = strings.ToLower(viper.GetString("RISK_SCORER"))
	cfg.RiskScorerURL = viper.GetString("RISK_SCORER_URL")
	if cfg.RiskScorer == RiskScorerHTTP && cfg.RiskScorerURL == "" {
		log.Printf("Warning: RISK_SCORER=http but RISK_SCORER_URL is not set. Falling back to %s.\n", RiskScorerLinear)
		cfg.RiskScorer = RiskScorerLinear
	}
	cfg.RiskModelWeights = floatsOr("RISK_MODEL_WEIGHTS", defaultModelWeights)
	cfg.RiskModelBias = viper.GetFloat64("RISK_MODEL_BIAS")

	cfg.RedisAddr = viper.GetString("REDIS_ADDR")
	cfg.RedisPassword = viper.GetString("REDIS_PASSWORD")
	cfg.RedisDB = viper.GetInt("REDIS_DB")
	cfg.KafkaBrokers = splitList(viper.GetString("KAFKA_BROKERS"))

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")
	cfg.AuthRateLimit = viper.GetString("AUTH_RATE_LIMIT")
	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")

	return cfg, nil
}

func durationOr(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}

func decimalOr(key string, fallback decimal.Decimal) decimal.Decimal {
	raw := viper.GetString(key)
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}

func floatsOr(key string, fallback []float64) []float64 {
	raw := viper.GetString(key)
	parts := splitList(raw)
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			log.Printf("Warning: Invalid value for %s ('%s'). Using defaults.\n", key, raw)
			return fallback
		}
		out = append(out, f)
	}
	if len(out) != len(fallback) {
		log.Printf("Warning: %s must have %d comma separated values. Using defaults.\n", key, len(fallback))
		return fallback
	}
	return out
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
