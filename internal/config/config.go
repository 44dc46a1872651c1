package config

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv          string
	HTTPAddr        string
	LogLevel        string
	ShutdownTimeout time.Duration

	DBDriver    string
	DatabaseURL string

	JWTSecret string
	JWTTTL    time.Duration

	RedisURL          string
	RateLimitBackend  string
	RateLimitFailMode string
	AuthRateLimitRPM  int
	APIRateLimitRPM   int

	CORSAllowedOrigins []string

	SeedPeople      bool
	SeedPeopleCount int
	SeedRandomSeed  uint64

	KafkaBrokers []string
	KafkaTopic   string

	PrometheusEnabled         bool
	EnableOTelHTTP            bool
	OTELMetricsEnabled        bool
	OTELTracingEnabled        bool
	OTELLogsEnabled           bool
	OTELExporterOTLPEndpoint  string
	OTELExporterOTLPInsecure  bool
	OTELServiceName           string
	OTELEnvironment           string
	OTELMetricsExportInterval time.Duration
	OTELTraceSampleRatio      float64
}

var defaults = map[string]any{
	"APP_ENV":                      "development",
	"HTTP_ADDR":                    ":8080",
	"LOG_LEVEL":                    "info",
	"SHUTDOWN_TIMEOUT":             "15s",
	"DB_DRIVER":                    "sqlite",
	"DATABASE_URL":                 "file:app.db?_foreign_keys=on",
	"JWT_TTL":                      "24h",
	"REDIS_URL":                    "",
	"RATE_LIMIT_BACKEND":           "local",
	"RATE_LIMIT_FAIL_MODE":         "fail_open",
	"AUTH_RATE_LIMIT_RPM":          30,
	"API_RATE_LIMIT_RPM":           600,
	"CORS_ALLOWED_ORIGINS":         "http://localhost:3000",
	"SEED_PEOPLE":                  true,
	"SEED_PEOPLE_COUNT":            100,
	"SEED_RANDOM_SEED":             0,
	"KAFKA_BROKERS":                "",
	"KAFKA_TOPIC":                  "auth.events",
	"PROMETHEUS_ENABLED":           true,
	"OTEL_HTTP_ENABLED":            false,
	"OTEL_METRICS_ENABLED":         false,
	"OTEL_TRACING_ENABLED":         false,
	"OTEL_LOGS_ENABLED":            false,
	"OTEL_EXPORTER_OTLP_ENDPOINT":  "localhost:4317",
	"OTEL_EXPORTER_OTLP_INSECURE":  true,
	"OTEL_SERVICE_NAME":            "my-practices-auth",
	"OTEL_ENVIRONMENT":             "development",
	"OTEL_METRICS_EXPORT_INTERVAL": "30s",
	"OTEL_TRACE_SAMPLE_RATIO":      1.0,
}

// Load reads configuration from the environment, after loading envFile if it
// exists. Variables already set in the environment are never overridden.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			loadErr := &EnvFileError{Path: envFile, Err: err}
			recordLoadEvent(context.Background(), os.Getenv("APP_ENV"), loadErr)
			return nil, loadErr
		}
	}
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	cfg, err := fromViper(v)
	recordLoadEvent(context.Background(), v.GetString("APP_ENV"), err)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppEnv:                   v.GetString("APP_ENV"),
		HTTPAddr:                 v.GetString("HTTP_ADDR"),
		LogLevel:                 v.GetString("LOG_LEVEL"),
		DBDriver:                 strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER"))),
		DatabaseURL:              v.GetString("DATABASE_URL"),
		JWTSecret:                v.GetString("JWT_SECRET"),
		RedisURL:                 v.GetString("REDIS_URL"),
		RateLimitBackend:         strings.ToLower(v.GetString("RATE_LIMIT_BACKEND")),
		RateLimitFailMode:        strings.ToLower(v.GetString("RATE_LIMIT_FAIL_MODE")),
		CORSAllowedOrigins:       splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		KafkaBrokers:             splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:               v.GetString("KAFKA_TOPIC"),
		OTELExporterOTLPEndpoint: v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OTELServiceName:          v.GetString("OTEL_SERVICE_NAME"),
		OTELEnvironment:          v.GetString("OTEL_ENVIRONMENT"),
	}

	var err error
	if cfg.ShutdownTimeout, err = parseDuration(v, "SHUTDOWN_TIMEOUT"); err != nil {
		return nil, err
	}
	if cfg.JWTTTL, err = parseDuration(v, "JWT_TTL"); err != nil {
		return nil, err
	}
	if cfg.OTELMetricsExportInterval, err = parseDuration(v, "OTEL_METRICS_EXPORT_INTERVAL"); err != nil {
		return nil, err
	}
	if cfg.AuthRateLimitRPM, err = parseInt(v, "AUTH_RATE_LIMIT_RPM"); err != nil {
		return nil, err
	}
	if cfg.APIRateLimitRPM, err = parseInt(v, "API_RATE_LIMIT_RPM"); err != nil {
		return nil, err
	}
	if cfg.SeedPeopleCount, err = parseInt(v, "SEED_PEOPLE_COUNT"); err != nil {
		return nil, err
	}
	seed, err := parseInt(v, "SEED_RANDOM_SEED")
	if err != nil {
		return nil, err
	}
	cfg.SeedRandomSeed = uint64(seed)
	if cfg.SeedPeople, err = parseBool(v, "SEED_PEOPLE"); err != nil {
		return nil, err
	}
	if cfg.PrometheusEnabled, err = parseBool(v, "PROMETHEUS_ENABLED"); err != nil {
		return nil, err
	}
	if cfg.EnableOTelHTTP, err = parseBool(v, "OTEL_HTTP_ENABLED"); err != nil {
		return nil, err
	}
	if cfg.OTELMetricsEnabled, err = parseBool(v, "OTEL_METRICS_ENABLED"); err != nil {
		return nil, err
	}
	if cfg.OTELTracingEnabled, err = parseBool(v, "OTEL_TRACING_ENABLED"); err != nil {
		return nil, err
	}
	if cfg.OTELLogsEnabled, err = parseBool(v, "OTEL_LOGS_ENABLED"); err != nil {
		return nil, err
	}
	if cfg.OTELExporterOTLPInsecure, err = parseBool(v, "OTEL_EXPORTER_OTLP_INSECURE"); err != nil {
		return nil, err
	}
	if cfg.OTELTraceSampleRatio, err = parseFloat(v, "OTEL_TRACE_SAMPLE_RATIO"); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	verr := &ValidationError{}
	if c.JWTSecret == "" {
		verr.add("JWT_SECRET", "JWT_SECRET is required")
	} else if key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(c.JWTSecret)); err != nil {
		verr.add("JWT_SECRET", "JWT_SECRET must be base64 encoded")
	} else if len(key) < 32 {
		verr.add("JWT_SECRET", "JWT_SECRET must decode to at least 32 bytes")
	}
	if c.JWTTTL <= 0 {
		verr.add("JWT_TTL", "JWT_TTL must be positive")
	}
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		verr.add("DB_DRIVER", "DB_DRIVER %q is not supported", c.DBDriver)
	}
	if c.DatabaseURL == "" {
		verr.add("DATABASE_URL", "DATABASE_URL is required")
	}
	switch c.RateLimitBackend {
	case "local":
	case "redis":
		if c.RedisURL == "" {
			verr.add("REDIS_URL", "REDIS_URL is required when RATE_LIMIT_BACKEND=redis")
		}
	default:
		verr.add("RATE_LIMIT_BACKEND", "RATE_LIMIT_BACKEND %q is not supported", c.RateLimitBackend)
	}
	if c.RateLimitFailMode != "fail_open" && c.RateLimitFailMode != "fail_closed" {
		verr.add("RATE_LIMIT_FAIL_MODE", "RATE_LIMIT_FAIL_MODE %q is not supported", c.RateLimitFailMode)
	}
	if c.AuthRateLimitRPM <= 0 {
		verr.add("AUTH_RATE_LIMIT_RPM", "AUTH_RATE_LIMIT_RPM must be positive")
	}
	if c.APIRateLimitRPM <= 0 {
		verr.add("API_RATE_LIMIT_RPM", "API_RATE_LIMIT_RPM must be positive")
	}
	if c.SeedPeopleCount < 0 {
		verr.add("SEED_PEOPLE_COUNT", "SEED_PEOPLE_COUNT must not be negative")
	}
	if len(c.KafkaBrokers) > 0 && c.KafkaTopic == "" {
		verr.add("KAFKA_TOPIC", "KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}
	if c.OTELTraceSampleRatio < 0 || c.OTELTraceSampleRatio > 1 {
		verr.add("OTEL_TRACE_SAMPLE_RATIO", "OTEL_TRACE_SAMPLE_RATIO must be within [0,1]")
	}
	if len(verr.Problems) > 0 {
		return verr
	}
	return nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return 0, &ParseError{Key: key, Err: err}
	}
	return d, nil
}

func parseInt(v *viper.Viper, key string) (int, error) {
	var n int
	if _, err := fmt.Sscan(strings.TrimSpace(v.GetString(key)), &n); err != nil {
		return 0, &ParseError{Key: key, Err: err}
	}
	return n, nil
}

func parseBool(v *viper.Viper, key string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v.GetString(key))) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off", "":
		return false, nil
	default:
		return false, &ParseError{Key: key, Err: fmt.Errorf("invalid boolean %q", v.GetString(key))}
	}
}

func parseFloat(v *viper.Viper, key string) (float64, error) {
	var f float64
	if _, err := fmt.Sscan(strings.TrimSpace(v.GetString(key)), &f); err != nil {
		return 0, &ParseError{Key: key, Err: err}
	}
	return f, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
