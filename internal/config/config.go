package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AuthBaseURL string
	AuthAPIKey  string
	AuthTimeout time.Duration

	PostgresDSN    string
	DBMaxOpenConns int
	DBMaxIdleConns int
	DBConnMaxLife  time.Duration

	NATSURL         string
	NATSConnTimeout time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	ListCacheTTL  time.Duration

	ClickHouseDSN      string
	ClickHouseUsername string
	ClickHousePassword string
	ClickHouseDatabase string

	ResetCooldown  time.Duration
	RequestTimeout time.Duration

	OtelCollectorURL string
}

func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		AuthBaseURL: getEnvString("AUTH_BASE_URL", "http://localhost:9999"),
		AuthAPIKey:  getEnvString("AUTH_API_KEY", ""),
		AuthTimeout: getEnvDuration("AUTH_TIMEOUT", 10*time.Second),

		PostgresDSN:    getEnvString("DATABASE_URL", "postgres://localhost:5432/jobtrackr"),
		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLife:  getEnvDuration("DB_CONN_MAX_LIFE", time.Hour),

		NATSURL:         getEnvString("NATS_URL", "nats://localhost:4222"),
		NATSConnTimeout: getEnvDuration("NATS_CONN_TIMEOUT", 10*time.Second),

		RedisAddr:     getEnvString("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnvString("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		ListCacheTTL:  getEnvDuration("LIST_CACHE_TTL", 5*time.Minute),

		ClickHouseDSN:      getEnvString("CLICKHOUSE_DSN", "localhost:9000"),
		ClickHouseUsername: getEnvString("CLICKHOUSE_USERNAME", "default"),
		ClickHousePassword: getEnvString("CLICKHOUSE_PASSWORD", ""),
		ClickHouseDatabase: getEnvString("CLICKHOUSE_DATABASE", "jobtrackr"),

		ResetCooldown:  getEnvDuration("RESET_COOLDOWN", 60*time.Second),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),

		OtelCollectorURL: getEnvString("OTEL_COLLECTOR_URL", ""),
	}

	return config, nil
}

func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
