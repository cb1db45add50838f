package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Artifacts ArtifactsConfig
	Redis     RedisConfig
	Cache     CacheConfig
	MQTT      MQTTConfig
	JWT       JWTConfig
	Log       LogConfig
	History   HistoryConfig
}

type ServerConfig struct {
	Port        string
	Mode        string
	GRPCPort    string
	CORSOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	TimeZone string
}

// ArtifactsConfig locates the four frozen artifacts. Per-file paths
// override Dir.
type ArtifactsConfig struct {
	Dir            string
	ImputerPath    string
	EncoderPath    string
	ScalerPath     string
	ClassifierPath string
}

// RedisConfig enables the shared prediction cache when Addr is set.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type CacheConfig struct {
	TTL     time.Duration
	MaxSize int
}

// MQTTConfig enables submission events when Broker is set.
type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
	QoS      int
	Timeout  time.Duration
}

type JWTConfig struct {
	Secret         string
	AccessTokenTTL time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type HistoryConfig struct {
	PerPage int
}

// Load reads the configuration from the environment, after loading a .env
// file from the working directory if one exists.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:        getEnv("HTTP_PORT", "8080"),
			Mode:        getEnv("GIN_MODE", "release"),
			GRPCPort:    getEnv("GRPC_PORT", "50051"),
			CORSOrigins: getEnvAsList("CORS_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "hdp"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			TimeZone: getEnv("DB_TIMEZONE", "UTC"),
		},
		Artifacts: ArtifactsConfig{
			Dir:            getEnv("ARTIFACT_DIR", "artifacts"),
			ImputerPath:    getEnv("IMPUTER_PATH", ""),
			EncoderPath:    getEnv("ENCODER_PATH", ""),
			ScalerPath:     getEnv("SCALER_PATH", ""),
			ClassifierPath: getEnv("CLASSIFIER_PATH", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			TTL:      getEnvAsDuration("REDIS_TTL", 24*time.Hour),
		},
		Cache: CacheConfig{
			TTL:     getEnvAsDuration("CACHE_TTL", 10*time.Minute),
			MaxSize: getEnvAsInt("CACHE_MAX_SIZE", 10000),
		},
		MQTT: MQTTConfig{
			Broker:   getEnv("MQTT_BROKER", ""),
			ClientID: getEnv("MQTT_CLIENT_ID", "hdp_service"),
			Username: getEnv("MQTT_USERNAME", ""),
			Password: getEnv("MQTT_PASSWORD", ""),
			QoS:      getEnvAsInt("MQTT_QOS", 1),
			Timeout:  getEnvAsDuration("MQTT_TIMEOUT", 5*time.Second),
		},
		JWT: JWTConfig{
			Secret:         getEnv("JWT_SECRET", ""),
			AccessTokenTTL: getEnvAsDuration("JWT_ACCESS_TTL", 15*time.Minute),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		History: HistoryConfig{
			PerPage: getEnvAsInt("HDP_PATIENTS_PER_PAGE", 20),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
