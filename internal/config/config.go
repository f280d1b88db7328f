package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Perfiles de API soportados
const (
	ProfileV1 = "v1"
	ProfileV2 = "v2"
)

// Drivers de almacenamiento soportados
const (
	DriverFile   = "file"
	DriverMongo  = "mongo"
	DriverRedis  = "redis"
	DriverBadger = "badger"
)

type Config struct {
	Port            string
	Profile         string
	StorageDriver   string
	DataDir         string
	MongoURI        string
	MongoDB         string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	BadgerDir       string
	LogLevel        string
	LogFormat       string
	GinMode         string
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

func LoadConfig() *Config {
	// Solo cargar .env en desarrollo local
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Warn().Err(err).Msg("⚠️ Error loading .env file")
		} else {
			log.Info().Msg("✅ .env file loaded successfully")
		}
	} else {
		log.Info().Msg("🌐 Using system environment variables")
	}

	return &Config{
		Port:            getEnv("PORT", "8080"),
		Profile:         getEnv("API_PROFILE", ProfileV2),
		StorageDriver:   getEnv("STORAGE_DRIVER", DriverFile),
		DataDir:         getEnv("DATA_DIR", "data"),
		MongoURI:        getEnv("MONGO_URI", ""),
		MongoDB:         getEnv("MONGO_DB", "productCatalog"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		BadgerDir:       getEnv("BADGER_DIR", "data/badger"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "console"),
		GinMode:         getEnv("GIN_MODE", "release"),
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "*")),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// Validate comprueba que los valores enumerados sean conocidos
func (c *Config) Validate() error {
	switch c.Profile {
	case ProfileV1, ProfileV2:
	default:
		return fmt.Errorf("config: unknown API_PROFILE %q", c.Profile)
	}

	switch c.StorageDriver {
	case DriverFile, DriverRedis, DriverBadger:
	case DriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("config: MONGO_URI is required for the mongo driver")
		}
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.Port == "" {
		return fmt.Errorf("config: PORT must not be empty")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Msg("invalid integer, using default")
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Msg("invalid duration, using default")
		return fallback
	}
	return d
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
