package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Storage drivers
const (
	StorageBadger = "badger"
	StorageRedis  = "redis"
)

type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Redis    RedisConfig
	Database DatabaseConfig
	Kafka    KafkaConfig
	Observ   ObservabilityConfig
}

type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

type StorageConfig struct {
	Driver   string
	Path     string
	Key      string
	InMemory bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// DatabaseConfig points at an optional postgres catalog. An empty URL uses
// the catalog bundled with the binary.
type DatabaseConfig struct {
	URL string
}

type KafkaConfig struct {
	Enabled       bool
	Brokers       []string
	TopicCart     string
	ConsumerGroup string
}

type ObservabilityConfig struct {
	JaegerEndpoint string
}

// Load reads configuration from the environment and an optional .env file
func Load() *Config {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	inMemory, _ := strconv.ParseBool(getEnv("STORAGE_IN_MEMORY", "false"))
	kafkaEnabled, _ := strconv.ParseBool(getEnv("KAFKA_ENABLED", "false"))

	return &Config{
		Server: ServerConfig{
			Port:     getEnv("PORT", "8080"),
			Env:      getEnv("ENV", "development"),
			LogLevel: getEnv("LOG_LEVEL", ""),
		},
		Storage: StorageConfig{
			Driver:   strings.ToLower(getEnv("STORAGE_DRIVER", StorageBadger)),
			Path:     getEnv("STORAGE_PATH", defaultStoragePath()),
			Key:      getEnv("STORAGE_KEY", "cart"),
			InMemory: inMemory,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Kafka: KafkaConfig{
			Enabled:       kafkaEnabled,
			Brokers:       strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			TopicCart:     getEnv("KAFKA_TOPIC_CART_EVENTS", "cart-events"),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "storefront-activity"),
		},
		Observ: ObservabilityConfig{
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", ""),
		},
	}
}

// defaultStoragePath keeps the cart under the user's config directory
func defaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", ".storefront")
	}
	return filepath.Join(dir, "storefront", "cart")
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
