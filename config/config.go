package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server ServerConfig
	Sheet  SheetConfig
	Orders OrdersConfig
	Redis  RedisConfig
	Kafka  KafkaConfig
	Observ ObservabilityConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type SheetConfig struct {
	APIURL string
	// RealDataProductID is the one product with a live soil sensor; every
	// other product gets a synthesized series derived from it.
	RealDataProductID string
	RowCacheTTLSec    int
}

type OrdersConfig struct {
	File        string
	PollSeconds int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type ObservabilityConfig struct {
	JaegerEndpoint string
}

func Load() *Config {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	rowCacheTTL, _ := strconv.Atoi(getEnv("ROWCACHE_TTL_SECONDS", "300"))
	pollSeconds, _ := strconv.Atoi(getEnv("ORDER_POLL_SECONDS", "60"))

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("ENV", "development"),
		},
		Sheet: SheetConfig{
			APIURL:            getEnv("SHEET_API_URL", ""),
			RealDataProductID: getEnv("REAL_DATA_PRODUCT_ID", "CA"),
			RowCacheTTLSec:    rowCacheTTL,
		},
		Orders: OrdersConfig{
			File:        getEnv("ORDERS_FILE", "data/purechain_orders.json"),
			PollSeconds: pollSeconds,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Kafka: KafkaConfig{
			Brokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			Topic:   getEnv("KAFKA_TOPIC_STOREFRONT", "storefront-events"),
		},
		Observ: ObservabilityConfig{
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
		},
	}

	log.Printf("Config loaded: env=%s, port=%s", cfg.Server.Env, cfg.Server.Port)
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
