package config

import (
	"os"
	"strings"
	"time"
)

// Config captures everything main needs to wire the service.
type Config struct {
	Addr        string
	DatabaseURL string
	Redis       RedisConfig
	Kafka       KafkaConfig
}

// RedisConfig holds connection settings for the rate-limit window store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig holds settings for the optional audit event stream.
// An empty Brokers list disables the Kafka publisher.
type KafkaConfig struct {
	Brokers    []string
	AuditTopic string
}

// FromEnv builds the config from environment variables so main stays lean.
func FromEnv() Config {
	addr := os.Getenv("SPOREMAP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	auditTopic := os.Getenv("SPOREMAP_AUDIT_TOPIC")
	if auditTopic == "" {
		auditTopic = "sporemap.audit"
	}

	var brokers []string
	if raw := os.Getenv("SPOREMAP_KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	return Config{
		Addr:        addr,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:    brokers,
			AuditTopic: auditTopic,
		},
	}
}
