// Package config loads server settings from the environment, with an
// optional TOML file as a base layer. Environment variables always win.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	DatabaseURL string // RELAY_DATABASE_URL (required)
	HTTPAddr    string // RELAY_HTTP_ADDR (default ":8080")

	Broker       string   // RELAY_BROKER: "kafka" (default) or "nats"
	KafkaBrokers []string // RELAY_KAFKA_BROKERS (comma-separated, default "localhost:9092")
	KafkaGroup   string   // RELAY_KAFKA_GROUP (default "relay-consumer")
	NATSURL      string   // RELAY_NATS_URL (default "nats://localhost:4222")

	RedisURL string // RELAY_REDIS_URL (default "redis://localhost:6379/0")

	ConsumeWait time.Duration // RELAY_CONSUME_WAIT (default 5s)

	// Export settings
	ExportInterval   time.Duration // RELAY_EXPORT_INTERVAL (default 5m)
	ExportS3Bucket   string        // RELAY_EXPORT_S3_BUCKET (enables export when set)
	ExportS3Key      string        // RELAY_EXPORT_S3_KEY (default "relay/events.jsonl")
	ExportS3Region   string        // RELAY_EXPORT_S3_REGION (default "us-east-1")
	ExportS3Endpoint string        // RELAY_EXPORT_S3_ENDPOINT (custom endpoint for MinIO)
}

// fileConfig is the TOML shape. Durations are strings ("5s", "3m") so the
// file stays human-editable.
type fileConfig struct {
	DatabaseURL      string `toml:"database_url"`
	HTTPAddr         string `toml:"http_addr"`
	Broker           string `toml:"broker"`
	KafkaBrokers     string `toml:"kafka_brokers"`
	KafkaGroup       string `toml:"kafka_group"`
	NATSURL          string `toml:"nats_url"`
	RedisURL         string `toml:"redis_url"`
	ConsumeWait      string `toml:"consume_wait"`
	ExportInterval   string `toml:"export_interval"`
	ExportS3Bucket   string `toml:"export_s3_bucket"`
	ExportS3Key      string `toml:"export_s3_key"`
	ExportS3Region   string `toml:"export_s3_region"`
	ExportS3Endpoint string `toml:"export_s3_endpoint"`
}

// Load builds the configuration. When RELAY_CONFIG names a TOML file, its
// values seed the defaults; RELAY_* environment variables override them.
func Load() (*Config, error) {
	var file fileConfig
	if path := os.Getenv("RELAY_CONFIG"); path != "" {
		if _, err := toml.DecodeFile(path, &file); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	c := &Config{
		DatabaseURL:      firstOf(os.Getenv("RELAY_DATABASE_URL"), file.DatabaseURL),
		HTTPAddr:         firstOf(os.Getenv("RELAY_HTTP_ADDR"), file.HTTPAddr, ":8080"),
		Broker:           firstOf(os.Getenv("RELAY_BROKER"), file.Broker, "kafka"),
		KafkaGroup:       firstOf(os.Getenv("RELAY_KAFKA_GROUP"), file.KafkaGroup, "relay-consumer"),
		NATSURL:          firstOf(os.Getenv("RELAY_NATS_URL"), file.NATSURL, "nats://localhost:4222"),
		RedisURL:         firstOf(os.Getenv("RELAY_REDIS_URL"), file.RedisURL, "redis://localhost:6379/0"),
		ExportS3Bucket:   firstOf(os.Getenv("RELAY_EXPORT_S3_BUCKET"), file.ExportS3Bucket),
		ExportS3Key:      firstOf(os.Getenv("RELAY_EXPORT_S3_KEY"), file.ExportS3Key, "relay/events.jsonl"),
		ExportS3Region:   firstOf(os.Getenv("RELAY_EXPORT_S3_REGION"), file.ExportS3Region, "us-east-1"),
		ExportS3Endpoint: firstOf(os.Getenv("RELAY_EXPORT_S3_ENDPOINT"), file.ExportS3Endpoint),
	}

	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("RELAY_DATABASE_URL is required")
	}
	if c.Broker != "kafka" && c.Broker != "nats" {
		return nil, fmt.Errorf("RELAY_BROKER must be \"kafka\" or \"nats\", got %q", c.Broker)
	}

	brokerList := firstOf(os.Getenv("RELAY_KAFKA_BROKERS"), file.KafkaBrokers, "localhost:9092")
	for _, b := range strings.Split(brokerList, ",") {
		if b = strings.TrimSpace(b); b != "" {
			c.KafkaBrokers = append(c.KafkaBrokers, b)
		}
	}

	var err error
	c.ConsumeWait, err = durationOf("RELAY_CONSUME_WAIT", file.ConsumeWait, 5*time.Second)
	if err != nil {
		return nil, err
	}
	c.ExportInterval, err = durationOf("RELAY_EXPORT_INTERVAL", file.ExportInterval, 5*time.Minute)
	if err != nil {
		return nil, err
	}

	return c, nil
}

// firstOf returns the first non-empty value.
func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func durationOf(envKey, fileValue string, fallback time.Duration) (time.Duration, error) {
	raw := firstOf(os.Getenv(envKey), fileValue)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", envKey, err)
	}
	return d, nil
}
