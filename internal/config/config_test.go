package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("RELAY_DATABASE_URL", "postgres://localhost/relay")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q", c.HTTPAddr)
	}
	if c.Broker != "kafka" {
		t.Errorf("Broker = %q", c.Broker)
	}
	if len(c.KafkaBrokers) != 1 || c.KafkaBrokers[0] != "localhost:9092" {
		t.Errorf("KafkaBrokers = %v", c.KafkaBrokers)
	}
	if c.KafkaGroup != "relay-consumer" {
		t.Errorf("KafkaGroup = %q", c.KafkaGroup)
	}
	if c.ConsumeWait != 5*time.Second {
		t.Errorf("ConsumeWait = %v", c.ConsumeWait)
	}
	if c.ExportInterval != 5*time.Minute {
		t.Errorf("ExportInterval = %v", c.ExportInterval)
	}
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("RELAY_DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without RELAY_DATABASE_URL")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("RELAY_DATABASE_URL", "postgres://localhost/relay")
	t.Setenv("RELAY_BROKER", "nats")
	t.Setenv("RELAY_KAFKA_BROKERS", "b1:9092, b2:9092")
	t.Setenv("RELAY_CONSUME_WAIT", "750ms")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Broker != "nats" {
		t.Errorf("Broker = %q", c.Broker)
	}
	if len(c.KafkaBrokers) != 2 || c.KafkaBrokers[1] != "b2:9092" {
		t.Errorf("KafkaBrokers = %v", c.KafkaBrokers)
	}
	if c.ConsumeWait != 750*time.Millisecond {
		t.Errorf("ConsumeWait = %v", c.ConsumeWait)
	}
}

func TestLoadInvalidBroker(t *testing.T) {
	t.Setenv("RELAY_DATABASE_URL", "postgres://localhost/relay")
	t.Setenv("RELAY_BROKER", "rabbitmq")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown broker")
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("RELAY_DATABASE_URL", "postgres://localhost/relay")
	t.Setenv("RELAY_CONSUME_WAIT", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for bad duration")
	}
}

func TestLoadTOMLFileWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relay.toml")
	content := `
database_url = "postgres://filehost/relay"
http_addr = ":9999"
consume_wait = "2s"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv("RELAY_CONFIG", path)
	t.Setenv("RELAY_HTTP_ADDR", ":7777")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.DatabaseURL != "postgres://filehost/relay" {
		t.Errorf("DatabaseURL = %q", c.DatabaseURL)
	}
	// Env beats file.
	if c.HTTPAddr != ":7777" {
		t.Errorf("HTTPAddr = %q", c.HTTPAddr)
	}
	if c.ConsumeWait != 2*time.Second {
		t.Errorf("ConsumeWait = %v", c.ConsumeWait)
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	t.Setenv("RELAY_DATABASE_URL", "postgres://localhost/relay")
	t.Setenv("RELAY_CONFIG", "/does/not/exist.toml")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
