package config

// loader.go - configuration loading from file and environment.
//
// Precedence order (highest wins):
//   1. CLI flags  (handled by cmd/root.go)
//   2. Environment variables  (this file)
//   3. Config file  (YAML)
//   4. Defaults   (defaults.go)

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML config file into a Config starting from stock
// defaults, so keys missing from the file keep their default values.
// A missing file is not an error; the defaults are returned as-is.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveFile writes cfg to path as YAML with owner-only permissions;
// the file carries the Telegram token.
func SaveFile(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// ── Environment variable mapping ─────────────────────────────────────
//
// Every supported env var uses the ACDBOT_ prefix.

// LoadFromEnv overlays environment variables onto cfg.  Only non-empty
// env vars override the existing value.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("ACDBOT_TELEGRAM_TOKEN"); v != "" {
		cfg.TelegramToken = v
	}
	if v := os.Getenv("ACDBOT_TELEGRAM_CHAT_ID"); v != "" {
		cfg.TelegramChatID = v
	}
	if v := envInt("ACDBOT_MONITORING_INTERVAL"); v > 0 {
		cfg.MonitoringInterval = v
	}
	if v := envInt("ACDBOT_TRAFFIC_DURATION"); v > 0 {
		cfg.TrafficDuration = v
	}
	if v := envInt("ACDBOT_MAX_PACKETS_PER_SECOND"); v > 0 {
		cfg.MaxPacketsPerSec = v
	}
	if v := os.Getenv("ACDBOT_DEFAULT_PORTS"); v != "" {
		if ports, err := ParsePortList(v); err == nil {
			cfg.DefaultPorts = ports
		}
	}
	if v := os.Getenv("ACDBOT_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
}

// ── helpers ──────────────────────────────────────────────────────────

func envInt(key string) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
