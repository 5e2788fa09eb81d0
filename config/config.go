// Package config defines the runtime configuration for acdbot and
// provides the YAML-file store behind the setconfig command.
package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Config holds every tuneable consulted by sessions and collaborators.
// Sessions take a snapshot at start time; edits made through the store
// apply only to sessions started afterwards.
type Config struct {
	// ── Notification ─────────────────────────────────────────────────
	TelegramToken  string `yaml:"telegram_token"`
	TelegramChatID string `yaml:"telegram_chat_id"`

	// ── Sessions ─────────────────────────────────────────────────────
	MonitoringInterval int   `yaml:"monitoring_interval"`         // seconds between monitor cycles
	TrafficDuration    int   `yaml:"traffic_generation_duration"` // seconds per traffic session
	MaxPacketsPerSec   int   `yaml:"max_packets_per_second"`
	DefaultPorts       []int `yaml:"default_ports"`

	// ── Logging ──────────────────────────────────────────────────────
	LogFile string `yaml:"log_file"`
}

// Keys lists every settable configuration key in display order.
var Keys = []string{
	"telegram_token",
	"telegram_chat_id",
	"monitoring_interval",
	"traffic_generation_duration",
	"max_packets_per_second",
	"default_ports",
	"log_file",
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.MonitoringInterval < 1 {
		return fmt.Errorf("monitoring_interval must be at least 1 second")
	}
	if c.TrafficDuration < 1 {
		return fmt.Errorf("traffic_generation_duration must be at least 1 second")
	}
	if c.MaxPacketsPerSec < 1 {
		return fmt.Errorf("max_packets_per_second must be at least 1")
	}
	if len(c.DefaultPorts) == 0 {
		return fmt.Errorf("default_ports must not be empty")
	}
	for _, p := range c.DefaultPorts {
		if p < 1 || p > 65535 {
			return fmt.Errorf("default port %d out of range 1-65535", p)
		}
	}
	if c.LogFile == "" {
		return fmt.Errorf("log_file is required")
	}
	return nil
}

// Set assigns a string value to the named key, converting it to the
// key's type.  It does not persist; the store wraps this with a save.
func (c *Config) Set(key, value string) error {
	switch key {
	case "telegram_token":
		c.TelegramToken = value
	case "telegram_chat_id":
		c.TelegramChatID = value
	case "monitoring_interval":
		n, err := parsePositiveInt(key, value)
		if err != nil {
			return err
		}
		c.MonitoringInterval = n
	case "traffic_generation_duration":
		n, err := parsePositiveInt(key, value)
		if err != nil {
			return err
		}
		c.TrafficDuration = n
	case "max_packets_per_second":
		n, err := parsePositiveInt(key, value)
		if err != nil {
			return err
		}
		c.MaxPacketsPerSec = n
	case "default_ports":
		ports, err := ParsePortList(value)
		if err != nil {
			return err
		}
		c.DefaultPorts = ports
	case "log_file":
		if value == "" {
			return fmt.Errorf("log_file must not be empty")
		}
		c.LogFile = value
	default:
		return fmt.Errorf("invalid configuration key: %s", key)
	}
	return nil
}

// Get returns the display value for the named key.  Secrets are
// returned redacted.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "telegram_token":
		return Redact(c.TelegramToken), nil
	case "telegram_chat_id":
		return Redact(c.TelegramChatID), nil
	case "monitoring_interval":
		return strconv.Itoa(c.MonitoringInterval), nil
	case "traffic_generation_duration":
		return strconv.Itoa(c.TrafficDuration), nil
	case "max_packets_per_second":
		return strconv.Itoa(c.MaxPacketsPerSec), nil
	case "default_ports":
		return FormatPortList(c.DefaultPorts), nil
	case "log_file":
		return c.LogFile, nil
	default:
		return "", fmt.Errorf("invalid configuration key: %s", key)
	}
}

// ── Port-list helpers ────────────────────────────────────────────────

// ParsePortList parses a comma-separated port list such as "80,443,22".
func ParsePortList(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	ports := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		port, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid port %q", part)
		}
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("port %d out of range 1-65535", port)
		}
		ports = append(ports, port)
	}
	return ports, nil
}

// FormatPortList renders ports as a comma-separated list.
func FormatPortList(ports []int) string {
	strs := make([]string, len(ports))
	for i, p := range ports {
		strs[i] = strconv.Itoa(p)
	}
	return strings.Join(strs, ",")
}

// Redact partially hides a sensitive value, keeping the first and last
// three characters.
func Redact(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 6 {
		return "..."
	}
	return s[:3] + "..." + s[len(s)-3:]
}

// ── helpers ──────────────────────────────────────────────────────────

func parsePositiveInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q is not an integer", key, value)
	}
	if n < 1 {
		return 0, fmt.Errorf("invalid value for %s: must be at least 1", key)
	}
	return n, nil
}
