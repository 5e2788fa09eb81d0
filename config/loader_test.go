package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFile_Missing(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.MonitoringInterval != DefaultMonitoringInterval {
		t.Errorf("interval = %d, want default %d", cfg.MonitoringInterval, DefaultMonitoringInterval)
	}
}

func TestLoadFile_PartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acdbot.yaml")
	data := "monitoring_interval: 5\ntelegram_token: tok\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MonitoringInterval != 5 {
		t.Errorf("interval = %d, want 5", cfg.MonitoringInterval)
	}
	if cfg.TelegramToken != "tok" {
		t.Errorf("token = %q", cfg.TelegramToken)
	}
	// Keys absent from the file keep their defaults.
	if cfg.TrafficDuration != DefaultTrafficDuration {
		t.Errorf("duration = %d, want default %d", cfg.TrafficDuration, DefaultTrafficDuration)
	}
	if len(cfg.DefaultPorts) == 0 {
		t.Error("default ports lost")
	}
}

func TestLoadFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acdbot.yaml")
	if err := os.WriteFile(path, []byte("{not yaml::"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSaveFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acdbot.yaml")
	cfg := Default()
	cfg.TelegramToken = "tok"
	cfg.DefaultPorts = []int{8080, 9090}

	if err := SaveFile(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.TelegramToken != "tok" {
		t.Errorf("token = %q", got.TelegramToken)
	}
	if len(got.DefaultPorts) != 2 || got.DefaultPorts[0] != 8080 {
		t.Errorf("ports = %v", got.DefaultPorts)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("config file mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ACDBOT_TELEGRAM_TOKEN", "envtok")
	t.Setenv("ACDBOT_MONITORING_INTERVAL", "7")
	t.Setenv("ACDBOT_DEFAULT_PORTS", "8000,8001")
	t.Setenv("ACDBOT_MAX_PACKETS_PER_SECOND", "bogus") // ignored

	cfg := Default()
	LoadFromEnv(&cfg)

	if cfg.TelegramToken != "envtok" {
		t.Errorf("token = %q", cfg.TelegramToken)
	}
	if cfg.MonitoringInterval != 7 {
		t.Errorf("interval = %d", cfg.MonitoringInterval)
	}
	if len(cfg.DefaultPorts) != 2 || cfg.DefaultPorts[0] != 8000 {
		t.Errorf("ports = %v", cfg.DefaultPorts)
	}
	if cfg.MaxPacketsPerSec != DefaultMaxPacketsPerSec {
		t.Errorf("bogus env int should be ignored, got %d", cfg.MaxPacketsPerSec)
	}
}

// ── Store ────────────────────────────────────────────────────────────

func TestStore_SetPersistsAndSnapshots(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acdbot.yaml")
	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}

	before := store.Snapshot()

	if err := store.Set("monitoring_interval", "9"); err != nil {
		t.Fatal(err)
	}
	after := store.Snapshot()
	if after.MonitoringInterval != 9 {
		t.Errorf("interval = %d, want 9", after.MonitoringInterval)
	}
	// Earlier snapshots are unaffected: session configs are frozen.
	if before.MonitoringInterval != DefaultMonitoringInterval {
		t.Errorf("old snapshot mutated: %d", before.MonitoringInterval)
	}

	// The change survives a reopen.
	store2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := store2.Snapshot().MonitoringInterval; got != 9 {
		t.Errorf("reloaded interval = %d, want 9", got)
	}
}

func TestStore_SetInvalidLeavesStateUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acdbot.yaml")
	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Set("default_ports", "80,badport"); err == nil {
		t.Fatal("expected error")
	}
	if got := store.Snapshot().DefaultPorts; len(got) != len(defaultPorts()) {
		t.Errorf("ports changed after failed set: %v", got)
	}

	if err := store.Set("no_such_key", "1"); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestStore_SnapshotIsolation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acdbot.yaml")
	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}

	snap := store.Snapshot()
	snap.DefaultPorts[0] = 1 // must not leak into the store

	if store.Snapshot().DefaultPorts[0] == 1 {
		t.Error("snapshot shares port slice with store")
	}
}

func TestStore_Credentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acdbot.yaml")
	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Set("telegram_token", "tok"); err != nil {
		t.Fatal(err)
	}
	if err := store.Set("telegram_chat_id", "42"); err != nil {
		t.Fatal(err)
	}

	token, chat := store.Credentials()
	if token != "tok" || chat != "42" {
		t.Errorf("credentials = (%q, %q)", token, chat)
	}
}
