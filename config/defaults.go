package config

import "time"

// ── Default values ───────────────────────────────────────────────────
//
// All tuneable defaults live here so they are easy to audit and reuse
// across the config file, environment variables, and CLI flags.

const (
	// DefaultConfigFile is the config file name, resolved relative to
	// the working directory unless overridden with --config-file.
	DefaultConfigFile = "acdbot.yaml"

	// DefaultMonitoringInterval is the pause between monitor cycles.
	DefaultMonitoringInterval = 60 // seconds

	// DefaultTrafficDuration bounds a traffic session when the
	// generate command gives no explicit duration.
	DefaultTrafficDuration = 30 // seconds

	// DefaultMaxPacketsPerSec caps the traffic generation rate.
	DefaultMaxPacketsPerSec = 100

	// DefaultLogFile is the append-only activity log.
	DefaultLogFile = "acdbot_activity.log"

	// DefaultConnectTimeout bounds each outbound connection attempt,
	// both for traffic units and per-port monitor probes.
	DefaultConnectTimeout = 1 * time.Second

	// DefaultProbeTimeout bounds one reachability probe.
	DefaultProbeTimeout = 3 * time.Second

	// DefaultProbeCount is the number of echo requests per probe.
	DefaultProbeCount = 3

	// DefaultPenalty is the fixed pause after a failed unit of work.
	DefaultPenalty = 1 * time.Second

	// DefaultMaxConcurrentChecks limits simultaneous port-check
	// goroutines inside one monitor sweep.
	DefaultMaxConcurrentChecks = 16

	// DefaultNotifyQueue is the async notification queue depth.
	DefaultNotifyQueue = 32

	// DefaultNotifyTimeout bounds one notification delivery.
	DefaultNotifyTimeout = 10 * time.Second

	// DefaultShutdownGrace is how long shutdown waits for session
	// workers to finish their cleanup and final notifications.
	DefaultShutdownGrace = 5 * time.Second
)

// defaultPorts returns a fresh copy of the stock port set.
func defaultPorts() []int {
	return []int{80, 443, 22, 3389}
}

// Default returns a Config populated with stock values.
func Default() Config {
	return Config{
		MonitoringInterval: DefaultMonitoringInterval,
		TrafficDuration:    DefaultTrafficDuration,
		MaxPacketsPerSec:   DefaultMaxPacketsPerSec,
		DefaultPorts:       defaultPorts(),
		LogFile:            DefaultLogFile,
	}
}
