// Package cmd wires up the CLI flags and runs the interactive console.
package cmd

import (
	"context"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"acdbot/config"
	"acdbot/internal/metrics"
	"acdbot/internal/notify"
	"acdbot/internal/probe"
	"acdbot/internal/registry"
	"acdbot/internal/transport"
	"acdbot/shell"
	"acdbot/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X acdbot/cmd.version=2.0.0"
var version = "1.0.0" //nolint:gochecknoglobals

// Execute parses args and either handles a one-shot admin flag or
// drops into the interactive shell.
func Execute(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("acdbot", flag.ContinueOnError)

	var (
		configPath  string
		showConfig  bool
		setToken    string
		setChatID   string
		verbosity   int
		showVersion bool
		showHelp    bool
	)

	// ── administration ───────────────────────────────────────────
	fs.StringVar(&configPath, "config-file", config.DefaultConfigFile, "Configuration file path")
	fs.BoolVar(&showConfig, "config", false, "Show current configuration and exit")
	fs.StringVar(&setToken, "set-token", "", "Set Telegram bot token and exit")
	fs.StringVar(&setChatID, "set-chatid", "", "Set Telegram chat ID and exit")

	// ── output ───────────────────────────────────────────────────
	fs.CountVarP(&verbosity, "verbose", "v", "Increase verbosity (repeatable)")

	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show this help")

	fs.Usage = func() { printUsage(fs) }

	// ── parse ────────────────────────────────────────────────────
	if err := fs.Parse(args); err != nil {
		return err
	}
	if showHelp {
		printUsage(fs)
		return nil
	}
	if showVersion {
		fmt.Printf("acdbot %s\n", version)
		return nil
	}

	store, err := config.Open(configPath)
	if err != nil {
		return err
	}

	// ── one-shot admin flags ─────────────────────────────────────
	if done, err := runAdmin(store, setToken, setChatID, showConfig); done || err != nil {
		return err
	}

	// ── build components ─────────────────────────────────────────
	logger := util.NewLogger(verbosity)
	if err := logger.OpenActivityFile(store.Snapshot().LogFile); err != nil {
		logger.Error("activity log unavailable: %v", err)
	}
	defer logger.Close() //nolint:errcheck

	m := metrics.New()
	dialer := &transport.TCPDialer{Timeout: config.DefaultConnectTimeout}
	prober := &probe.ICMPProbe{
		Count:   config.DefaultProbeCount,
		Timeout: config.DefaultProbeTimeout,
	}

	async := notify.NewAsync(notify.NewTelegram(store.Credentials),
		config.DefaultNotifyQueue, logger, m)
	defer async.Close()

	reg := registry.New(store, dialer, prober, logger, async, m)

	// ── run ──────────────────────────────────────────────────────
	logger.Activity("Bot started")

	sh := shell.New(reg, store, m, prober, logger)
	sh.Version = version
	runErr := sh.Run(ctx)

	// Active sessions get their cleanup and final notifications
	// before the process exits, bounded by the grace period.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.DefaultShutdownGrace)
	defer cancel()
	reg.Shutdown(shutdownCtx)

	logger.Activity("Bot stopped")
	return runErr
}

// ── helpers ──────────────────────────────────────────────────────────

// runAdmin handles the non-interactive flags.  Returns done=true when
// any of them fired and the shell should not start.
func runAdmin(store *config.Store, setToken, setChatID string, showConfig bool) (bool, error) {
	done := false

	if setToken != "" {
		if err := store.Set("telegram_token", setToken); err != nil {
			return true, err
		}
		fmt.Println("Configuration updated: telegram_token")
		done = true
	}
	if setChatID != "" {
		if err := store.Set("telegram_chat_id", setChatID); err != nil {
			return true, err
		}
		fmt.Println("Configuration updated: telegram_chat_id")
		done = true
	}
	if showConfig {
		for _, key := range config.Keys {
			value, err := store.Get(key)
			if err != nil {
				continue
			}
			fmt.Printf("%s: %s\n", key, value)
		}
		done = true
	}
	return done, nil
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, `acdbot – Network Traffic Generator and Monitor v%s

An interactive console for rate-limited TCP traffic generation and
periodic host/port monitoring, with Telegram notifications.

Usage:
  acdbot [options]                 Start the interactive shell
  acdbot --config                  Show the saved configuration
  acdbot --set-token <token>       Save the Telegram bot token
  acdbot --set-chatid <id>         Save the Telegram chat ID

Options:
`, version)
	fs.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Shell commands:
  generate <IP> [port] [duration] [pps]    Start traffic generation
  monitor <IP>                             Start periodic monitoring
  ping <IP>                                One-shot reachability probe
  setconfig <key> <value>                  Edit configuration
  help                                     Full command list
`)
}
