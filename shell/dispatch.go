package shell

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"acdbot/config"
	"acdbot/util"
)

// Execute runs one command line and returns the text to print plus
// whether the shell should exit.  Every non-empty line is recorded in
// history before dispatch, successful or not.
func (s *Shell) Execute(ctx context.Context, line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}
	s.history = append(s.history, line)
	s.logger.Debug("command: %s", line)

	parts := strings.Fields(line)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help":
		return s.helpText(), false

	case "exit":
		return "Exiting...", true

	case "clear":
		return "\033[2J\033[H", false

	case "ping":
		if len(args) != 1 {
			return "Usage: ping <IP>", false
		}
		return s.ping(ctx, args[0]), false

	case "generate":
		return s.generate(args), false

	case "stop":
		return s.registry.StopTraffic(), false

	case "monitor":
		if len(args) != 1 {
			return "Usage: monitor <IP>", false
		}
		result, err := s.registry.StartMonitor(args[0])
		if err != nil {
			return err.Error(), false
		}
		return result, false

	case "stopmonitor":
		return s.registry.StopMonitor(), false

	case "config":
		return s.showConfig(), false

	case "setconfig":
		if len(args) < 2 {
			return "Usage: setconfig <key> <value>", false
		}
		return s.setConfig(args[0], strings.Join(args[1:], " ")), false

	case "history":
		return s.showHistory(), false

	case "status":
		return s.showStatus(), false

	case "stats":
		return s.metrics.JSON(), false

	default:
		return fmt.Sprintf("Unknown command: %s. Type 'help' for available commands.", cmd), false
	}
}

// ── command implementations ──────────────────────────────────────────

func (s *Shell) ping(ctx context.Context, addr string) string {
	if err := util.ValidateAddress(addr); err != nil {
		return fmt.Sprintf("Invalid IP address: %s", addr)
	}
	summary, err := s.pinger.Ping(ctx, addr)
	if err != nil {
		return fmt.Sprintf("Error pinging %s: %v", addr, err)
	}
	return summary
}

func (s *Shell) generate(args []string) string {
	if len(args) < 1 || len(args) > 4 {
		return "Usage: generate <IP> [port] [duration] [pps]"
	}
	target := args[0]

	// Optional numeric arguments; zero means "use the config default".
	nums := make([]int, 3)
	for i, arg := range args[1:] {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return "Usage: generate <IP> [port] [duration] [pps]"
		}
		nums[i] = n
	}

	result, err := s.registry.StartTraffic(target, nums[0], nums[1], nums[2])
	if err != nil {
		return err.Error()
	}
	return result
}

func (s *Shell) setConfig(key, value string) string {
	if err := s.store.Set(key, value); err != nil {
		return err.Error()
	}
	display, _ := s.store.Get(key)
	return fmt.Sprintf("Configuration updated: %s = %s", key, display)
}

func (s *Shell) showConfig() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s%s Current Configuration %s\n", colRedBG, colBold, colReset)
	for _, key := range config.Keys {
		value, err := s.store.Get(key)
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, "%s%s:%s %s\n", colRed, key, colReset, value)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *Shell) showHistory() string {
	if len(s.history) == 0 {
		return "No commands in history"
	}
	recent := s.history
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s%s Command History %s\n", colRedBG, colBold, colReset)
	for i, cmd := range recent {
		fmt.Fprintf(&b, "%d. %s\n", i+1, cmd)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *Shell) showStatus() string {
	st := s.registry.Status()

	var b strings.Builder
	fmt.Fprintf(&b, "%s%s Bot Status %s\n", colRedBG, colBold, colReset)
	fmt.Fprintf(&b, "%sRunning:%s true\n", colRed, colReset)

	fmt.Fprintf(&b, "%sMonitoring:%s %t\n", colRed, colReset, st.MonitorActive)
	if st.MonitorActive {
		fmt.Fprintf(&b, "  %sTarget:%s %s\n", colRed, colReset, st.MonitorTarget)
	}

	fmt.Fprintf(&b, "%sTraffic Generation:%s %t\n", colRed, colReset, st.TrafficActive)
	if st.TrafficActive {
		fmt.Fprintf(&b, "  %sTarget:%s %s\n", colRed, colReset,
			util.FormatAddr(st.TrafficTarget, st.TrafficPort))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *Shell) helpText() string {
	return fmt.Sprintf(`%s%s Accurate Cyber Security Bot - Help Menu %s

Available commands:
  %shelp%s               - Show this help message
  %sexit%s               - Exit the bot
  %sclear%s              - Clear the screen
  %sping <IP>%s          - Ping an IP address
  %sgenerate <IP> [port] [duration] [pps]%s - Generate network traffic
  %sstop%s               - Stop traffic generation
  %smonitor <IP>%s       - Start monitoring an IP address
  %sstopmonitor%s        - Stop monitoring
  %sconfig%s             - Show current configuration
  %ssetconfig <key> <value>%s - Set configuration value
  %shistory%s            - Show command history
  %sstatus%s             - Show current bot status
  %sstats%s              - Show traffic and monitoring counters`,
		colRedBG, colBold, colReset,
		colRed, colReset, colRed, colReset, colRed, colReset, colRed, colReset,
		colRed, colReset, colRed, colReset, colRed, colReset, colRed, colReset,
		colRed, colReset, colRed, colReset, colRed, colReset, colRed, colReset,
		colRed, colReset)
}
