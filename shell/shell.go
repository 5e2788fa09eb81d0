// Package shell is the interactive operator console.  It reads one
// command per line, dispatches it against the registry, config store,
// and probe, and prints the result.  On a real terminal it switches to
// raw mode for line editing and in-memory history recall; piped input
// falls back to plain line scanning so the console stays scriptable.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"acdbot/config"
	"acdbot/internal/metrics"
	"acdbot/internal/registry"
	"acdbot/util"
)

// ANSI theme, matching the console's red-on-dark look.
const (
	colRed     = "\033[91m"
	colDarkRed = "\033[31m"
	colRedBG   = "\033[41m"
	colBold    = "\033[1m"
	colReset   = "\033[0m"
)

const prompt = colDarkRed + "bot>" + colReset + " "

// Pinger runs a one-shot reachability probe and returns a printable
// summary.  Implemented by probe.ICMPProbe.
type Pinger interface {
	Ping(ctx context.Context, addr string) (string, error)
}

// Shell drives the interactive loop.
type Shell struct {
	registry *registry.Registry
	store    *config.Store
	metrics  *metrics.Collector
	pinger   Pinger
	logger   *util.Logger

	// Input/Output default to stdin/stdout; tests substitute buffers.
	Input   io.Reader
	Output  io.Writer
	Version string

	history []string
}

// New builds a Shell over its collaborators.
func New(reg *registry.Registry, store *config.Store, m *metrics.Collector,
	pinger Pinger, logger *util.Logger) *Shell {
	return &Shell{
		registry: reg,
		store:    store,
		metrics:  m,
		pinger:   pinger,
		logger:   logger,
		Input:    os.Stdin,
		Output:   os.Stdout,
		Version:  "1.0",
	}
}

// Run prints the banner and loops until exit, EOF, or ctx cancellation.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprint(s.Output, s.banner())

	if f, ok := s.Input.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return s.runTerminal(ctx, f)
	}
	return s.runScanner(ctx)
}

// runTerminal reads lines in raw mode so the operator gets arrow-key
// history and basic line editing.
func (s *Shell) runTerminal(ctx context.Context, f *os.File) error {
	fd := int(f.Fd())
	old, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	defer term.Restore(fd, old) //nolint:errcheck

	screen := struct {
		io.Reader
		io.Writer
	}{f, s.Output}
	t := term.NewTerminal(screen, prompt)

	for ctx.Err() == nil {
		line, err := t.ReadLine()
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(t, "\nExiting...")
			return nil
		}
		if err != nil {
			return fmt.Errorf("read command: %w", err)
		}

		out, exit := s.Execute(ctx, line)
		if out != "" {
			fmt.Fprintln(t, out)
		}
		if exit {
			return nil
		}
	}
	return nil
}

// runScanner is the non-TTY path: plain line scanning, no prompt echo
// tricks, suitable for pipes and tests.
func (s *Shell) runScanner(ctx context.Context) error {
	sc := bufio.NewScanner(s.Input)
	for ctx.Err() == nil {
		fmt.Fprint(s.Output, prompt)
		if !sc.Scan() {
			fmt.Fprintln(s.Output, "\nExiting...")
			return sc.Err()
		}

		out, exit := s.Execute(ctx, sc.Text())
		if out != "" {
			fmt.Fprintln(s.Output, out)
		}
		if exit {
			return nil
		}
	}
	return nil
}

func (s *Shell) banner() string {
	return fmt.Sprintf(`
%s%s   ACCURATE CYBER DEFENSE SECURITY BOT - NETWORK TRAFFIC GENERATOR   %s
%sVersion: %s%s
%sType 'help' for available commands%s

`, colRedBG, colBold, colReset, colRed, s.Version, colReset, colRed, colReset)
}
