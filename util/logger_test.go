package util

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(3) // debug level
	l.SetOutput(&buf)
	l.SetTimestamps(false)

	l.Error("e")
	l.Warn("w")
	l.Info("i")
	l.Verbose("v")
	l.Debug("d")

	output := buf.String()
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d:\n%s", len(lines), output)
	}

	wantPrefixes := []string{"[ERR]", "[WRN]", "[INF]", "[VRB]", "[DBG]"}
	for i, prefix := range wantPrefixes {
		if !strings.Contains(lines[i], prefix) {
			t.Errorf("line %d %q missing prefix %q", i, lines[i], prefix)
		}
	}
}

func TestLogger_QuietMode(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(0) // quiet
	l.SetOutput(&buf)
	l.SetTimestamps(false)

	l.Info("should not appear")
	l.Verbose("should not appear")
	l.Debug("should not appear")
	l.Error("always appears")

	output := buf.String()
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 1 {
		t.Errorf("expected 1 line in quiet mode, got %d:\n%s", len(lines), output)
	}
}

func TestLogger_ActivityFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "activity.log")

	l := NewLogger(1)
	l.SetOutput(&buf)
	if err := l.OpenActivityFile(path); err != nil {
		t.Fatal(err)
	}

	l.Activity("traffic generation started")
	l.Activity("traffic generation stopped")
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.Contains(content, "acdbot activity log") {
		t.Error("missing file header")
	}
	if !strings.Contains(content, "traffic generation started") {
		t.Error("missing first entry")
	}
	if !strings.Contains(content, "traffic generation stopped") {
		t.Error("missing second entry")
	}

	// Console mirror carries the [LOG] prefix.
	if !strings.Contains(buf.String(), "[LOG]") {
		t.Errorf("console output %q missing [LOG] prefix", buf.String())
	}
}

func TestLogger_ActivityFileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.log")

	l := NewLogger(0)
	l.SetOutput(&bytes.Buffer{})
	if err := l.OpenActivityFile(path); err != nil {
		t.Fatal(err)
	}
	l.Activity("first run")
	l.Close()

	// Reopening must append, not truncate, and not duplicate the header.
	l2 := NewLogger(0)
	l2.SetOutput(&bytes.Buffer{})
	if err := l2.OpenActivityFile(path); err != nil {
		t.Fatal(err)
	}
	l2.Activity("second run")
	l2.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.Contains(content, "first run") || !strings.Contains(content, "second run") {
		t.Errorf("entries lost across reopen:\n%s", content)
	}
	if strings.Count(content, "acdbot activity log") != 1 {
		t.Errorf("header duplicated:\n%s", content)
	}
}

type failingSink struct{}

func (failingSink) Write(p []byte) (int, error) { return 0, os.ErrClosed }
func (failingSink) Close() error                { return nil }

func TestLogger_ActivitySinkFailureSwallowed(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(1)
	l.SetOutput(&buf)
	l.SetActivitySink(failingSink{})

	// Must not panic and must keep writing the console line.
	l.Activity("still logged")
	l.Activity("still logged again")

	if !strings.Contains(buf.String(), "still logged") {
		t.Error("console line missing after sink failure")
	}
}

func TestPayloadPool_RoundTrip(t *testing.T) {
	buf := GetPayload()
	if buf == nil {
		t.Fatal("GetPayload returned nil")
	}
	if len(*buf) != PayloadSize {
		t.Errorf("buffer size = %d, want %d", len(*buf), PayloadSize)
	}

	(*buf)[0] = 0xFF
	PutPayload(buf)

	buf2 := GetPayload()
	if buf2 == nil {
		t.Fatal("second GetPayload returned nil")
	}
	PutPayload(buf2)
}

func TestPutPayload_Nil(t *testing.T) {
	// Should not panic.
	PutPayload(nil)
}
