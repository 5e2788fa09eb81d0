package monitor

import (
	"bytes"
	"context"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"acdbot/internal/metrics"
	"acdbot/internal/probe"
	"acdbot/internal/transport"
	"acdbot/util"
)

func quietLogger() *util.Logger {
	l := util.NewLogger(0)
	l.SetOutput(&bytes.Buffer{})
	return l
}

// fakeProbe returns a fixed reachability answer.
type fakeProbe struct {
	reachable bool
	err       error
}

func (f *fakeProbe) Reachable(ctx context.Context, addr string) (bool, error) {
	return f.reachable, f.err
}

// collectReports gathers emitted reports thread-safely.
type collectReports struct {
	mu      sync.Mutex
	reports []Report
}

func (c *collectReports) emit(r Report) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reports = append(c.reports, r)
}

func (c *collectReports) snapshot() []Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Report(nil), c.reports...)
}

func TestSession_ReportCoversConfiguredPorts(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	openPort := ln.Addr().(*net.TCPAddr).Port

	ports := []int{openPort, 1, 2}
	col := &collectReports{}
	m := metrics.New()
	s := &Session{
		Target:      "127.0.0.1",
		Interval:    10 * time.Second, // one cycle, then the test stops it
		Ports:       ports,
		Probe:       &fakeProbe{reachable: true},
		Dialer:      &transport.TCPDialer{Timeout: 300 * time.Millisecond},
		PortTimeout: 300 * time.Millisecond,
		Logger:      quietLogger(),
		Metrics:     m,
		Emit:        col.emit,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { s.Run(ctx); close(done) }()

	// Wait for the first report.
	deadline := time.Now().Add(3 * time.Second)
	for len(col.snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	<-done

	reports := col.snapshot()
	if len(reports) == 0 {
		t.Fatal("no report emitted")
	}
	r := reports[0]
	if !r.Reachable {
		t.Error("reachability lost between probe and report")
	}
	if len(r.Ports) != len(ports) {
		t.Fatalf("report has %d ports, want %d", len(r.Ports), len(ports))
	}
	for i, p := range ports {
		if r.Ports[i].Port != p {
			t.Errorf("report port %d = %d, want %d (configured order)", i, r.Ports[i].Port, p)
		}
		switch r.Ports[i].State {
		case probe.StateOpen, probe.StateClosed, probe.StateError:
		default:
			t.Errorf("port %d has invalid state %q", p, r.Ports[i].State)
		}
	}
	if r.Ports[0].State != probe.StateOpen {
		t.Errorf("listening port classified %s", r.Ports[0].State)
	}
	if m.MonitorCycles() < 1 {
		t.Error("cycle not recorded in metrics")
	}
}

func TestSession_StopWithinOneSecond(t *testing.T) {
	col := &collectReports{}
	s := &Session{
		Target:      "127.0.0.1",
		Interval:    time.Hour, // stop must not wait for the interval
		Ports:       []int{1},
		Probe:       &fakeProbe{reachable: true},
		Dialer:      &transport.TCPDialer{Timeout: 200 * time.Millisecond},
		PortTimeout: 200 * time.Millisecond,
		Logger:      quietLogger(),
		Emit:        col.emit,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { s.Run(ctx); close(done) }()

	// Let the first cycle complete and enter the interval wait.
	deadline := time.Now().Add(3 * time.Second)
	for len(col.snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	start := time.Now()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("session did not stop")
	}
	if elapsed := time.Since(start); elapsed > 1500*time.Millisecond {
		t.Errorf("stop took %v, want ≤ ~1s", elapsed)
	}
}

func TestSession_ProbeErrorReportsUnreachable(t *testing.T) {
	col := &collectReports{}
	m := metrics.New()
	s := &Session{
		Target:      "127.0.0.1",
		Interval:    time.Hour,
		Ports:       []int{1},
		Probe:       &fakeProbe{err: context.DeadlineExceeded},
		Dialer:      &transport.TCPDialer{Timeout: 200 * time.Millisecond},
		PortTimeout: 200 * time.Millisecond,
		Logger:      quietLogger(),
		Metrics:     m,
		Emit:        col.emit,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { s.Run(ctx); close(done) }()

	deadline := time.Now().Add(3 * time.Second)
	for len(col.snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	<-done

	reports := col.snapshot()
	if len(reports) == 0 {
		t.Fatal("an erroring probe must still produce a report")
	}
	if reports[0].Reachable {
		t.Error("erroring probe should report unreachable")
	}
	if m.TransientErrors() == 0 {
		t.Error("probe error should be recorded")
	}
}

func TestReport_String(t *testing.T) {
	r := Report{
		Target:    "8.8.8.8",
		Reachable: true,
		Ports: []probe.PortStatus{
			{Port: 80, State: probe.StateOpen},
			{Port: 443, State: probe.StateClosed},
			{Port: 22, State: probe.StateError},
		},
	}

	out := r.String()
	for _, want := range []string{
		"Monitoring Report for 8.8.8.8",
		"Online: Yes",
		"Port 80: open",
		"Port 443: closed",
		"Port 22: error",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}

	r.Reachable = false
	if !strings.Contains(r.String(), "Online: No") {
		t.Error("unreachable report should say Online: No")
	}
}
