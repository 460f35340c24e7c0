package enterprise

import (
	"context"
	"fmt"
	"net"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/RacoonX65/wifienterprise/driver"
)

// recordingLogger collects debug lines so tests can assert whether
// diagnostic output was emitted.
type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) Debugf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Infof(format string, args ...interface{}) {}

func (l *recordingLogger) Warnf(format string, args ...interface{}) {}

func (l *recordingLogger) Errorf(format string, args ...interface{}) {}

func (l *recordingLogger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.lines)
}

func testConfig(d *driver.Mock) *Config {
	return &Config{
		Driver:       d,
		SettleDelay:  time.Millisecond,
		PollInterval: 5 * time.Millisecond,
		Timeout:      50 * time.Millisecond,
	}
}

var wantSequence = []string{
	"disconnect true",
	"set-mode station",
	"set-identity alice",
	"set-username alice",
	"set-password secret",
	"enable-enterprise",
	"join Corp",
}

func TestConnectRunsFullSequence(t *testing.T) {
	d := driver.NewMock()
	d.ScriptStatus(driver.StatusConnected)
	m := New(testConfig(d))

	if err := m.Connect(context.Background(), "Corp", "alice", "secret"); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	if got := d.Calls(); !reflect.DeepEqual(got, wantSequence) {
		t.Errorf("Incorrect call sequence. got: %v, want: %v", got, wantSequence)
	}

	if !m.LastAttemptSucceeded() {
		t.Errorf("Expected the attempt snapshot to report success.")
	}
}

func TestConnectReturnsWithinOnePollInterval(t *testing.T) {
	d := driver.NewMock()
	d.ScriptStatus(driver.StatusConnected)
	m := New(&Config{
		Driver:       d,
		SettleDelay:  time.Millisecond,
		PollInterval: 200 * time.Millisecond,
		Timeout:      time.Second,
	})

	start := time.Now()

	if err := m.Connect(context.Background(), "Corp", "alice", "secret"); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	if elapsed := time.Since(start); elapsed >= 200*time.Millisecond {
		t.Errorf("Connect needlessly waited a poll interval: took %v", elapsed)
	}
}

func TestConnectTimesOut(t *testing.T) {
	d := driver.NewMock()
	d.ScriptStatus(driver.StatusDisconnected)
	m := New(testConfig(d))

	start := time.Now()
	err := m.Connect(context.Background(), "Corp", "alice", "secret")
	elapsed := time.Since(start)

	if err != ErrAttemptTimeout {
		t.Fatalf("Incorrect error. got: %v, want: %v", err, ErrAttemptTimeout)
	}

	if elapsed < 50*time.Millisecond {
		t.Errorf("Connect gave up before the timeout: took %v", elapsed)
	}

	if d.EnterpriseEnabled() {
		t.Errorf("Expected enterprise authentication to be disabled after a failed attempt.")
	}

	calls := d.Calls()
	if got := calls[len(calls)-1]; got != "disable-enterprise" {
		t.Errorf("Incorrect last call. got: %v, want: disable-enterprise", got)
	}

	if m.LastAttemptSucceeded() {
		t.Errorf("Expected the attempt snapshot to report failure.")
	}

	if got := m.Status(); got != driver.StatusDisconnected {
		t.Errorf("Incorrect status after failure. got: %v, want: %v", got, driver.StatusDisconnected)
	}
}

func TestConnectRetriesFromScratch(t *testing.T) {
	d := driver.NewMock()
	d.ScriptStatus(driver.StatusDisconnected)
	m := New(testConfig(d))

	if err := m.Connect(context.Background(), "Corp", "alice", "secret"); err != ErrAttemptTimeout {
		t.Fatalf("Expected the first attempt to time out, got: %v", err)
	}

	d.ScriptStatus(driver.StatusConnected)

	if err := m.Connect(context.Background(), "Corp", "alice", "secret"); err != nil {
		t.Fatalf("Second attempt failed: %v", err)
	}

	calls := d.Calls()
	if len(calls) < len(wantSequence) {
		t.Fatalf("Too few calls recorded: %v", calls)
	}

	if got := calls[len(calls)-len(wantSequence):]; !reflect.DeepEqual(got, wantSequence) {
		t.Errorf("Second attempt did not re-run the full sequence. got: %v, want: %v", got, wantSequence)
	}
}

func TestDisconnectIsIdempotent(t *testing.T) {
	d := driver.NewMock()
	m := New(testConfig(d))

	for i := 0; i < 3; i++ {
		if err := m.Disconnect(); err != nil {
			t.Fatalf("Disconnect %d failed: %v", i, err)
		}
	}

	if d.EnterpriseEnabled() {
		t.Errorf("Expected enterprise authentication to be disabled.")
	}

	if m.LastAttemptSucceeded() {
		t.Errorf("Expected the attempt snapshot to report disconnection.")
	}
}

func TestSetDebugTogglesDiagnostics(t *testing.T) {
	d := driver.NewMock()
	d.ScriptStatus(driver.StatusConnected)
	log := &recordingLogger{}

	config := testConfig(d)
	config.Logger = log
	m := New(config)

	if err := m.Connect(context.Background(), "Corp", "alice", "secret"); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	if got := log.count(); got != 0 {
		t.Errorf("Expected no diagnostics with debug off, got %d lines", got)
	}

	m.SetDebug(true)
	d.ScriptStatus(driver.StatusConnected)

	if err := m.Connect(context.Background(), "Corp", "alice", "secret"); err != nil {
		t.Fatalf("Connect with debug on failed: %v", err)
	}

	if log.count() == 0 {
		t.Errorf("Expected diagnostics with debug on.")
	}

	count := log.count()
	m.SetDebug(false)
	d.ScriptStatus(driver.StatusConnected)

	if err := m.Connect(context.Background(), "Corp", "alice", "secret"); err != nil {
		t.Fatalf("Connect with debug off again failed: %v", err)
	}

	if got := log.count(); got != count {
		t.Errorf("Expected no further diagnostics with debug off, got %d more lines", got-count)
	}
}

func TestStatusAndLocalIPPassThrough(t *testing.T) {
	d := driver.NewMock()
	d.ScriptStatus(driver.StatusConnectionLost)
	d.SetAddress(net.IPv4(10, 0, 0, 7))
	m := New(testConfig(d))

	if got := m.Status(); got != driver.StatusConnectionLost {
		t.Errorf("Incorrect status. got: %v, want: %v", got, driver.StatusConnectionLost)
	}

	if got := m.LocalIP(); !got.Equal(net.IPv4(10, 0, 0, 7)) {
		t.Errorf("Incorrect address. got: %v, want: 10.0.0.7", got)
	}
}

func TestConnectSucceedsAfterSeveralPolls(t *testing.T) {
	d := driver.NewMock()
	d.ScriptStatus(
		driver.StatusDisconnected,
		driver.StatusDisconnected,
		driver.StatusDisconnected,
		driver.StatusConnected,
	)
	d.SetAddress(net.IPv4(192, 168, 4, 20))
	m := New(&Config{
		Driver:       d,
		SettleDelay:  10 * time.Millisecond,
		PollInterval: 10 * time.Millisecond,
		Timeout:      time.Second,
	})

	start := time.Now()

	if err := m.Connect(context.Background(), "Corp", "alice", "secret"); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	elapsed := time.Since(start)

	// settle delay plus three poll cycles
	if elapsed < 40*time.Millisecond {
		t.Errorf("Connect returned too early: took %v", elapsed)
	}

	if elapsed > 500*time.Millisecond {
		t.Errorf("Connect took far too long: took %v", elapsed)
	}

	if got := m.LocalIP(); !got.Equal(net.IPv4(192, 168, 4, 20)) {
		t.Errorf("Incorrect address. got: %v, want: 192.168.4.20", got)
	}
}

func TestConnectHonorsCancellation(t *testing.T) {
	d := driver.NewMock()
	d.ScriptStatus(driver.StatusDisconnected)
	m := New(&Config{
		Driver:       d,
		SettleDelay:  time.Millisecond,
		PollInterval: 10 * time.Millisecond,
		Timeout:      time.Minute,
	})

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	err := m.Connect(ctx, "Corp", "alice", "secret")
	if err != context.Canceled {
		t.Fatalf("Incorrect error. got: %v, want: %v", err, context.Canceled)
	}

	if d.EnterpriseEnabled() {
		t.Errorf("Expected enterprise authentication to be disabled after cancellation.")
	}
}

func TestConnectRejectsOverlappingAttempts(t *testing.T) {
	d := driver.NewMock()
	d.ScriptStatus(driver.StatusDisconnected)
	m := New(&Config{
		Driver:       d,
		SettleDelay:  time.Millisecond,
		PollInterval: 10 * time.Millisecond,
		Timeout:      time.Minute,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- m.Connect(ctx, "Corp", "alice", "secret")
	}()

	time.Sleep(20 * time.Millisecond)

	if err := m.Connect(context.Background(), "Other", "bob", "hunter2"); err != ErrAttemptInProgress {
		t.Errorf("Incorrect error. got: %v, want: %v", err, ErrAttemptInProgress)
	}

	cancel()

	if err := <-done; err != context.Canceled {
		t.Errorf("Incorrect error from cancelled attempt. got: %v, want: %v", err, context.Canceled)
	}
}

func TestConnectValidatesInputs(t *testing.T) {
	d := driver.NewMock()
	m := New(testConfig(d))

	if err := m.Connect(context.Background(), "", "alice", "secret"); err == nil {
		t.Errorf("Expected an error for an empty ssid.")
	}

	if err := m.Connect(context.Background(), "Corp", "", "secret"); err == nil {
		t.Errorf("Expected an error for empty credentials.")
	}

	if got := d.Calls(); len(got) != 0 {
		t.Errorf("Expected no driver calls for rejected inputs, got: %v", got)
	}
}
