package enterprise

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/RacoonX65/wifienterprise/driver"
	"github.com/go-errors/errors"
)

const (
	// DefaultSettleDelay is waited after the forced disconnect so the
	// driver settles before it is reconfigured.
	DefaultSettleDelay = 1000 * time.Millisecond
	// DefaultPollInterval is the delay between status register reads
	// while waiting for the association to complete.
	DefaultPollInterval = 500 * time.Millisecond
	// DefaultTimeout bounds the polling phase of a connection attempt.
	DefaultTimeout = 20000 * time.Millisecond
)

// ErrAttemptTimeout is returned when the driver did not report a
// connection before the configured timeout elapsed. The finer cause is
// still queryable through Status afterwards.
var ErrAttemptTimeout = errors.New("connection attempt timed out")

// ErrAttemptInProgress is returned when Connect is called while
// another attempt is still running. The driver is a single shared
// radio, so overlapping attempts would race on its configuration.
var ErrAttemptInProgress = errors.New("another connection attempt is in progress")

type Config struct {
	// Driver is the platform WiFi/EAP stack to drive. Required.
	Driver driver.Driver
	// Logger receives diagnostic output. Optional.
	Logger Logger
	// SettleDelay, PollInterval and Timeout override the documented
	// defaults when non-zero.
	SettleDelay  time.Duration
	PollInterval time.Duration
	Timeout      time.Duration
	// Debug enables per-step progress lines on the logger.
	Debug bool
}

// Manager drives one blocking attempt at a time to associate with a
// WPA2-Enterprise (EAP-PEAP) access point and reports the outcome. It
// assumes a single logical caller; apart from the overlapping-attempt
// guard it is not safe for concurrent use.
type Manager struct {
	driver       driver.Driver
	log          Logger
	settleDelay  time.Duration
	pollInterval time.Duration
	timeout      time.Duration

	mtx        sync.Mutex
	debug      bool
	connected  bool
	attempting bool
}

func New(config *Config) *Manager {
	m := &Manager{
		driver:       config.Driver,
		settleDelay:  config.SettleDelay,
		pollInterval: config.PollInterval,
		timeout:      config.Timeout,
		debug:        config.Debug,
	}

	if config.Logger != nil {
		m.log = config.Logger
	} else {
		m.log = noopLogger{}
	}

	if m.settleDelay == 0 {
		m.settleDelay = DefaultSettleDelay
	}

	if m.pollInterval == 0 {
		m.pollInterval = DefaultPollInterval
	}

	if m.timeout == 0 {
		m.timeout = DefaultTimeout
	}

	return m
}

// Connect runs the full association sequence against the driver:
// forced disconnect, settle delay, station mode, EAP credentials,
// enterprise enable, join, then polling of the status register until
// it reports a connection, the timeout elapses or ctx is cancelled.
// The sequence always starts from scratch; nothing of an earlier
// attempt is reused. The outer EAP identity is set to the username
// since this library does not distinguish the two. No retries are
// performed; retry policy belongs to the caller.
func (m *Manager) Connect(ctx context.Context, ssid string, username string, password string) error {
	if ssid == "" {
		return errors.Errorf("ssid must not be empty")
	}

	if username == "" || password == "" {
		return errors.Errorf("username and password must not be empty")
	}

	m.mtx.Lock()
	if m.attempting {
		m.mtx.Unlock()
		return ErrAttemptInProgress
	}
	m.attempting = true
	m.mtx.Unlock()

	defer func() {
		m.mtx.Lock()
		m.attempting = false
		m.mtx.Unlock()
	}()

	m.debugf("Connecting to enterprise network %v as %v", ssid, username)

	if err := m.driver.Disconnect(true); err != nil {
		return errors.Errorf("could not reset driver: %v", err)
	}

	if err := m.sleep(ctx, m.settleDelay); err != nil {
		return err
	}

	if err := m.driver.SetMode(driver.ModeStation); err != nil {
		return errors.Errorf("could not switch to station mode: %v", err)
	}

	if err := m.driver.SetEnterpriseIdentity([]byte(username)); err != nil {
		return errors.Errorf("could not set identity: %v", err)
	}

	if err := m.driver.SetEnterpriseUsername([]byte(username)); err != nil {
		return errors.Errorf("could not set username: %v", err)
	}

	if err := m.driver.SetEnterprisePassword([]byte(password)); err != nil {
		return errors.Errorf("could not set password: %v", err)
	}

	if err := m.driver.EnableEnterprise(); err != nil {
		return errors.Errorf("could not enable enterprise authentication: %v", err)
	}

	m.debugf("Enterprise authentication enabled, joining %v", ssid)

	if err := m.driver.Join(ssid); err != nil {
		m.disarm()
		return errors.Errorf("could not initiate association: %v", err)
	}

	deadline := time.Now().Add(m.timeout)

	// One status register read per poll cycle.
	status := m.driver.Status()

	for {
		if status == driver.StatusConnected {
			m.setConnected(true)
			m.debugf("Connected, got address %v", m.driver.LocalIP())
			return nil
		}

		if !time.Now().Before(deadline) {
			break
		}

		if err := m.sleep(ctx, m.pollInterval); err != nil {
			m.setConnected(false)
			m.disarm()
			return err
		}

		m.debugf("Still waiting for connection, status %v", status)

		status = m.driver.Status()
	}

	m.setConnected(false)
	m.debugf("Connection attempt failed, status %v", status)

	// Drop the armed enterprise configuration so it doesn't leak into
	// a later plain association.
	m.disarm()

	return ErrAttemptTimeout
}

// Disconnect disarms enterprise authentication and tears down any
// association. It is safe to call when already disconnected.
func (m *Manager) Disconnect() error {
	m.debugf("Disconnecting")

	if err := m.driver.DisableEnterprise(); err != nil {
		return errors.Errorf("could not disable enterprise authentication: %v", err)
	}

	if err := m.driver.Disconnect(true); err != nil {
		return errors.Errorf("could not disconnect: %v", err)
	}

	m.setConnected(false)
	m.debugf("Disconnected")

	return nil
}

// IsConnected queries the live status register. The driver is the
// source of truth for connectedness; the flag maintained by Connect
// and Disconnect is advisory only and never consulted here.
func (m *Manager) IsConnected() bool {
	return m.driver.Status() == driver.StatusConnected
}

// LastAttemptSucceeded reports the advisory snapshot left behind by
// the last Connect or Disconnect.
func (m *Manager) LastAttemptSucceeded() bool {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	return m.connected
}

// Status passes the driver's status register through unmodified.
func (m *Manager) Status() driver.Status {
	return m.driver.Status()
}

// LocalIP passes the driver's assigned address through unmodified. It
// is nil while not connected.
func (m *Manager) LocalIP() net.IP {
	return m.driver.LocalIP()
}

// SetDebug toggles the per-step progress lines. It has no effect on
// connection behavior.
func (m *Manager) SetDebug(enable bool) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	m.debug = enable
}

func (m *Manager) setConnected(connected bool) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	m.connected = connected
}

func (m *Manager) disarm() {
	if err := m.driver.DisableEnterprise(); err != nil {
		m.log.Warnf("Could not disable enterprise authentication: %v", err)
	}
}

func (m *Manager) debugf(format string, args ...interface{}) {
	m.mtx.Lock()
	debug := m.debug
	m.mtx.Unlock()

	if debug {
		m.log.Debugf(format, args...)
	}
}

func (m *Manager) sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
