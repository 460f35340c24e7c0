package driver

import (
	"fmt"
	"net"
	"sync"
)

// check Mock compliance to its interfaces during compile time
var _ Driver = (*Mock)(nil)
var _ Scanner = (*Mock)(nil)

// Mock is an in-memory driver for tests and for running the daemon on
// machines without a radio. The status register it reports is scripted
// through ScriptStatus and every configuration call is recorded so the
// exact call sequence can be asserted.
type Mock struct {
	mu         sync.Mutex
	calls      []string
	statuses   []Status
	ip         net.IP
	mac        net.HardwareAddr
	gateway    net.IP
	dns        []net.IP
	rssi       int
	mode       Mode
	enterprise bool
	ssid       string
	networks   []Network
}

func NewMock() *Mock {
	return &Mock{}
}

// ScriptStatus programs the sequence of states the status register
// will report. Each Status call consumes one entry; the last entry
// repeats once the script is exhausted. An empty script reports
// StatusIdle forever.
func (m *Mock) ScriptStatus(statuses ...Status) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.statuses = statuses
}

// SetAddress sets the address LocalIP will report while connected.
func (m *Mock) SetAddress(ip net.IP) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ip = ip
}

// SetHardwareAddr sets the address MAC will report.
func (m *Mock) SetHardwareAddr(mac net.HardwareAddr) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.mac = mac
}

// SetGateway sets the address Gateway will report.
func (m *Mock) SetGateway(ip net.IP) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gateway = ip
}

// SetDNS sets the servers DNS will report.
func (m *Mock) SetDNS(servers ...net.IP) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.dns = servers
}

// SetNetworks sets the networks ScanNetworks will report.
func (m *Mock) SetNetworks(networks ...Network) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.networks = networks
}

// SetRSSI sets the signal strength RSSI will report.
func (m *Mock) SetRSSI(rssi int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rssi = rssi
}

// Calls returns a copy of the recorded configuration call sequence.
// Status, LocalIP and the other read-only queries are not recorded.
func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]string, len(m.calls))
	copy(calls, m.calls)

	return calls
}

// EnterpriseEnabled reports whether enterprise authentication is
// currently armed.
func (m *Mock) EnterpriseEnabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.enterprise
}

// JoinedSsid returns the ssid of the last association attempt.
func (m *Mock) JoinedSsid() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.ssid
}

func (m *Mock) record(format string, args ...interface{}) {
	m.calls = append(m.calls, fmt.Sprintf(format, args...))
}

func (m *Mock) Disconnect(reset bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("disconnect %v", reset)
	m.ssid = ""

	return nil
}

func (m *Mock) SetMode(mode Mode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("set-mode %v", mode)
	m.mode = mode

	return nil
}

func (m *Mock) SetEnterpriseIdentity(identity []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("set-identity %s", identity)

	return nil
}

func (m *Mock) SetEnterpriseUsername(username []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("set-username %s", username)

	return nil
}

func (m *Mock) SetEnterprisePassword(password []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("set-password %s", password)

	return nil
}

func (m *Mock) EnableEnterprise() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("enable-enterprise")
	m.enterprise = true

	return nil
}

func (m *Mock) DisableEnterprise() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("disable-enterprise")
	m.enterprise = false

	return nil
}

func (m *Mock) Join(ssid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("join %v", ssid)
	m.ssid = ssid

	return nil
}

func (m *Mock) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.statuses) == 0 {
		return StatusIdle
	}

	status := m.statuses[0]

	if len(m.statuses) > 1 {
		m.statuses = m.statuses[1:]
	}

	return status
}

func (m *Mock) LocalIP() net.IP {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.ip
}

func (m *Mock) RSSI() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.rssi
}

func (m *Mock) MAC() net.HardwareAddr {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.mac
}

func (m *Mock) Gateway() net.IP {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.gateway
}

func (m *Mock) DNS() []net.IP {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.dns
}

func (m *Mock) ScanNetworks() ([]Network, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	networks := make([]Network, len(m.networks))
	copy(networks, m.networks)

	return networks, nil
}
