package wpa

import (
	"net"
	"sync"
	"time"

	"github.com/RacoonX65/wifienterprise/driver"
	"github.com/go-errors/errors"
	"github.com/jackpal/gateway"
	"github.com/miekg/dns"
)

// check Driver compliance to its interfaces during compile time
var _ driver.Driver = (*Driver)(nil)
var _ driver.Scanner = (*Driver)(nil)

const resolvConf = "/etc/resolv.conf"
const scanTimeout = 10 * time.Second

type Config struct {
	// Interface is the name of the wireless interface wpa_supplicant
	// manages, such as wlan0.
	Interface string
}

// Driver implements the platform driver on top of wpa_supplicant. The
// EAP credential setters only stash their values; the network block is
// installed when Join runs, since the supplicant takes the whole
// enterprise configuration in one call.
type Driver struct {
	wpa    *Wpa
	ifname string
	iface  *Interface

	mu           sync.Mutex
	identity     []byte
	username     []byte
	password     []byte
	enterprise   bool
	network      *Network
	wasConnected bool
}

func NewDriver(config *Config) *Driver {
	return &Driver{
		wpa:    New(),
		ifname: config.Interface,
	}
}

// Start connects to the supplicant and resolves the managed interface.
// It must run before any other call.
func (d *Driver) Start() error {
	err := d.wpa.Start()
	if err != nil {
		return errors.Errorf("could not start wpa: %v", err)
	}

	iface, err := d.wpa.GetInterface(d.ifname)
	if err != nil {
		_ = d.wpa.Stop()
		return errors.Errorf("could not find interface %v: %v", d.ifname, err)
	}

	d.iface = iface

	return nil
}

func (d *Driver) Stop() error {
	err := d.wpa.Stop()
	if err != nil {
		return errors.Errorf("could not stop wpa: %v", err)
	}

	return nil
}

func (d *Driver) Disconnect(reset bool) error {
	d.mu.Lock()
	d.wasConnected = false
	d.network = nil
	d.mu.Unlock()

	if err := d.iface.Disconnect(); err != nil {
		return err
	}

	if reset {
		if err := d.iface.RemoveAllNetworks(); err != nil {
			return err
		}
	}

	return nil
}

func (d *Driver) SetMode(mode driver.Mode) error {
	// wpa_supplicant only ever drives the interface as a station.
	if mode != driver.ModeStation {
		return errors.Errorf("mode %v is not supported by the wpa_supplicant driver", mode)
	}

	return nil
}

func (d *Driver) SetEnterpriseIdentity(identity []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.identity = append([]byte(nil), identity...)

	return nil
}

func (d *Driver) SetEnterpriseUsername(username []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.username = append([]byte(nil), username...)

	return nil
}

func (d *Driver) SetEnterprisePassword(password []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.password = append([]byte(nil), password...)

	return nil
}

func (d *Driver) EnableEnterprise() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.identity) == 0 || len(d.password) == 0 {
		return errors.Errorf("enterprise credentials are not configured")
	}

	d.enterprise = true

	return nil
}

func (d *Driver) DisableEnterprise() error {
	d.mu.Lock()
	network := d.network
	d.network = nil
	d.enterprise = false
	d.mu.Unlock()

	if network != nil {
		if err := d.iface.RemoveNetwork(network); err != nil {
			return err
		}
	}

	return nil
}

func (d *Driver) Join(ssid string) error {
	d.mu.Lock()
	enterprise := d.enterprise
	identity := string(d.identity)
	username := string(d.username)
	password := string(d.password)
	d.wasConnected = false
	d.mu.Unlock()

	var network *Network
	var err error

	if enterprise {
		network, err = d.iface.AddEnterpriseNetwork(ssid, identity, username, password)
	} else {
		network, err = d.iface.AddNetwork(ssid, "")
	}

	if err != nil {
		return errors.Errorf("could not add network %v: %v", ssid, err)
	}

	if err := d.iface.SelectNetwork(network); err != nil {
		return errors.Errorf("could not select network %v: %v", ssid, err)
	}

	d.mu.Lock()
	d.network = network
	d.mu.Unlock()

	return nil
}

func (d *Driver) Status() driver.Status {
	state, err := d.iface.State()
	if err != nil {
		return driver.StatusDisconnected
	}

	status := statusFromState(state)

	d.mu.Lock()
	defer d.mu.Unlock()

	if status == driver.StatusConnected {
		d.wasConnected = true
	} else if status == driver.StatusDisconnected && d.wasConnected {
		status = driver.StatusConnectionLost
	}

	return status
}

// statusFromState maps a supplicant state string onto the closed
// status enumeration. Transient negotiation states report as idle
// since no terminal outcome is known yet.
func statusFromState(state string) driver.Status {
	switch state {
	case "completed":
		return driver.StatusConnected
	case "disconnected", "inactive", "interface_disabled":
		return driver.StatusDisconnected
	case "scanning", "authenticating", "associating", "associated",
		"4way_handshake", "group_handshake":
		return driver.StatusIdle
	default:
		return driver.StatusIdle
	}
}

func (d *Driver) LocalIP() net.IP {
	iface, err := net.InterfaceByName(d.ifname)
	if err != nil {
		return nil
	}

	addrs, err := iface.Addrs()
	if err != nil {
		return nil
	}

	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}

		if ip := ipNet.IP.To4(); ip != nil && !ip.IsLinkLocalUnicast() {
			return ip
		}
	}

	return nil
}

func (d *Driver) RSSI() int {
	rssi, err := d.iface.SignalPoll()
	if err != nil {
		return 0
	}

	return rssi
}

func (d *Driver) MAC() net.HardwareAddr {
	iface, err := net.InterfaceByName(d.ifname)
	if err != nil {
		return nil
	}

	return iface.HardwareAddr
}

func (d *Driver) Gateway() net.IP {
	ip, err := gateway.DiscoverGateway()
	if err != nil {
		return nil
	}

	return ip
}

func (d *Driver) DNS() []net.IP {
	config, err := dns.ClientConfigFromFile(resolvConf)
	if err != nil {
		return nil
	}

	var servers []net.IP

	for _, server := range config.Servers {
		if ip := net.ParseIP(server); ip != nil {
			servers = append(servers, ip)
		}
	}

	return servers
}

func (d *Driver) ScanNetworks() ([]driver.Network, error) {
	doneClient, err := d.iface.ScanDone()
	if err != nil {
		return nil, errors.Errorf("unable to listen to scan completion: %v", err)
	}
	defer doneClient.Cancel()

	if err := d.iface.Scan(); err != nil {
		return nil, errors.Errorf("unable to scan: %v", err)
	}

	select {
	case <-doneClient.ScanDone:
	case <-time.After(scanTimeout):
		return nil, errors.Errorf("scan did not complete within %v", scanTimeout)
	}

	bsss, err := d.iface.BSSs()
	if err != nil {
		return nil, errors.Errorf("unable to get BSSs: %v", err)
	}

	var networks []driver.Network

	for _, bss := range bsss {
		b, err := bss.GetAll()
		if err != nil {
			continue
		}

		networks = append(networks, driver.Network{
			Ssid:  b.Ssid,
			Bssid: b.Bssid,
			RSSI:  b.Signal,
		})
	}

	return networks, nil
}
