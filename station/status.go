package station

import (
	"net"

	"github.com/RacoonX65/wifienterprise/driver"
	"github.com/go-errors/errors"
)

// NetworkStatus is a point-in-time snapshot of the connection for the
// control API.
type NetworkStatus struct {
	State   State
	Ssid    string
	Status  driver.Status
	IP      net.IP
	RSSI    int
	MAC     net.HardwareAddr
	Gateway net.IP
	DNS     []net.IP
}

func (s *Station) NetworkStatus() *NetworkStatus {
	s.mtx.Lock()
	state := s.state
	ssid := s.ssid
	s.mtx.Unlock()

	return &NetworkStatus{
		State:   state,
		Ssid:    ssid,
		Status:  s.driver.Status(),
		IP:      s.driver.LocalIP(),
		RSSI:    s.driver.RSSI(),
		MAC:     s.driver.MAC(),
		Gateway: s.driver.Gateway(),
		DNS:     s.driver.DNS(),
	}
}

// ListNetworks enumerates nearby networks on drivers that support
// scanning.
func (s *Station) ListNetworks() ([]driver.Network, error) {
	scanner, ok := s.driver.(driver.Scanner)
	if !ok {
		return nil, errors.Errorf("the driver does not support scanning")
	}

	return scanner.ScanNetworks()
}

func (s *Station) GetName() (string, error) {
	name, err := s.db.GetName()
	if err != nil {
		return "", errors.Errorf("could not get name: %v", err)
	}

	return name, nil
}

func (s *Station) SetName(name string) error {
	if err := s.db.SetName(name); err != nil {
		return errors.Errorf("could not set name: %v", err)
	}

	return nil
}
