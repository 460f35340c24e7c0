package driver

// Network describes one access point seen during a scan.
type Network struct {
	Ssid  string
	Bssid string
	RSSI  int
}

// Scanner is implemented by drivers that can enumerate nearby
// networks. Scanning is optional; not every platform supports it.
type Scanner interface {
	ScanNetworks() ([]Network, error)
}
