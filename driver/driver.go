package driver

import "net"

// Mode selects how the radio operates.
type Mode int

const (
	// ModeStation joins an existing access point as a client.
	ModeStation Mode = iota
	// ModeAccessPoint lets the radio act as an access point itself.
	ModeAccessPoint
)

func (m Mode) String() string {
	switch m {
	case ModeStation:
		return "station"
	case ModeAccessPoint:
		return "access point"
	default:
		return "unknown"
	}
}

// Driver is the platform WiFi/EAP stack that the connection manager
// drives. The driver owns the single shared radio, is stateful, and is
// not required to be safe for concurrent use.
type Driver interface {
	// Disconnect tears down any existing association. When reset is
	// true, previously programmed driver state is cleared as well.
	Disconnect(reset bool) error

	// SetMode switches the radio between station and access point
	// operation.
	SetMode(mode Mode) error

	// SetEnterpriseIdentity programs the outer EAP identity.
	SetEnterpriseIdentity(identity []byte) error

	// SetEnterpriseUsername programs the inner EAP username.
	SetEnterpriseUsername(username []byte) error

	// SetEnterprisePassword programs the inner EAP password.
	SetEnterprisePassword(password []byte) error

	// EnableEnterprise arms WPA2-Enterprise authentication for the
	// next association attempt.
	EnableEnterprise() error

	// DisableEnterprise disarms WPA2-Enterprise authentication.
	DisableEnterprise() error

	// Join starts an association attempt using only the ssid. No
	// passphrase is involved since authentication is carried by the
	// EAP exchange. Join returns once the attempt is initiated, not
	// once it completed; progress is observed through Status.
	Join(ssid string) error

	// Status reports the live association state. This is the
	// authoritative source of truth for connectedness.
	Status() Status

	// LocalIP returns the currently assigned address, or nil when no
	// address is assigned.
	LocalIP() net.IP

	// RSSI reports the signal strength of the current association in dBm.
	RSSI() int

	// MAC returns the hardware address of the radio.
	MAC() net.HardwareAddr

	// Gateway returns the default gateway of the current association.
	Gateway() net.IP

	// DNS returns the name servers handed out by the network.
	DNS() []net.IP
}
