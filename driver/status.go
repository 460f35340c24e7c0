package driver

// Status is the closed set of association states a platform driver
// reports through its status register.
type Status int

const (
	// StatusIdle means the radio is up but no attempt is in progress.
	StatusIdle Status = iota
	// StatusNoSSIDAvailable means the requested network was not found.
	StatusNoSSIDAvailable
	// StatusScanCompleted means a network scan finished.
	StatusScanCompleted
	// StatusConnected means the association completed and an address
	// may be assigned.
	StatusConnected
	// StatusConnectFailed means the attempt ended without association,
	// typically because authentication was rejected.
	StatusConnectFailed
	// StatusConnectionLost means an established association dropped.
	StatusConnectionLost
	// StatusDisconnected means no association exists.
	StatusDisconnected
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "IDLE"
	case StatusNoSSIDAvailable:
		return "NO SSID AVAILABLE"
	case StatusScanCompleted:
		return "SCAN COMPLETED"
	case StatusConnected:
		return "CONNECTED"
	case StatusConnectFailed:
		return "CONNECT FAILED"
	case StatusConnectionLost:
		return "CONNECTION LOST"
	case StatusDisconnected:
		return "DISCONNECTED"
	default:
		return "INVALID STATUS"
	}
}
