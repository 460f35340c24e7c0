package station

import (
	"net"
	"time"

	"github.com/RacoonX65/wifienterprise/driver"
)

// State is the station's connectivity from the daemon's point of view.
type State int

const (
	Offline State = iota
	Connecting
	Online
)

func (s State) String() string {
	switch s {
	case Offline:
		return "OFFLINE"
	case Connecting:
		return "CONNECTING"
	case Online:
		return "ONLINE"
	default:
		return "INVALID STATE"
	}
}

// Update describes one connectivity transition.
type Update struct {
	State  State
	Ssid   string
	IP     net.IP
	Status driver.Status
	Time   time.Time
}

// UpdatesClient receives connectivity transitions until cancelled.
type UpdatesClient struct {
	Updates chan *Update
	Id      uint32
	station *Station
}

// SubscribeUpdates registers a client for connectivity transitions.
// Updates are dropped for clients that don't keep up.
func (s *Station) SubscribeUpdates() *UpdatesClient {
	client := &UpdatesClient{
		Updates: make(chan *Update, 4),
		station: s,
	}

	s.clientMtx.Lock()
	client.Id = s.nextClientID
	s.nextClientID++
	s.clients[client.Id] = client
	s.clientMtx.Unlock()

	return client
}

func (c *UpdatesClient) Cancel() {
	c.station.clientMtx.Lock()
	delete(c.station.clients, c.Id)
	c.station.clientMtx.Unlock()
}

// publish records a state transition and notifies subscribers. Equal
// consecutive states are suppressed.
func (s *Station) publish(state State, ssid string) {
	s.mtx.Lock()
	if s.state == state && s.ssid == ssid {
		s.mtx.Unlock()
		return
	}
	s.state = state
	s.ssid = ssid
	s.mtx.Unlock()

	update := &Update{
		State:  state,
		Ssid:   ssid,
		IP:     s.driver.LocalIP(),
		Status: s.driver.Status(),
		Time:   time.Now(),
	}

	s.log.Infof("Connectivity changed to %v (%v)", state, ssid)

	s.clientMtx.Lock()
	defer s.clientMtx.Unlock()

	for _, client := range s.clients {
		select {
		case client.Updates <- update:
		default:
		}
	}
}
