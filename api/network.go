package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/RacoonX65/wifienterprise/station"
	"github.com/RacoonX65/wifienterprise/wifidb"
	"github.com/gorilla/websocket"
)

type networkResponse struct {
	State   string   `json:"state"`
	Ssid    string   `json:"ssid,omitempty"`
	Status  string   `json:"status"`
	IP      string   `json:"ip,omitempty"`
	RSSI    int      `json:"rssi"`
	MAC     string   `json:"mac,omitempty"`
	Gateway string   `json:"gateway,omitempty"`
	DNS     []string `json:"dns,omitempty"`
}

func networkResponseFromStatus(status *station.NetworkStatus) *networkResponse {
	res := &networkResponse{
		State:  status.State.String(),
		Ssid:   status.Ssid,
		Status: status.Status.String(),
		RSSI:   status.RSSI,
	}

	if status.IP != nil {
		res.IP = status.IP.String()
	}

	if status.MAC != nil {
		res.MAC = status.MAC.String()
	}

	if status.Gateway != nil {
		res.Gateway = status.Gateway.String()
	}

	for _, server := range status.DNS {
		res.DNS = append(res.DNS, server.String())
	}

	return res
}

func (a *Api) handleGetNetwork() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a.jsonResponse(w, networkResponseFromStatus(a.station.NetworkStatus()), http.StatusOK)
	}
}

func (a *Api) handleDeleteNetwork() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := a.station.Disconnect(); err != nil {
			a.jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}

		a.jsonResponse(w, networkResponseFromStatus(a.station.NetworkStatus()), http.StatusOK)
	}
}

type postNetworksRequest struct {
	Ssid     string `json:"ssid"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (a *Api) handlePostNetworks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := postNetworksRequest{}
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			a.jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}

		if req.Ssid == "" || req.Username == "" || req.Password == "" {
			a.jsonError(w, "ssid, username and password are required", http.StatusBadRequest)
			return
		}

		err = a.station.Connect(&wifidb.Connection{
			Ssid:     req.Ssid,
			Username: req.Username,
			Password: req.Password,
		})
		if err != nil {
			a.jsonError(w, err.Error(), http.StatusBadGateway)
			return
		}

		a.jsonResponse(w, networkResponseFromStatus(a.station.NetworkStatus()), http.StatusOK)
	}
}

type scannedNetworkResponse struct {
	Ssid  string `json:"ssid"`
	Bssid string `json:"bssid"`
	RSSI  int    `json:"rssi"`
}

func (a *Api) handleGetNetworks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		networks, err := a.station.ListNetworks()
		if err != nil {
			a.jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}

		res := []scannedNetworkResponse{}

		for _, network := range networks {
			res = append(res, scannedNetworkResponse{
				Ssid:  network.Ssid,
				Bssid: network.Bssid,
				RSSI:  network.RSSI,
			})
		}

		a.jsonResponse(w, res, http.StatusOK)
	}
}

type networkEvent struct {
	State  string    `json:"state"`
	Ssid   string    `json:"ssid,omitempty"`
	IP     string    `json:"ip,omitempty"`
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func (a *Api) handleGetNetworkEvents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			a.log.Errorf("Could not upgrade connection: %v", err)
			return
		}

		defer func() {
			if err := conn.Close(); err != nil {
				a.log.Warnf("Could not close websocket: %v", err)
			}
		}()

		client := a.station.SubscribeUpdates()
		defer client.Cancel()

		// Drain control frames so close messages are processed.
		go func() {
			for {
				if _, _, err := conn.NextReader(); err != nil {
					break
				}
			}
		}()

		for update := range client.Updates {
			event := &networkEvent{
				State:  update.State.String(),
				Ssid:   update.Ssid,
				Status: update.Status.String(),
				Time:   update.Time,
			}

			if update.IP != nil {
				event.IP = update.IP.String()
			}

			if err := conn.WriteJSON(event); err != nil {
				a.log.Debugf("Stopping event stream: %v", err)
				return
			}
		}
	}
}
