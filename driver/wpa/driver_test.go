package wpa

import (
	"testing"

	"github.com/RacoonX65/wifienterprise/driver"
)

func TestStatusFromState(t *testing.T) {
	cases := map[string]driver.Status{
		"completed":          driver.StatusConnected,
		"disconnected":       driver.StatusDisconnected,
		"inactive":           driver.StatusDisconnected,
		"interface_disabled": driver.StatusDisconnected,
		"scanning":           driver.StatusIdle,
		"associating":        driver.StatusIdle,
		"4way_handshake":     driver.StatusIdle,
		"something_else":     driver.StatusIdle,
	}

	for state, want := range cases {
		if got := statusFromState(state); got != want {
			t.Errorf("Incorrect status for state %v. got: %v, want: %v", state, got, want)
		}
	}
}
