// Package wpa talks to wpa_supplicant through its D-Bus API and
// implements the platform driver on top of it.
package wpa

import (
	"github.com/go-errors/errors"
	"github.com/godbus/dbus/v5"
)

const busName = "fi.w1.wpa_supplicant1"
const busPath = "/fi/w1/wpa_supplicant1"

type Wpa struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

func New() *Wpa {
	return &Wpa{}
}

func (w *Wpa) Start() error {
	conn, err := dbus.SystemBus()
	if err != nil {
		return errors.Errorf("could not connect to system bus: %v", err)
	}

	w.conn = conn
	w.obj = conn.Object(busName, busPath)

	return nil
}

func (w *Wpa) Stop() error {
	// The system bus connection is shared, so there is nothing to
	// tear down here.
	w.conn = nil
	w.obj = nil

	return nil
}

func (w *Wpa) GetInterface(name string) (*Interface, error) {
	call := w.obj.Call("fi.w1.wpa_supplicant1.GetInterface", 0, name)
	if call.Err != nil {
		return nil, errors.Errorf("could not get interface %v: %v", name, call.Err)
	}

	var objPath dbus.ObjectPath
	err := call.Store(&objPath)
	if err != nil {
		return nil, errors.Errorf("could not store value: %v", err)
	}

	return &Interface{
		wpa: w,
		obj: w.conn.Object(busName, objPath),
	}, nil
}
