package wpa

import (
	"github.com/go-errors/errors"
	"github.com/godbus/dbus/v5"
)

type Interface struct {
	wpa *Wpa
	obj dbus.BusObject
}

func (i *Interface) Scan() error {
	call := i.obj.Call("fi.w1.wpa_supplicant1.Interface.Scan", 0, map[string]interface{}{
		"Type": "active",
	})
	if call.Err != nil {
		return errors.Errorf("could not scan: %v", call.Err)
	}

	return nil
}

type ScanDoneClient struct {
	ScanDone <-chan bool
	Cancel   func()
}

func (i *Interface) ScanDone() (*ScanDoneClient, error) {
	changeChan := make(chan bool)
	signalChan := make(chan *dbus.Signal)

	client := &ScanDoneClient{
		ScanDone: changeChan,
		Cancel: func() {
			i.wpa.conn.RemoveSignal(signalChan)

			_ = i.wpa.conn.BusObject().RemoveMatchSignal("fi.w1.wpa_supplicant1.Interface", "ScanDone", dbus.WithMatchObjectPath(i.obj.Path()))

			close(signalChan)
			close(changeChan)
		},
	}

	go func() {
		i.wpa.conn.Signal(signalChan)

		for {
			select {
			case signal, ok := <-signalChan:
				if !ok {
					return
				}

				if signal.Name == "fi.w1.wpa_supplicant1.Interface.ScanDone" && signal.Path == i.obj.Path() {
					changeChan <- signal.Body[0].(bool)
				}
			}
		}
	}()

	call := i.wpa.conn.BusObject().AddMatchSignal("fi.w1.wpa_supplicant1.Interface", "ScanDone", dbus.WithMatchObjectPath(i.obj.Path()))
	if call.Err != nil {
		return nil, errors.Errorf("could not add signal: %v", call.Err)
	}

	return client, nil
}

func (i *Interface) BSSs() ([]*BSS, error) {
	v, err := i.obj.GetProperty("fi.w1.wpa_supplicant1.Interface.BSSs")
	if err != nil {
		return nil, errors.Errorf("could not get bsss: %v", err)
	}

	objectPaths, ok := v.Value().([]dbus.ObjectPath)
	if !ok {
		return nil, errors.Errorf("could not convert result: %v", err)
	}

	var bsss []*BSS

	for _, objectPath := range objectPaths {
		bsss = append(bsss, &BSS{
			obj: i.wpa.conn.Object(busName, objectPath),
		})
	}

	return bsss, nil
}

// State returns the raw supplicant state string, such as "completed",
// "disconnected" or "associating".
func (i *Interface) State() (string, error) {
	v, err := i.obj.GetProperty("fi.w1.wpa_supplicant1.Interface.State")
	if err != nil {
		return "", errors.Errorf("could not get state: %v", err)
	}

	state, ok := v.Value().(string)
	if !ok {
		return "", errors.Errorf("could not convert state: %v", v)
	}

	return state, nil
}

// SignalPoll returns the signal strength of the current association in dBm.
func (i *Interface) SignalPoll() (int, error) {
	call := i.obj.Call("fi.w1.wpa_supplicant1.Interface.SignalPoll", 0)
	if call.Err != nil {
		return 0, errors.Errorf("could not poll signal: %v", call.Err)
	}

	props, ok := call.Body[0].(map[string]dbus.Variant)
	if !ok {
		return 0, errors.Errorf("could not convert output")
	}

	val, ok := props["rssi"]
	if !ok {
		return 0, errors.Errorf("mandatory property rssi was missing")
	}

	rssi, ok := val.Value().(int32)
	if !ok {
		return 0, errors.Errorf("could not convert rssi: %v", val)
	}

	return int(rssi), nil
}

func (i *Interface) Disconnect() error {
	call := i.obj.Call("fi.w1.wpa_supplicant1.Interface.Disconnect", 0)
	if call.Err != nil {
		// Disconnecting while not connected is not an error worth
		// surfacing; the interface ends up in the desired state.
		if dbusErr, ok := call.Err.(dbus.Error); ok && dbusErr.Name == "fi.w1.wpa_supplicant1.Interface.NotConnected" {
			return nil
		}

		return errors.Errorf("could not disconnect: %v", call.Err)
	}

	return nil
}

// AddEnterpriseNetwork installs a WPA2-Enterprise (EAP-PEAP) network
// block. Authentication is carried by the EAP exchange, so no
// passphrase is involved.
func (i *Interface) AddEnterpriseNetwork(ssid string, identity string, username string, password string) (*Network, error) {
	args := map[string]interface{}{
		"ssid":     ssid,
		"key_mgmt": "WPA-EAP",
		"eap":      "PEAP",
		"identity": identity,
		"password": password,
		"phase2":   "auth=MSCHAPV2",
	}

	// wpa_supplicant carries the inner username in the identity when
	// no anonymous outer identity is configured.
	if username != identity {
		args["anonymous_identity"] = identity
		args["identity"] = username
	}

	return i.addNetwork(args)
}

// AddNetwork installs a pre-shared-key network block, or an open one
// when psk is empty.
func (i *Interface) AddNetwork(ssid string, psk string) (*Network, error) {
	args := map[string]interface{}{}

	if psk != "" {
		args["ssid"] = ssid
		args["psk"] = psk
	} else {
		args["ssid"] = ssid
		args["key_mgmt"] = "NONE"
	}

	return i.addNetwork(args)
}

func (i *Interface) addNetwork(args map[string]interface{}) (*Network, error) {
	call := i.obj.Call("fi.w1.wpa_supplicant1.Interface.AddNetwork", 0, args)
	if call.Err != nil {
		return nil, errors.Errorf("could not call: %v", call.Err)
	}

	var objPath dbus.ObjectPath
	err := call.Store(&objPath)
	if err != nil {
		return nil, errors.Errorf("could not store value: %v", err)
	}

	netObj := i.wpa.conn.Object(busName, objPath)

	return &Network{
		wpa: i.wpa,
		obj: netObj,
	}, nil
}

// SelectNetwork makes the supplicant associate using the given network
// block, disabling all others.
func (i *Interface) SelectNetwork(net *Network) error {
	call := i.obj.Call("fi.w1.wpa_supplicant1.Interface.SelectNetwork", 0, net.obj.Path())
	if call.Err != nil {
		return errors.Errorf("could not select network: %v", call.Err)
	}

	return nil
}

func (i *Interface) RemoveNetwork(net *Network) error {
	call := i.obj.Call("fi.w1.wpa_supplicant1.Interface.RemoveNetwork", 0, net.obj.Path())
	if call.Err != nil {
		return errors.Errorf("could not remove network: %v", call.Err)
	}

	return nil
}

func (i *Interface) RemoveAllNetworks() error {
	call := i.obj.Call("fi.w1.wpa_supplicant1.Interface.RemoveAllNetworks", 0)
	if call.Err != nil {
		return errors.Errorf("could not remove all networks: %v", call.Err)
	}

	return nil
}
