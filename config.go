package main

import (
	"time"

	"github.com/jessevdk/go-flags"
)

type profilingConfig struct {
	Listen string `long:"listen" description:"Add an ip:port to listen for profiling connections"`
}

type timingConfig struct {
	SettleDelay  time.Duration `long:"settledelay" description:"Delay after the forced disconnect before the driver is reconfigured" default:"1s"`
	PollInterval time.Duration `long:"pollinterval" description:"Delay between connection status polls" default:"500ms"`
	Timeout      time.Duration `long:"timeout" description:"Overall connection attempt timeout" default:"20s"`
}

type config struct {
	ShowVersion   bool             `short:"v" long:"version" description:"Display version information and exit"`
	Debug         bool             `short:"d" long:"debug" description:"Start in debug mode"`
	DataDir       string           `long:"datadir" description:"Directory where the settings database is stored" default:"./data"`
	Driver        string           `long:"driver" description:"WiFi driver backend" choice:"wpa" choice:"mock" default:"wpa"`
	Interface     string           `long:"interface" description:"Wireless interface managed by wpa_supplicant" default:"wlan0"`
	Listen        string           `long:"listen" description:"ip:port for the control api" default:"127.0.0.1:9000"`
	CheckInterval time.Duration    `long:"checkinterval" description:"How often the live connection state is checked" default:"30s"`
	Timing        timingConfig     `group:"Timing" namespace:"timing"`
	Profiling     *profilingConfig `group:"Profiling" namespace:"profiling"`
}

func loadConfig() (*config, error) {
	cfg := config{}

	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.Parse(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
