package main

import (
	"net"
	"net/http"
	"os"
	"os/signal"

	"github.com/RacoonX65/wifienterprise/api"
	"github.com/RacoonX65/wifienterprise/driver"
	"github.com/RacoonX65/wifienterprise/driver/wpa"
	"github.com/RacoonX65/wifienterprise/enterprise"
	"github.com/RacoonX65/wifienterprise/station"
	"github.com/RacoonX65/wifienterprise/wifidb"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	// Blank import to set up profiling HTTP handlers.
	_ "net/http/pprof"
)

var (
	// Commit stores the current commit hash of this build. This should be set using -ldflags during compilation.
	Commit string
	// Version stores the version string of this build. This should be set using -ldflags during compilation.
	Version string
	// Date stores the date of this build. This should be set using -ldflags during compilation.
	Date string
)

// wifidMain is the true entry point for the daemon. This is required since defers
// created in the top-level scope of a main method aren't executed if os.Exit() is called.
func wifidMain() error {
	log.SetOutput(os.Stdout)
	log.SetLevel(log.InfoLevel)

	// Load CLI configuration and defaults
	cfg, err := loadConfig()
	if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
		return nil
	} else if err != nil {
		return errors.Errorf("Failed parsing arguments: %v", err)
	}

	// Set logger into debug mode if called with --debug
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
		log.Info("Setting debug mode.")
	}

	log.Debug("Loaded config.")

	// Print version of the daemon
	log.Infof("Version %s (commit %s)", Version, Commit)
	log.Infof("Built on %s", Date)

	// Stop here if only version was requested
	if cfg.ShowVersion {
		return nil
	}

	if cfg.Profiling != nil && cfg.Profiling.Listen != "" {
		go func() {
			log.Infof("Starting profiling server on %v", cfg.Profiling.Listen)
			// Redirect the root path
			http.Handle("/", http.RedirectHandler("/debug/pprof", http.StatusSeeOther))
			// All other handlers are registered on DefaultServeMux through the import of pprof
			err := http.ListenAndServe(cfg.Profiling.Listen, nil)
			if err != nil {
				log.Errorf("Could not run profiler: %v", err)
			}
		}()
	}

	// wifi.db persistently stores the saved connection and settings
	db, err := wifidb.Open(cfg.DataDir)
	if err != nil {
		return errors.Errorf("Could not open wifi.db: %v", err)
	}

	log.Infof("Opened wifi.db")

	defer func() {
		err := db.Close()
		if err != nil {
			log.Errorf("Could not close wifi.db: %v", err)
		} else {
			log.Info("Closed wifi.db.")
		}
	}()

	// The platform driver, which owns the radio that all other
	// components talk through
	var d driver.Driver

	switch cfg.Driver {
	case "wpa":
		wpaDriver := wpa.NewDriver(&wpa.Config{
			Interface: cfg.Interface,
		})

		err = wpaDriver.Start()
		if err != nil {
			return errors.Errorf("Could not start wpa driver: %v", err)
		}

		defer func() {
			err := wpaDriver.Stop()
			if err != nil {
				log.Errorf("Could not properly stop wpa driver: %v", err)
			} else {
				log.Info("Stopped wpa driver.")
			}
		}()

		d = wpaDriver

		log.Infof("Created wpa_supplicant driver on %v.", cfg.Interface)
	case "mock":
		d = driver.NewMock()

		log.Info("Created a mock driver.")
	default:
		return errors.Errorf("Unknown driver type %v", cfg.Driver)
	}

	// The connection manager drives single association attempts
	manager := enterprise.New(&enterprise.Config{
		Driver:       d,
		Logger:       log.New().WithField("system", "enterprise"),
		SettleDelay:  cfg.Timing.SettleDelay,
		PollInterval: cfg.Timing.PollInterval,
		Timeout:      cfg.Timing.Timeout,
		Debug:        cfg.Debug,
	})

	log.Infof("Created connection manager.")

	// central controller for the connection lifecycle
	st := station.New(&station.Config{
		Manager:       manager,
		Driver:        d,
		DB:            db,
		Logger:        log.New().WithField("system", "station"),
		CheckInterval: cfg.CheckInterval,
	})

	log.Infof("Created station.")

	a := api.New(&api.Config{
		Station: st,
		Log:     log.New().WithField("system", "api"),
	})

	log.Infof("Created API.")

	lis, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return errors.Errorf("Could not listen on %v: %v", cfg.Listen, err)
	}

	defer func() {
		err := lis.Close()
		if err != nil {
			log.Errorf("Could not close listener: %v", err)
		}
	}()

	go func() {
		log.Infof("Serving API on %v", cfg.Listen)

		err := a.Serve(lis)
		if err != nil {
			log.Errorf("Could not serve api: %v", err)
		}
	}()

	// Handle interrupt signals correctly
	go func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, os.Interrupt)
		sig := <-signals
		log.Info(sig)
		log.Info("Received an interrupt, stopping station...")
		st.Shutdown()
	}()

	// blocks until the station is shut down
	err = st.Run()
	if err != nil {
		return errors.Errorf("Failed running station: %v", err)
	}

	// finish with no error
	return nil
}

func main() {
	// Call the "real" main in a nested manner so the defers will properly
	// be executed in the case of a graceful shutdown.
	if err := wifidMain(); err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
		} else {
			log.WithError(err).Println("Failed running wifienterprised.")
		}
		os.Exit(1)
	}
}
