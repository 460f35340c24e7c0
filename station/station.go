// Package station is the central controller of the daemon. It owns the
// connection manager, keeps the device associated with the saved
// enterprise network and fans out connectivity transitions.
package station

import (
	"context"
	"sync"
	"time"

	"github.com/RacoonX65/wifienterprise/driver"
	"github.com/RacoonX65/wifienterprise/enterprise"
	"github.com/RacoonX65/wifienterprise/wifidb"
	backoff "github.com/cenkalti/backoff/v4"
	"github.com/go-errors/errors"
)

// DefaultCheckInterval is how often the watchdog inspects the live
// connection state when no override is configured.
const DefaultCheckInterval = 30 * time.Second

type Config struct {
	Manager *enterprise.Manager
	Driver  driver.Driver
	DB      *wifidb.DB
	Logger  Logger
	// CheckInterval overrides the watchdog interval when non-zero.
	CheckInterval time.Duration
}

type Station struct {
	manager       *enterprise.Manager
	driver        driver.Driver
	db            *wifidb.DB
	log           Logger
	checkInterval time.Duration
	done          chan struct{}

	clientMtx    sync.Mutex
	clients      map[uint32]*UpdatesClient
	nextClientID uint32

	mtx           sync.Mutex
	state         State
	ssid          string
	cancelAttempt context.CancelFunc
}

func New(config *Config) *Station {
	station := &Station{
		manager:       config.Manager,
		driver:        config.Driver,
		db:            config.DB,
		checkInterval: config.CheckInterval,
		done:          make(chan struct{}),
		clients:       make(map[uint32]*UpdatesClient),
	}

	if config.Logger != nil {
		station.log = config.Logger
	} else {
		station.log = noopLogger{}
	}

	if station.checkInterval == 0 {
		station.checkInterval = DefaultCheckInterval
	}

	return station
}

// Run blocks until Shutdown. It attempts the saved connection once at
// startup, then periodically checks the live state and re-attempts
// with exponential backoff after a detected disconnection. Retry
// policy lives here, deliberately outside the connection manager.
func (s *Station) Run() error {
	connection, err := s.db.GetConnection()
	if err != nil {
		s.log.Warnf("Could not retrieve saved connection: %v", err)
	}

	if connection != nil {
		s.log.Infof("Will attempt connecting to %v.", connection.Ssid)

		if err := s.connect(connection); err != nil {
			s.log.Warnf("Could not connect to saved network: %v", err)
		}
	} else {
		s.log.Infof("No saved connection available. Not connecting.")
	}

	retry := backoff.NewExponentialBackOff()
	retry.InitialInterval = s.checkInterval
	retry.MaxInterval = 8 * s.checkInterval
	// reconnecting never gives up
	retry.MaxElapsedTime = 0
	retry.Reset()

	timer := time.NewTimer(s.checkInterval)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			if s.manager.IsConnected() {
				retry.Reset()
				s.publish(Online, s.currentSsid())
				timer.Reset(s.checkInterval)
				continue
			}

			s.publish(Offline, "")

			connection, err := s.db.GetConnection()
			if err != nil {
				s.log.Warnf("Could not retrieve saved connection: %v", err)
			}

			if connection != nil {
				if err := s.connect(connection); err != nil {
					s.log.Warnf("Could not reconnect to %v: %v", connection.Ssid, err)
				}
			}

			timer.Reset(retry.NextBackOff())

		case <-s.done:
			return nil
		}
	}
}

// Connect attempts the connection and persists it on success so the
// watchdog and the next daemon start can re-establish it.
func (s *Station) Connect(connection *wifidb.Connection) error {
	if err := s.connect(connection); err != nil {
		return errors.Errorf("could not connect to %v: %v", connection.Ssid, err)
	}

	if err := s.db.SetConnection(connection); err != nil {
		s.log.Errorf("Could not save connection: %v", err)
	}

	return nil
}

// Disconnect tears the association down and forgets the saved
// connection, so the watchdog won't immediately re-establish it.
func (s *Station) Disconnect() error {
	if err := s.db.SetConnection(nil); err != nil {
		s.log.Errorf("Could not forget saved connection: %v", err)
	}

	if err := s.manager.Disconnect(); err != nil {
		return errors.Errorf("could not disconnect: %v", err)
	}

	s.publish(Offline, "")

	return nil
}

func (s *Station) connect(connection *wifidb.Connection) error {
	s.publish(Connecting, connection.Ssid)

	ctx, cancel := context.WithCancel(context.Background())

	s.mtx.Lock()
	s.cancelAttempt = cancel
	s.mtx.Unlock()

	defer func() {
		cancel()

		s.mtx.Lock()
		s.cancelAttempt = nil
		s.mtx.Unlock()
	}()

	if err := s.manager.Connect(ctx, connection.Ssid, connection.Username, connection.Password); err != nil {
		s.publish(Offline, "")
		return err
	}

	s.publish(Online, connection.Ssid)

	return nil
}

func (s *Station) currentSsid() string {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.ssid
}

// Shutdown aborts any in-flight connection attempt and stops Run.
func (s *Station) Shutdown() {
	s.mtx.Lock()
	if s.cancelAttempt != nil {
		s.cancelAttempt()
	}
	s.mtx.Unlock()

	close(s.done)
}
