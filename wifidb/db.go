// Package wifidb persistently stores the daemon's connection settings.
package wifidb

import (
	"os"
	"path/filepath"

	"github.com/go-errors/errors"
	"go.etcd.io/bbolt"
)

const dbFilename = "wifi.db"

var settingsBucket = []byte("settings")

var connectionKey = []byte("connection")
var nameKey = []byte("name")

type DB struct {
	*bbolt.DB
}

// Open opens or creates the settings database inside dataDir.
func Open(dataDir string) (*DB, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, errors.Errorf("could not create data directory %v: %v", dataDir, err)
	}

	path := filepath.Join(dataDir, dbFilename)

	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, errors.Errorf("could not open %v: %v", path, err)
	}

	return &DB{db}, nil
}
