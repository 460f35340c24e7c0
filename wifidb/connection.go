package wifidb

// Connection holds the credentials of the last successfully joined
// enterprise network so the daemon can reconnect after a restart.
type Connection struct {
	Ssid     string `json:"ssid"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// SetConnection saves the connection. Passing nil forgets it.
func (db *DB) SetConnection(connection *Connection) error {
	return db.setJSON(settingsBucket, connectionKey, connection)
}

// GetConnection returns the saved connection, or nil when none exists.
func (db *DB) GetConnection() (*Connection, error) {
	connection := &Connection{}

	found, err := db.getJSON(settingsBucket, connectionKey, connection)
	if err != nil {
		return nil, err
	}

	if !found {
		return nil, nil
	}

	return connection, nil
}
