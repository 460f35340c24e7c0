package wifidb

import (
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Could not open database: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Could not close database: %v", err)
		}
	})

	return db
}

func TestConnectionRoundTrip(t *testing.T) {
	db := openTestDB(t)

	if err := db.SetConnection(&Connection{
		Ssid:     "Corp",
		Username: "alice",
		Password: "secret",
	}); err != nil {
		t.Fatalf("Could not save connection: %v", err)
	}

	connection, err := db.GetConnection()
	if err != nil {
		t.Fatalf("Could not get connection: %v", err)
	}

	if connection == nil {
		t.Fatal("Expected a saved connection.")
	}

	if connection.Ssid != "Corp" || connection.Username != "alice" || connection.Password != "secret" {
		t.Errorf("Incorrect connection. got: %+v", connection)
	}
}

func TestGetConnectionWhenNoneSaved(t *testing.T) {
	db := openTestDB(t)

	connection, err := db.GetConnection()
	if err != nil {
		t.Fatalf("Could not get connection: %v", err)
	}

	if connection != nil {
		t.Errorf("Expected no connection, got: %+v", connection)
	}
}

func TestForgetConnection(t *testing.T) {
	db := openTestDB(t)

	if err := db.SetConnection(&Connection{Ssid: "Corp"}); err != nil {
		t.Fatalf("Could not save connection: %v", err)
	}

	if err := db.SetConnection(nil); err != nil {
		t.Fatalf("Could not forget connection: %v", err)
	}

	connection, err := db.GetConnection()
	if err != nil {
		t.Fatalf("Could not get connection: %v", err)
	}

	if connection != nil {
		t.Errorf("Expected the connection to be forgotten, got: %+v", connection)
	}
}

func TestNameRoundTrip(t *testing.T) {
	db := openTestDB(t)

	if name, err := db.GetName(); err != nil || name != "" {
		t.Fatalf("Expected no name initially. got: %v, err: %v", name, err)
	}

	if err := db.SetName("lab-sensor-3"); err != nil {
		t.Fatalf("Could not save name: %v", err)
	}

	name, err := db.GetName()
	if err != nil {
		t.Fatalf("Could not get name: %v", err)
	}

	if name != "lab-sensor-3" {
		t.Errorf("Incorrect name. got: %v, want: lab-sensor-3", name)
	}
}
