// Package api exposes the daemon's HTTP control surface.
package api

import (
	"net"
	"net/http"

	"github.com/RacoonX65/wifienterprise/station"
	"github.com/go-errors/errors"
	"github.com/gorilla/mux"
)

type Config struct {
	Station *station.Station
	Log     Logger
}

type Api struct {
	station *station.Station
	router  *mux.Router
	log     Logger
}

func New(config *Config) *Api {
	api := &Api{
		station: config.Station,
		router:  mux.NewRouter(),
	}

	if config.Log != nil {
		api.log = config.Log
	} else {
		api.log = noopLogger{}
	}

	api.router.Handle("/api/v1/network", api.handleGetNetwork()).Methods(http.MethodGet)
	api.router.Handle("/api/v1/network", api.handleDeleteNetwork()).Methods(http.MethodDelete)
	api.router.Handle("/api/v1/network/events", api.handleGetNetworkEvents()).Methods(http.MethodGet)

	api.router.Handle("/api/v1/networks", api.handleGetNetworks()).Methods(http.MethodGet)
	api.router.Handle("/api/v1/networks", api.handlePostNetworks()).Methods(http.MethodPost)

	api.router.Handle("/api/v1/name", api.handleGetName()).Methods(http.MethodGet)
	api.router.Handle("/api/v1/name", api.handlePutName()).Methods(http.MethodPut)

	return api
}

func (a *Api) Serve(l net.Listener) error {
	err := http.Serve(l, a.router)
	if err != nil {
		return errors.Errorf("unable to serve api: %v", err)
	}

	return nil
}
