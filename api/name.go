package api

import (
	"encoding/json"
	"net/http"
)

type nameResponse struct {
	Name string `json:"name"`
}

type putNameRequest struct {
	Name string `json:"name"`
}

func (a *Api) handleGetName() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, err := a.station.GetName()
		if err != nil {
			a.jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}

		a.jsonResponse(w, &nameResponse{Name: name}, http.StatusOK)
	}
}

func (a *Api) handlePutName() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := putNameRequest{}
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			a.jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}

		if err := a.station.SetName(req.Name); err != nil {
			a.jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}

		a.jsonResponse(w, &nameResponse{Name: req.Name}, http.StatusOK)
	}
}
