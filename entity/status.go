package entity

import (
	"encoding/json"
)

const (
	StatusNotInstalled = 20
	StatusSuspended    = 30
)

// StatusResponse is either one of the local status codes or the daemon's
// details passed through untouched.
type StatusResponse struct {
	Code    int
	Details json.RawMessage
}

func NotInstalledStatus() *StatusResponse {
	return &StatusResponse{Code: StatusNotInstalled}
}

func SuspendedStatus() *StatusResponse {
	return &StatusResponse{Code: StatusSuspended}
}

func LiveStatus(details json.RawMessage) *StatusResponse {
	return &StatusResponse{Details: details}
}

// IsLive reports whether the status came from the daemon.
func (r *StatusResponse) IsLive() bool {
	return r.Details != nil
}

func (r StatusResponse) MarshalJSON() ([]byte, error) {
	if r.Details != nil {
		return r.Details, nil
	}
	return json.Marshal(struct {
		Status int `json:"status"`
	}{Status: r.Code})
}
