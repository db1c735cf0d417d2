package model

// SystemStatus describes the state of the store behind a healthy service.
type SystemStatus struct {
	SchemaVersion int64
	Orders        int64
	Prices        int64
}
