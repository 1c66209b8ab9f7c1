package domain

import (
	"time"
)

type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "Active"
	SessionStatusCompleted SessionStatus = "Completed"
	SessionStatusFaulted   SessionStatus = "Faulted"
)

// ChargingSession is one metered charging event. Energy values are in Wh as
// reported by the charge point; the snapshot layer converts to kWh.
type ChargingSession struct {
	ID            string        `json:"id" gorm:"primaryKey"`
	ChargePointID string        `json:"charge_point_id" gorm:"index"`
	ConnectorID   int           `json:"connector_id"`
	UserID        string        `json:"user_id" gorm:"index"`
	IdTag         string        `json:"id_tag"` // RFID or other auth token
	StartTime     time.Time     `json:"start_time"`
	EndTime       *time.Time    `json:"end_time,omitempty"`
	MeterStart    int           `json:"meter_start"` // Wh
	MeterStop     int           `json:"meter_stop"`  // Wh
	Status        SessionStatus `json:"status"`
	Cost          float64       `json:"cost"`
	Currency      string        `json:"currency"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// EnergyKWh returns the delivered energy in kWh.
func (s ChargingSession) EnergyKWh() float64 {
	if s.MeterStop <= s.MeterStart {
		return 0
	}
	return float64(s.MeterStop-s.MeterStart) / 1000.0
}

// DurationHours returns the session length in hours, zero while still active.
func (s ChargingSession) DurationHours() float64 {
	if s.EndTime == nil {
		return 0
	}
	return s.EndTime.Sub(s.StartTime).Hours()
}
