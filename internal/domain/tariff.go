package domain

import (
	"time"
)

// Tariff is the pricing applied to sessions at the locations referencing it.
type Tariff struct {
	ID               string    `json:"id" gorm:"primaryKey"`
	Name             string    `json:"name"`
	Currency         string    `json:"currency"`
	PricePerKWh      float64   `json:"price_per_kwh"`
	IdleFeePerMinute float64   `json:"idle_fee_per_minute"`
	Active           bool      `json:"active" gorm:"default:true"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
