package domain

import (
	"time"
)

// PartyRole is the OCPI network role of a roaming partner.
type PartyRole string

const (
	PartyRoleCPO  PartyRole = "CPO"
	PartyRoleEMSP PartyRole = "EMSP"
)

type PartyStatus string

const (
	PartyStatusPending    PartyStatus = "Pending"
	PartyStatusRegistered PartyStatus = "Registered"
	PartyStatusSuspended  PartyStatus = "Suspended"
)

// Party is a roaming partner platform we exchange OCPI credentials with.
type Party struct {
	ID             string      `json:"id" gorm:"primaryKey"`
	PartyID        string      `json:"party_id" gorm:"uniqueIndex:idx_party_country"` // 3-letter OCPI party id
	CountryCode    string      `json:"country_code" gorm:"uniqueIndex:idx_party_country"`
	Name           string      `json:"name"`
	Role           PartyRole   `json:"role"`
	EndpointURL    string      `json:"endpoint_url"` // partner's OCPI versions endpoint
	TokenOut       string      `json:"-"`            // token we present to the partner
	TokenIn        string      `json:"-"`            // token the partner presents to us
	Status         PartyStatus `json:"status"`
	LastRegistered *time.Time  `json:"last_registered,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}
