package entity

import "time"

// Tipos de contraparte.
const (
	PartyTypeBusiness   = "business"
	PartyTypeIndividual = "individual"
)

// Party representa la contraparte comercial de un documento (comprador).
// NetworkRegistrationID no vacío implica que está registrada en la red de
// intercambio; los identificadores de ruteo se resuelven en cada envío,
// nunca se persisten.
type Party struct {
	ID                    string
	UserID                string
	Name                  string
	Type                  string // business | individual
	Street                string
	City                  string
	Zip                   string
	CountryCode           string // ISO 3166-1 alfa-2
	VATNumber             string
	Email                 string
	NetworkRegistrationID string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
