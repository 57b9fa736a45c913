package entity

import "time"

// Políticas de numeración del emisor.
const (
	NumberingIncremental = "incremental"
	NumberingDateBased   = "dateBased"
)

// IssuerProfile datos propios del negocio emisor: dirección fiscal, IBAN,
// registro en la red de intercambio y política de numeración.
type IssuerProfile struct {
	ID                    string
	UserID                string
	Name                  string
	Street                string
	City                  string
	Zip                   string
	CountryCode           string
	VATNumber             string
	IBAN                  string
	Email                 string
	NetworkRegistrationID string
	Prefix                string // prefijo de numeración (ej. "INV")
	NumberingMode         string // incremental | dateBased
	TermsURL              string // condiciones generales enlazadas en el email
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
