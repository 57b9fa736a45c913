package dto

// PartyRequest body para crear/actualizar una contraparte.
type PartyRequest struct {
	Name                  string `json:"name"`
	Type                  string `json:"type"` // business | individual
	Street                string `json:"street,omitempty"`
	City                  string `json:"city,omitempty"`
	Zip                   string `json:"zip,omitempty"`
	CountryCode           string `json:"country_code,omitempty"`
	VATNumber             string `json:"vat_number,omitempty"`
	Email                 string `json:"email,omitempty"`
	NetworkRegistrationID string `json:"network_registration_id,omitempty"`
}

// PartyResponse contraparte en respuestas.
type PartyResponse struct {
	ID                    string `json:"id"`
	Name                  string `json:"name"`
	Type                  string `json:"type"`
	Street                string `json:"street,omitempty"`
	City                  string `json:"city,omitempty"`
	Zip                   string `json:"zip,omitempty"`
	CountryCode           string `json:"country_code,omitempty"`
	VATNumber             string `json:"vat_number,omitempty"`
	Email                 string `json:"email,omitempty"`
	NetworkRegistrationID string `json:"network_registration_id,omitempty"`
}

// IssuerProfileRequest body para actualizar el perfil del emisor.
type IssuerProfileRequest struct {
	Name                  string `json:"name"`
	Street                string `json:"street,omitempty"`
	City                  string `json:"city,omitempty"`
	Zip                   string `json:"zip,omitempty"`
	CountryCode           string `json:"country_code,omitempty"`
	VATNumber             string `json:"vat_number,omitempty"`
	IBAN                  string `json:"iban,omitempty"`
	Email                 string `json:"email,omitempty"`
	NetworkRegistrationID string `json:"network_registration_id,omitempty"`
	Prefix                string `json:"prefix"`
	NumberingMode         string `json:"numbering_mode"` // incremental | dateBased
	TermsURL              string `json:"terms_url,omitempty"`
}

// IssuerProfileResponse perfil del emisor en respuestas.
type IssuerProfileResponse struct {
	Name                  string `json:"name"`
	Street                string `json:"street,omitempty"`
	City                  string `json:"city,omitempty"`
	Zip                   string `json:"zip,omitempty"`
	CountryCode           string `json:"country_code,omitempty"`
	VATNumber             string `json:"vat_number,omitempty"`
	IBAN                  string `json:"iban,omitempty"`
	Email                 string `json:"email,omitempty"`
	NetworkRegistrationID string `json:"network_registration_id,omitempty"`
	Prefix                string `json:"prefix"`
	NumberingMode         string `json:"numbering_mode"`
	TermsURL              string `json:"terms_url,omitempty"`
}
