package billing

import (
	"context"
	"strings"

	"github.com/facturia/facturia-api/internal/domain/entity"
)

// DefaultFallbackCountry país usado para el esquema de fallback cuando la
// dirección de la contraparte no trae país.
const DefaultFallbackCountry = "BE"

// RoutingResolver resuelve los identificadores con los que la red rutea un
// documento hacia una contraparte.
type RoutingResolver struct {
	directory       NetworkDirectory
	fallbackCountry string
}

// NewRoutingResolver construye el resolver. fallbackCountry vacío usa BE.
func NewRoutingResolver(directory NetworkDirectory, fallbackCountry string) *RoutingResolver {
	if fallbackCountry == "" {
		fallbackCountry = DefaultFallbackCountry
	}
	return &RoutingResolver{directory: directory, fallbackCountry: fallbackCountry}
}

// Resolve consulta el directorio si la contraparte tiene registro; con uno o
// más identificadores publicados usa el primero. Sin identificadores (sin
// registro, o registro sin publicaciones) y siendo una empresa con número de
// IVA, sintetiza "<país>:VAT" + número. Si ninguna vía aplica devuelve slice
// vacío: el envío seguirá solo por email.
//
// Un error del directorio se propaga: el caller aborta la vía de red y cae a
// email reportándolo como networkError.
func (r *RoutingResolver) Resolve(ctx context.Context, party *entity.Party) ([]RoutingIdentifier, error) {
	if party.NetworkRegistrationID != "" {
		ids, err := r.directory.LookupIdentifiers(ctx, party.NetworkRegistrationID)
		if err != nil {
			return nil, err
		}
		if len(ids) > 0 {
			return ids[:1], nil
		}
	}
	if party.Type == entity.PartyTypeBusiness && strings.TrimSpace(party.VATNumber) != "" {
		country := party.CountryCode
		if country == "" {
			country = r.fallbackCountry
		}
		return []RoutingIdentifier{{Scheme: country + ":VAT", ID: party.VATNumber}}, nil
	}
	return nil, nil
}
