package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/facturia/facturia-api/internal/domain/entity"
	"github.com/facturia/facturia-api/internal/domain/repository"
)

var _ repository.IssuerProfileRepository = (*IssuerRepo)(nil)

// IssuerRepo implementación de IssuerProfileRepository. Un perfil por usuario.
type IssuerRepo struct {
	q Querier
}

// NewIssuerRepository construye el adaptador.
func NewIssuerRepository(q Querier) *IssuerRepo {
	return &IssuerRepo{q: q}
}

// GetByUserID obtiene el perfil del emisor del usuario.
func (r *IssuerRepo) GetByUserID(userID string) (*entity.IssuerProfile, error) {
	query := `
		SELECT id, user_id, name,
		       COALESCE(street, ''), COALESCE(city, ''), COALESCE(zip, ''),
		       COALESCE(country_code, ''), COALESCE(vat_number, ''), COALESCE(iban, ''),
		       COALESCE(email, ''), COALESCE(network_registration_id, ''),
		       COALESCE(prefix, ''), numbering_mode, COALESCE(terms_url, ''),
		       created_at, updated_at
		FROM issuer_profiles WHERE user_id = $1`
	var i entity.IssuerProfile
	err := r.q.QueryRow(context.Background(), query, userID).Scan(
		&i.ID, &i.UserID, &i.Name,
		&i.Street, &i.City, &i.Zip,
		&i.CountryCode, &i.VATNumber, &i.IBAN,
		&i.Email, &i.NetworkRegistrationID,
		&i.Prefix, &i.NumberingMode, &i.TermsURL,
		&i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get issuer profile: %w", err)
	}
	return &i, nil
}

// Upsert crea o reemplaza el perfil (user_id es único).
func (r *IssuerRepo) Upsert(profile *entity.IssuerProfile) error {
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	query := `
		INSERT INTO issuer_profiles (id, user_id, name, street, city, zip, country_code, vat_number, iban, email, network_registration_id, prefix, numbering_mode, terms_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, now(), $15)
		ON CONFLICT (user_id) DO UPDATE SET
			name                    = EXCLUDED.name,
			street                  = EXCLUDED.street,
			city                    = EXCLUDED.city,
			zip                     = EXCLUDED.zip,
			country_code            = EXCLUDED.country_code,
			vat_number              = EXCLUDED.vat_number,
			iban                    = EXCLUDED.iban,
			email                   = EXCLUDED.email,
			network_registration_id = EXCLUDED.network_registration_id,
			prefix                  = EXCLUDED.prefix,
			numbering_mode          = EXCLUDED.numbering_mode,
			terms_url               = EXCLUDED.terms_url,
			updated_at              = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query,
		profile.ID, profile.UserID, profile.Name,
		nullIfEmpty(profile.Street), nullIfEmpty(profile.City), nullIfEmpty(profile.Zip),
		nullIfEmpty(profile.CountryCode), nullIfEmpty(profile.VATNumber), nullIfEmpty(profile.IBAN),
		nullIfEmpty(profile.Email), nullIfEmpty(profile.NetworkRegistrationID),
		nullIfEmpty(profile.Prefix), profile.NumberingMode, nullIfEmpty(profile.TermsURL),
		profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert issuer profile: %w", err)
	}
	return nil
}
