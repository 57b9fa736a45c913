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

var _ repository.PartyRepository = (*PartyRepo)(nil)

// PartyRepo implementación de PartyRepository.
type PartyRepo struct {
	q Querier
}

// NewPartyRepository construye el adaptador.
func NewPartyRepository(q Querier) *PartyRepo {
	return &PartyRepo{q: q}
}

// Create persiste una contraparte.
func (r *PartyRepo) Create(party *entity.Party) error {
	if party.ID == "" {
		party.ID = uuid.New().String()
	}
	query := `
		INSERT INTO parties (id, user_id, name, type, street, city, zip, country_code, vat_number, email, network_registration_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		party.ID, party.UserID, party.Name, party.Type,
		nullIfEmpty(party.Street), nullIfEmpty(party.City), nullIfEmpty(party.Zip),
		nullIfEmpty(party.CountryCode), nullIfEmpty(party.VATNumber), nullIfEmpty(party.Email),
		nullIfEmpty(party.NetworkRegistrationID),
		party.CreatedAt, party.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert party: %w", err)
	}
	return nil
}

// Update actualiza todos los campos de la contraparte.
func (r *PartyRepo) Update(party *entity.Party) error {
	query := `
		UPDATE parties
		SET name                    = $2,
		    type                    = $3,
		    street                  = $4,
		    city                    = $5,
		    zip                     = $6,
		    country_code            = $7,
		    vat_number              = $8,
		    email                   = $9,
		    network_registration_id = $10,
		    updated_at              = $11
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		party.ID, party.Name, party.Type,
		nullIfEmpty(party.Street), nullIfEmpty(party.City), nullIfEmpty(party.Zip),
		nullIfEmpty(party.CountryCode), nullIfEmpty(party.VATNumber), nullIfEmpty(party.Email),
		nullIfEmpty(party.NetworkRegistrationID),
		party.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update party: %w", err)
	}
	return nil
}

// GetByID obtiene una contraparte por ID.
func (r *PartyRepo) GetByID(id string) (*entity.Party, error) {
	query := `
		SELECT id, user_id, name, type,
		       COALESCE(street, ''), COALESCE(city, ''), COALESCE(zip, ''),
		       COALESCE(country_code, ''), COALESCE(vat_number, ''), COALESCE(email, ''),
		       COALESCE(network_registration_id, ''),
		       created_at, updated_at
		FROM parties WHERE id = $1`
	var p entity.Party
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.UserID, &p.Name, &p.Type,
		&p.Street, &p.City, &p.Zip,
		&p.CountryCode, &p.VATNumber, &p.Email,
		&p.NetworkRegistrationID,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get party: %w", err)
	}
	return &p, nil
}

// ListByUser contrapartes del usuario ordenadas por nombre.
func (r *PartyRepo) ListByUser(userID string) ([]*entity.Party, error) {
	query := `
		SELECT id, user_id, name, type,
		       COALESCE(street, ''), COALESCE(city, ''), COALESCE(zip, ''),
		       COALESCE(country_code, ''), COALESCE(vat_number, ''), COALESCE(email, ''),
		       COALESCE(network_registration_id, ''),
		       created_at, updated_at
		FROM parties WHERE user_id = $1 ORDER BY name`
	rows, err := r.q.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("list parties: %w", err)
	}
	defer rows.Close()
	var list []*entity.Party
	for rows.Next() {
		var p entity.Party
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.Name, &p.Type,
			&p.Street, &p.City, &p.Zip,
			&p.CountryCode, &p.VATNumber, &p.Email,
			&p.NetworkRegistrationID,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan party: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
