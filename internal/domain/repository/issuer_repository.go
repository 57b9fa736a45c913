package repository

import "github.com/facturia/facturia-api/internal/domain/entity"

// IssuerProfileRepository puerto de persistencia para el perfil del emisor.
type IssuerProfileRepository interface {
	GetByUserID(userID string) (*entity.IssuerProfile, error)
	Upsert(profile *entity.IssuerProfile) error
}
