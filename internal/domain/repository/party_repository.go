package repository

import "github.com/facturia/facturia-api/internal/domain/entity"

// PartyRepository puerto de persistencia para contrapartes.
type PartyRepository interface {
	Create(party *entity.Party) error
	Update(party *entity.Party) error
	GetByID(id string) (*entity.Party, error)
	ListByUser(userID string) ([]*entity.Party, error)
}
