package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/facturia/facturia-api/internal/application/dto"
	"github.com/facturia/facturia-api/internal/domain"
	"github.com/facturia/facturia-api/internal/domain/entity"
	"github.com/facturia/facturia-api/internal/domain/repository"
)

// PartyUseCase CRUD de contrapartes del usuario.
type PartyUseCase struct {
	partyRepo repository.PartyRepository
}

// NewPartyUseCase construye el caso de uso.
func NewPartyUseCase(partyRepo repository.PartyRepository) *PartyUseCase {
	return &PartyUseCase{partyRepo: partyRepo}
}

// Create crea una contraparte.
func (uc *PartyUseCase) Create(ctx context.Context, userID string, in dto.PartyRequest) (*dto.PartyResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	partyType := in.Type
	if partyType == "" {
		partyType = entity.PartyTypeIndividual
	}
	if partyType != entity.PartyTypeBusiness && partyType != entity.PartyTypeIndividual {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	party := &entity.Party{
		ID:                    uuid.New().String(),
		UserID:                userID,
		Name:                  in.Name,
		Type:                  partyType,
		Street:                in.Street,
		City:                  in.City,
		Zip:                   in.Zip,
		CountryCode:           in.CountryCode,
		VATNumber:             in.VATNumber,
		Email:                 in.Email,
		NetworkRegistrationID: in.NetworkRegistrationID,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := uc.partyRepo.Create(party); err != nil {
		return nil, err
	}
	return toPartyResponse(party), nil
}

// Update actualiza una contraparte existente.
func (uc *PartyUseCase) Update(ctx context.Context, userID, id string, in dto.PartyRequest) (*dto.PartyResponse, error) {
	party, err := uc.owned(userID, id)
	if err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	party.Name = in.Name
	if in.Type != "" {
		if in.Type != entity.PartyTypeBusiness && in.Type != entity.PartyTypeIndividual {
			return nil, domain.ErrInvalidInput
		}
		party.Type = in.Type
	}
	party.Street = in.Street
	party.City = in.City
	party.Zip = in.Zip
	party.CountryCode = in.CountryCode
	party.VATNumber = in.VATNumber
	party.Email = in.Email
	party.NetworkRegistrationID = in.NetworkRegistrationID
	party.UpdatedAt = time.Now()
	if err := uc.partyRepo.Update(party); err != nil {
		return nil, err
	}
	return toPartyResponse(party), nil
}

// Get devuelve una contraparte del usuario.
func (uc *PartyUseCase) Get(ctx context.Context, userID, id string) (*dto.PartyResponse, error) {
	party, err := uc.owned(userID, id)
	if err != nil {
		return nil, err
	}
	return toPartyResponse(party), nil
}

// List contrapartes del usuario.
func (uc *PartyUseCase) List(ctx context.Context, userID string) ([]*dto.PartyResponse, error) {
	parties, err := uc.partyRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PartyResponse, 0, len(parties))
	for _, p := range parties {
		out = append(out, toPartyResponse(p))
	}
	return out, nil
}

func (uc *PartyUseCase) owned(userID, id string) (*entity.Party, error) {
	party, err := uc.partyRepo.GetByID(id)
	if err != nil || party == nil {
		return nil, domain.ErrNotFound
	}
	if party.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return party, nil
}

func toPartyResponse(p *entity.Party) *dto.PartyResponse {
	return &dto.PartyResponse{
		ID:                    p.ID,
		Name:                  p.Name,
		Type:                  p.Type,
		Street:                p.Street,
		City:                  p.City,
		Zip:                   p.Zip,
		CountryCode:           p.CountryCode,
		VATNumber:             p.VATNumber,
		Email:                 p.Email,
		NetworkRegistrationID: p.NetworkRegistrationID,
	}
}
