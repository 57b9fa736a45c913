package billing

import (
	"context"
	"time"

	"github.com/facturia/facturia-api/internal/application/dto"
	"github.com/facturia/facturia-api/internal/domain"
	"github.com/facturia/facturia-api/internal/domain/entity"
	"github.com/facturia/facturia-api/internal/domain/repository"
)

// IssuerUseCase lectura y upsert del perfil del emisor (uno por usuario).
type IssuerUseCase struct {
	issuerRepo repository.IssuerProfileRepository
}

// NewIssuerUseCase construye el caso de uso.
func NewIssuerUseCase(issuerRepo repository.IssuerProfileRepository) *IssuerUseCase {
	return &IssuerUseCase{issuerRepo: issuerRepo}
}

// Get devuelve el perfil del emisor del usuario.
func (uc *IssuerUseCase) Get(ctx context.Context, userID string) (*dto.IssuerProfileResponse, error) {
	issuer, err := uc.issuerRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if issuer == nil {
		return nil, domain.ErrNotFound
	}
	return toIssuerResponse(issuer), nil
}

// Upsert crea o reemplaza el perfil del emisor.
func (uc *IssuerUseCase) Upsert(ctx context.Context, userID string, in dto.IssuerProfileRequest) (*dto.IssuerProfileResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	mode := in.NumberingMode
	if mode == "" {
		mode = entity.NumberingIncremental
	}
	if mode != entity.NumberingIncremental && mode != entity.NumberingDateBased {
		return nil, domain.ErrInvalidInput
	}
	issuer := &entity.IssuerProfile{
		UserID:                userID,
		Name:                  in.Name,
		Street:                in.Street,
		City:                  in.City,
		Zip:                   in.Zip,
		CountryCode:           in.CountryCode,
		VATNumber:             in.VATNumber,
		IBAN:                  in.IBAN,
		Email:                 in.Email,
		NetworkRegistrationID: in.NetworkRegistrationID,
		Prefix:                in.Prefix,
		NumberingMode:         mode,
		TermsURL:              in.TermsURL,
		UpdatedAt:             time.Now(),
	}
	if err := uc.issuerRepo.Upsert(issuer); err != nil {
		return nil, err
	}
	return toIssuerResponse(issuer), nil
}

func toIssuerResponse(i *entity.IssuerProfile) *dto.IssuerProfileResponse {
	return &dto.IssuerProfileResponse{
		Name:                  i.Name,
		Street:                i.Street,
		City:                  i.City,
		Zip:                   i.Zip,
		CountryCode:           i.CountryCode,
		VATNumber:             i.VATNumber,
		IBAN:                  i.IBAN,
		Email:                 i.Email,
		NetworkRegistrationID: i.NetworkRegistrationID,
		Prefix:                i.Prefix,
		NumberingMode:         i.NumberingMode,
		TermsURL:              i.TermsURL,
	}
}
