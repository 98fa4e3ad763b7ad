package services

import (
	"context"
	"errors"
	"log"

	"consultease/internal/adapters/persistence/models"
	"consultease/internal/adapters/persistence/repositories"
	"consultease/internal/core/domain"

	"gorm.io/gorm"
)

// Funding service errors
var (
	ErrSchemeNotFound      = errors.New("scheme not found")
	ErrApplicationNotFound = errors.New("application not found")
)

// FundingService handles government scheme master data and the funding
// applications filed against them
type FundingService struct {
	schemeRepo *repositories.SchemeRepository
	appRepo    *repositories.ApplicationRepository
	authz      *AuthzService
}

// NewFundingService creates a new funding service
func NewFundingService(
	schemeRepo *repositories.SchemeRepository,
	appRepo *repositories.ApplicationRepository,
	authz *AuthzService,
) *FundingService {
	return &FundingService{
		schemeRepo: schemeRepo,
		appRepo:    appRepo,
		authz:      authz,
	}
}

// CreateSchemeInput represents scheme creation input
type CreateSchemeInput struct {
	Code        string `json:"code" validate:"required,min=2,max=20"`
	Name        string `json:"name" validate:"required,min=2,max=200"`
	Description string `json:"description"`
	Ministry    string `json:"ministry" validate:"max=100"`
}

// CreateApplicationInput represents application creation input
type CreateApplicationInput struct {
	ClientID uint   `json:"client_id" validate:"required"`
	SchemeID uint   `json:"scheme_id" validate:"required"`
	Notes    string `json:"notes"`
}

// ListSchemes lists active schemes
func (s *FundingService) ListSchemes(ctx context.Context) ([]*models.Scheme, error) {
	return s.schemeRepo.ListActive(ctx)
}

// GetScheme gets a scheme by ID
func (s *FundingService) GetScheme(ctx context.Context, id uint) (*models.Scheme, error) {
	scheme, err := s.schemeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSchemeNotFound
		}
		return nil, err
	}
	return scheme, nil
}

// CreateScheme creates a scheme (admin only, enforced at the route)
func (s *FundingService) CreateScheme(ctx context.Context, input *CreateSchemeInput) (*models.Scheme, error) {
	scheme := &models.Scheme{
		Code:        input.Code,
		Name:        input.Name,
		Description: input.Description,
		Ministry:    input.Ministry,
		IsActive:    true,
	}
	if err := s.schemeRepo.Create(ctx, scheme); err != nil {
		return nil, err
	}

	log.Printf("✅ Scheme created: %s %s", scheme.Code, scheme.Name)
	return scheme, nil
}

// DeactivateScheme retires a scheme from new applications
func (s *FundingService) DeactivateScheme(ctx context.Context, id uint) error {
	scheme, err := s.GetScheme(ctx, id)
	if err != nil {
		return err
	}
	scheme.IsActive = false
	return s.schemeRepo.Update(ctx, scheme)
}

// CreateApplication files a draft application for a client
func (s *FundingService) CreateApplication(ctx context.Context, actor *domain.Actor, input *CreateApplicationInput) (*models.Application, error) {
	// 1. Team-scope on the client
	if _, err := s.authz.CheckClientScopeByID(ctx, actor, input.ClientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	// 2. The scheme must exist and be open
	scheme, err := s.GetScheme(ctx, input.SchemeID)
	if err != nil {
		return nil, err
	}
	if !scheme.IsActive {
		return nil, ErrSchemeNotFound
	}

	app := &models.Application{
		ClientID:    input.ClientID,
		SchemeID:    input.SchemeID,
		Status:      domain.ApplicationDraft,
		Notes:       input.Notes,
		SubmittedBy: actor.UserID,
	}
	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, err
	}

	log.Printf("✅ Application #%d filed for client %d under %s", app.ID, app.ClientID, scheme.Code)
	return s.appRepo.GetByID(ctx, app.ID)
}

// SubmitApplication moves a draft to submitted
func (s *FundingService) SubmitApplication(ctx context.Context, actor *domain.Actor, id uint) (*models.Application, error) {
	app, err := s.getScopedApplication(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	won, err := s.appRepo.UpdateStatus(ctx, id, domain.ApplicationDraft, domain.ApplicationSubmitted)
	if err != nil {
		return nil, err
	}
	if !won {
		return app, domain.ErrAlreadyProcessed
	}

	return s.appRepo.GetByID(ctx, id)
}

// DecideApplication records the scheme authority's verdict
func (s *FundingService) DecideApplication(ctx context.Context, actor *domain.Actor, id uint, approved bool) (*models.Application, error) {
	if !s.authz.CanDecide(actor) {
		return nil, domain.ErrAccessDenied
	}

	app, err := s.getScopedApplication(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	target := domain.ApplicationApproved
	if !approved {
		target = domain.ApplicationRejected
	}

	won, err := s.appRepo.UpdateStatus(ctx, id, domain.ApplicationSubmitted, target)
	if err != nil {
		return nil, err
	}
	if !won {
		return app, domain.ErrAlreadyProcessed
	}

	log.Printf("✅ Application #%d decided: %s by user %d", id, target, actor.UserID)
	return s.appRepo.GetByID(ctx, id)
}

// ListApplicationsByClient lists applications under a client
func (s *FundingService) ListApplicationsByClient(ctx context.Context, actor *domain.Actor, clientID uint) ([]*models.Application, error) {
	if _, err := s.authz.CheckClientScopeByID(ctx, actor, clientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return s.appRepo.ListByClient(ctx, clientID)
}

func (s *FundingService) getScopedApplication(ctx context.Context, actor *domain.Actor, id uint) (*models.Application, error) {
	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	if _, err := s.authz.CheckClientScopeByID(ctx, actor, app.ClientID); err != nil {
		return nil, err
	}
	return app, nil
}
