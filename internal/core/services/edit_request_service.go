package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"consultease/internal/adapters/persistence/models"
	"consultease/internal/adapters/persistence/repositories"
	"consultease/internal/core/domain"
	"consultease/internal/pkg/pagination"

	"gorm.io/gorm"
)

// Edit request service errors
var (
	ErrEditRequestNotFound = errors.New("edit request not found")
	ErrFieldNotEditable    = errors.New("field is not editable via edit request")
	ErrValueUnchanged      = errors.New("requested value matches current value")
)

// editableClientFields whitelists the client columns an edit request may
// touch. The revenue figure columns are deliberately absent: those are
// written only through the revenue service.
var editableClientFields = map[string]bool{
	"company_name":  true,
	"contact_name":  true,
	"contact_email": true,
	"contact_phone": true,
}

// EditRequestService handles the propose/approve/apply workflow for
// client field changes
type EditRequestService struct {
	editRepo   repositories.EditRequestRepository
	clientRepo repositories.ClientRepository
	authz      *AuthzService
	notifier   Notifier
}

// NewEditRequestService creates a new edit request service
func NewEditRequestService(
	editRepo repositories.EditRequestRepository,
	clientRepo repositories.ClientRepository,
	authz *AuthzService,
	notifier Notifier,
) *EditRequestService {
	return &EditRequestService{
		editRepo:   editRepo,
		clientRepo: clientRepo,
		authz:      authz,
		notifier:   notifier,
	}
}

// CreateEditRequestInput represents edit request creation input
type CreateEditRequestInput struct {
	ClientID       uint   `json:"client_id" validate:"required"`
	FieldName      string `json:"field_name" validate:"required"`
	RequestedValue string `json:"requested_value" validate:"required"`
}

// DecideEditRequestInput represents an approval or rejection
type DecideEditRequestInput struct {
	Notes string `json:"notes"`
}

// CreateEditRequest proposes a field change on a client
func (s *EditRequestService) CreateEditRequest(ctx context.Context, actor *domain.Actor, input *CreateEditRequestInput) (*models.EditRequest, error) {
	// 1. Whitelist the field
	field := strings.ToLower(strings.TrimSpace(input.FieldName))
	if !editableClientFields[field] {
		return nil, ErrFieldNotEditable
	}

	// 2. Team-scope on the target client
	client, err := s.authz.CheckClientScopeByID(ctx, actor, input.ClientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	// 3. Snapshot the current value for the audit trail
	current := clientFieldValue(client, field)
	if current == input.RequestedValue {
		return nil, ErrValueUnchanged
	}

	req := &models.EditRequest{
		EntityType:     "client",
		EntityID:       client.ID,
		FieldName:      field,
		CurrentValue:   current,
		RequestedValue: input.RequestedValue,
		Status:         domain.EditRequestPending,
		RequestedBy:    actor.UserID,
	}
	if err := s.editRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	log.Printf("✅ Edit request #%d raised on client %d (%s)", req.ID, client.ID, field)
	return req, nil
}

// GetEditRequest gets an edit request the actor is allowed to see
func (s *EditRequestService) GetEditRequest(ctx context.Context, actor *domain.Actor, id uint) (*models.EditRequest, error) {
	req, err := s.editRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEditRequestNotFound
		}
		return nil, err
	}

	if _, err := s.authz.CheckClientScopeByID(ctx, actor, req.EntityID); err != nil {
		return nil, err
	}

	return req, nil
}

// ListEditRequests lists edit requests, optionally filtered by status
func (s *EditRequestService) ListEditRequests(ctx context.Context, actor *domain.Actor, status string, page, limit int) ([]*models.EditRequest, int64, error) {
	params := pagination.NewParams(page, limit)

	// Sales reps see only their own requests
	if !actor.IsSuperuser && !actor.Role.AtLeast(domain.RoleManager) {
		return s.editRepo.ListByRequester(ctx, actor.UserID, params.Offset, params.Limit)
	}

	if status != "" {
		return s.editRepo.ListByStatus(ctx, strings.ToUpper(status), params.Offset, params.Limit)
	}
	return s.editRepo.List(ctx, params.Offset, params.Limit)
}

// ApproveEditRequest approves a pending request and applies the change
// in one transaction. Exactly one approval wins; the loser sees
// ErrAlreadyProcessed and the client is written once.
func (s *EditRequestService) ApproveEditRequest(ctx context.Context, actor *domain.Actor, id uint, input *DecideEditRequestInput) (*models.EditRequest, error) {
	// 1. Only manager and above decide
	if !s.authz.CanDecide(actor) {
		return nil, domain.ErrAccessDenied
	}

	// 2. Load and team-scope
	req, err := s.GetEditRequest(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	// 3. Re-validate the field against the current whitelist. A request
	// created before a whitelist change must not slip through.
	if !editableClientFields[req.FieldName] {
		return nil, ErrFieldNotEditable
	}

	// 4. Approve and apply atomically
	won, err := s.editRepo.ApproveAndApply(ctx, req, actor.UserID, input.Notes)
	if err != nil {
		return nil, err
	}
	if !won {
		return req, domain.ErrAlreadyProcessed
	}

	log.Printf("✅ Edit request #%d approved and applied by user %d", id, actor.UserID)

	decided, err := s.editRepo.GetByID(ctx, id)
	if err != nil {
		return req, nil
	}

	// 5. Best-effort notification
	if err := s.notifier.NotifyEditRequestDecided(decided); err != nil {
		log.Printf("⚠️ Edit request notification failed for #%d: %v", id, err)
	}

	return decided, nil
}

// RejectEditRequest rejects a pending request. Notes are mandatory so
// the requester knows why.
func (s *EditRequestService) RejectEditRequest(ctx context.Context, actor *domain.Actor, id uint, input *DecideEditRequestInput) (*models.EditRequest, error) {
	// 1. Only manager and above decide
	if !s.authz.CanDecide(actor) {
		return nil, domain.ErrAccessDenied
	}

	if strings.TrimSpace(input.Notes) == "" {
		return nil, domain.ErrReasonRequired
	}

	// 2. Load and team-scope
	req, err := s.GetEditRequest(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	// 3. Claim the rejection
	now := time.Now()
	won, err := s.editRepo.TransitionStatus(ctx, id, domain.EditRequestPending, domain.EditRequestRejected, map[string]interface{}{
		"approved_by":    actor.UserID,
		"approval_notes": input.Notes,
		"approval_date":  &now,
	})
	if err != nil {
		return nil, err
	}
	if !won {
		return req, domain.ErrAlreadyProcessed
	}

	log.Printf("✅ Edit request #%d rejected by user %d", id, actor.UserID)

	decided, err := s.editRepo.GetByID(ctx, id)
	if err != nil {
		return req, nil
	}

	// 4. Best-effort notification
	if err := s.notifier.NotifyEditRequestDecided(decided); err != nil {
		log.Printf("⚠️ Edit request notification failed for #%d: %v", id, err)
	}

	return decided, nil
}

// ApplyEditRequest applies a request stranded in APPROVED. Only needed
// for records written before approval and apply became one transaction.
func (s *EditRequestService) ApplyEditRequest(ctx context.Context, actor *domain.Actor, id uint) (*models.EditRequest, error) {
	if !s.authz.CanDecide(actor) {
		return nil, domain.ErrAccessDenied
	}

	req, err := s.GetEditRequest(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if !domain.ValidEditRequestTransition(req.Status, domain.EditRequestApplied) {
		return req, domain.ErrInvalidTransition
	}
	if !editableClientFields[req.FieldName] {
		return nil, ErrFieldNotEditable
	}

	won, err := s.editRepo.TransitionStatus(ctx, id, domain.EditRequestApproved, domain.EditRequestApplied, nil)
	if err != nil {
		return nil, err
	}
	if !won {
		return req, domain.ErrAlreadyProcessed
	}

	if err := s.clientRepo.ApplyField(ctx, req.EntityID, req.FieldName, req.RequestedValue); err != nil {
		return nil, err
	}

	log.Printf("✅ Edit request #%d applied by user %d", id, actor.UserID)
	return s.editRepo.GetByID(ctx, id)
}

// clientFieldValue reads a whitelisted field off the client record
func clientFieldValue(client *models.Client, field string) string {
	switch field {
	case "company_name":
		return client.CompanyName
	case "contact_name":
		return client.ContactName
	case "contact_email":
		return client.ContactEmail
	case "contact_phone":
		return client.ContactPhone
	}
	return ""
}
