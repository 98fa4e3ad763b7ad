package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"consultease/internal/adapters/persistence/models"
	"consultease/internal/adapters/persistence/repositories"
	"consultease/internal/core/domain"
	"consultease/internal/pkg/pagination"
	"consultease/internal/pkg/password"

	"gorm.io/gorm"
)

// Client service errors
var (
	ErrClientNotFound = errors.New("client not found")
)

// ClientService handles client lifecycle business logic
type ClientService struct {
	clientRepo repositories.ClientRepository
	userRepo   repositories.UserRepository
	credRepo   repositories.CredentialRepository
	revenueSvc *RevenueService
	authz      *AuthzService
	notifier   Notifier
}

// NewClientService creates a new client service
func NewClientService(
	clientRepo repositories.ClientRepository,
	userRepo repositories.UserRepository,
	credRepo repositories.CredentialRepository,
	revenueSvc *RevenueService,
	authz *AuthzService,
	notifier Notifier,
) *ClientService {
	return &ClientService{
		clientRepo: clientRepo,
		userRepo:   userRepo,
		credRepo:   credRepo,
		revenueSvc: revenueSvc,
		authz:      authz,
		notifier:   notifier,
	}
}

// CreateClientInput represents client creation input
type CreateClientInput struct {
	CompanyName   string  `json:"company_name" validate:"required,min=2,max=200"`
	ContactName   string  `json:"contact_name" validate:"max=100"`
	ContactEmail  string  `json:"contact_email" validate:"required,email"`
	ContactPhone  string  `json:"contact_phone" validate:"max=20"`
	PitchedAmount float64 `json:"pitched_amount" validate:"gte=0"`
	GSTPercent    float64 `json:"gst_percent"`
	AssignedTo    *uint   `json:"assigned_to"`
}

// ListClientsInput represents list clients input
type ListClientsInput struct {
	Page        int
	Limit       int
	PendingOnly bool
}

// ListClientsOutput represents list clients output
type ListClientsOutput struct {
	Clients    []*models.ClientResponse `json:"clients"`
	Total      int64                    `json:"total"`
	Page       int                      `json:"page"`
	Limit      int                      `json:"limit"`
	TotalPages int                      `json:"total_pages"`
}

// CreateClient creates a new client. A sales rep creates it pending; a
// creator who can decide approvals gets it pre-approved, credential
// included, in the same call.
func (s *ClientService) CreateClient(ctx context.Context, actor *domain.Actor, input *CreateClientInput) (*models.ClientResponse, error) {
	// 1. Resolve the owning sales rep. Staff above sales may assign to
	// someone else; a sales rep always owns their own clients.
	assignedTo := actor.UserID
	if input.AssignedTo != nil && actor.Role.AtLeast(domain.RoleManager) {
		assignedTo = *input.AssignedTo
	}

	// 2. The client's team manager follows the rep's reporting line
	rep, err := s.userRepo.GetByID(ctx, assignedTo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	client := &models.Client{
		CompanyName:       input.CompanyName,
		ContactName:       input.ContactName,
		ContactEmail:      input.ContactEmail,
		ContactPhone:      input.ContactPhone,
		AssignedTo:        assignedTo,
		AssignedManagerID: rep.ManagerID,
		CreatedBy:         actor.UserID,
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}

	// 3. Write the initial figures through the revenue service
	if _, err := s.revenueSvc.SetClientFigures(ctx, client.ID, input.PitchedAmount, input.GSTPercent, 0, models.RevenueSourceCreate, actor.UserID); err != nil {
		return nil, err
	}

	log.Printf("✅ Client created: #%d %s (rep: %d)", client.ID, client.CompanyName, assignedTo)

	// 4. A deciding creator pre-approves their own record
	if s.authz.CanDecide(actor) {
		return s.ApproveClient(ctx, actor, client.ID)
	}

	// Reload for the computed figures
	created, err := s.clientRepo.GetByID(ctx, client.ID)
	if err != nil {
		return client.ToResponse(), nil
	}
	return created.ToResponse(), nil
}

// GetClient gets a client the actor is allowed to see. Out-of-team
// access is reported as a denial, not a missing record.
func (s *ClientService) GetClient(ctx context.Context, actor *domain.Actor, id uint) (*models.ClientResponse, error) {
	client, err := s.authz.CheckClientScopeByID(ctx, actor, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return client.ToResponse(), nil
}

// ListClients lists clients visible to the actor
func (s *ClientService) ListClients(ctx context.Context, actor *domain.Actor, input *ListClientsInput) (*ListClientsOutput, error) {
	params := pagination.NewParams(input.Page, input.Limit)

	var (
		clients []*models.Client
		total   int64
		err     error
	)

	switch {
	case input.PendingOnly:
		clients, total, err = s.clientRepo.ListPending(ctx, params.Offset, params.Limit)
	case actor.IsSuperuser || actor.Role.AtLeast(domain.RoleAdmin):
		clients, total, err = s.clientRepo.List(ctx, params.Offset, params.Limit)
	case actor.Role.AtLeast(domain.RoleManager):
		clients, total, err = s.clientRepo.ListByManager(ctx, actor.UserID, params.Offset, params.Limit)
	default:
		clients, total, err = s.clientRepo.ListByAssignee(ctx, actor.UserID, params.Offset, params.Limit)
	}
	if err != nil {
		return nil, err
	}

	responses := make([]*models.ClientResponse, len(clients))
	for i, c := range clients {
		responses[i] = c.ToResponse()
	}

	meta := pagination.GetMeta(params, total)

	return &ListClientsOutput{
		Clients:    responses,
		Total:      total,
		Page:       meta.Page,
		Limit:      meta.Limit,
		TotalPages: meta.TotalPages,
	}, nil
}

// ApproveClient approves a pending client. Exactly one approval wins;
// the winner issues the one-time portal credential. A repeat call
// returns ErrAlreadyProcessed and issues nothing.
func (s *ClientService) ApproveClient(ctx context.Context, actor *domain.Actor, id uint) (*models.ClientResponse, error) {
	// 1. Only manager and above decide
	if !s.authz.CanDecide(actor) {
		return nil, domain.ErrAccessDenied
	}

	// 2. Load and team-scope
	client, err := s.authz.CheckClientScopeByID(ctx, actor, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	// 3. Claim the pending record
	won, err := s.clientRepo.ApproveIfPending(ctx, id, actor.UserID)
	if err != nil {
		return nil, err
	}
	if !won {
		// Re-approval never regenerates the secret. It refreshes the
		// delivery contact on the existing credential and, if the
		// credential never reached the client, queues delivery again.
		if cred, cerr := s.credRepo.GetByClientID(ctx, id); cerr == nil {
			if cred.Email != client.ContactEmail && client.ContactEmail != "" {
				if uerr := s.credRepo.UpdateContact(ctx, cred.ID, client.ContactEmail, client.ContactEmail); uerr != nil {
					log.Printf("⚠️ Credential contact refresh failed for client %d: %v", id, uerr)
				}
			}
			if !cred.IsSent {
				if nerr := s.notifier.NotifyClientApproved(client, cred); nerr != nil {
					log.Printf("⚠️ Credential redelivery failed for client %d: %v", id, nerr)
				}
			}
		}
		return nil, domain.ErrAlreadyProcessed
	}

	// 4. Winner issues the credential
	cred, err := s.issueCredential(ctx, client)
	if err != nil {
		log.Printf("❌ Credential issuance failed for client %d: %v", id, err)
		return nil, err
	}

	// 5. Best-effort notification, never rolls back the approval
	if err := s.notifier.NotifyClientApproved(client, cred); err != nil {
		log.Printf("⚠️ Approval notification failed for client %d: %v", id, err)
	}

	log.Printf("✅ Client approved: #%d %s by user %d", id, client.CompanyName, actor.UserID)

	approved, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return client.ToResponse(), nil
	}
	return approved.ToResponse(), nil
}

// RejectClient rejects a pending client. A reason is mandatory.
func (s *ClientService) RejectClient(ctx context.Context, actor *domain.Actor, id uint, reason string) (*models.ClientResponse, error) {
	// 1. Only manager and above decide
	if !s.authz.CanDecide(actor) {
		return nil, domain.ErrAccessDenied
	}

	// 2. A rejection without a reason is not auditable
	if strings.TrimSpace(reason) == "" {
		return nil, domain.ErrReasonRequired
	}

	// 3. Load and team-scope
	client, err := s.authz.CheckClientScopeByID(ctx, actor, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	// 4. Claim the pending record
	won, err := s.clientRepo.RejectIfPending(ctx, id, actor.UserID, reason)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, domain.ErrAlreadyProcessed
	}

	// 5. Best-effort notification
	if err := s.notifier.NotifyClientRejected(client, reason); err != nil {
		log.Printf("⚠️ Rejection notification failed for client %d: %v", id, err)
	}

	log.Printf("✅ Client rejected: #%d %s by user %d", id, client.CompanyName, actor.UserID)

	rejected, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return client.ToResponse(), nil
	}
	return rejected.ToResponse(), nil
}

// GetCredential returns the credential issued for a client
func (s *ClientService) GetCredential(ctx context.Context, actor *domain.Actor, clientID uint) (*models.ClientCredential, error) {
	if _, err := s.authz.CheckClientScopeByID(ctx, actor, clientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	cred, err := s.credRepo.GetByClientID(ctx, clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return cred, nil
}

// MarkCredentialSent records that the credential reached the client
func (s *ClientService) MarkCredentialSent(ctx context.Context, actor *domain.Actor, clientID uint) error {
	cred, err := s.GetCredential(ctx, actor, clientID)
	if err != nil {
		return err
	}
	return s.credRepo.MarkSent(ctx, cred.ID, actor.UserID)
}

// issueCredential creates the portal login account and stores the
// one-time secret. Called exactly once, by the approval winner.
func (s *ClientService) issueCredential(ctx context.Context, client *models.Client) (*models.ClientCredential, error) {
	// 1. Generate the one-time secret
	secret, err := password.GenerateSecret()
	if err != nil {
		return nil, err
	}
	hashed, err := password.Hash(secret)
	if err != nil {
		return nil, err
	}

	// 2. Derive a unique username from the contact email
	username := client.ContactEmail
	if username == "" {
		username = fmt.Sprintf("client%d", client.ID)
	}
	if exists, _ := s.userRepo.ExistsByUsername(ctx, username); exists {
		username = fmt.Sprintf("%s.%d", username, client.ID)
	}

	// 3. Create the portal login account
	account := &models.User{
		Username: username,
		Email:    client.ContactEmail,
		Password: hashed,
		Role:     string(domain.RoleClient),
		IsActive: true,
	}
	if err := s.userRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	if err := s.clientRepo.SetAccount(ctx, client.ID, account.ID); err != nil {
		return nil, err
	}

	// 4. Store the credential record
	cred := &models.ClientCredential{
		ClientID:      client.ID,
		Username:      username,
		Email:         client.ContactEmail,
		PlainPassword: secret,
	}
	if err := s.credRepo.Create(ctx, cred); err != nil {
		return nil, err
	}

	log.Printf("✅ Portal credential issued for client #%d (%s)", client.ID, username)
	return cred, nil
}
