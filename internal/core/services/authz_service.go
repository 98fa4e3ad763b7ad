package services

import (
	"context"
	"errors"

	"consultease/internal/adapters/persistence/models"
	"consultease/internal/adapters/persistence/repositories"
	"consultease/internal/core/domain"

	"gorm.io/gorm"
)

// AuthzService answers access questions for both the HTTP namespace
// guard and entity-level approval checks. Decisions that depend only on
// role rank are resolved from the policy; team scoping needs the user
// and client tables.
type AuthzService struct {
	userRepo   repositories.UserRepository
	clientRepo repositories.ClientRepository
	policy     domain.AccessPolicy
}

// NewAuthzService creates a new authorization service
func NewAuthzService(
	userRepo repositories.UserRepository,
	clientRepo repositories.ClientRepository,
	policy domain.AccessPolicy,
) *AuthzService {
	return &AuthzService{
		userRepo:   userRepo,
		clientRepo: clientRepo,
		policy:     policy,
	}
}

// CanAccessNamespace reports whether the actor may enter a namespace.
// Superusers bypass the policy entirely.
func (s *AuthzService) CanAccessNamespace(actor *domain.Actor, ns domain.Namespace) bool {
	if actor.IsSuperuser {
		return true
	}
	return s.policy.Allows(actor.Role, ns)
}

// CanDecide reports whether the actor may approve or reject records at
// all. Team scoping is checked separately per record.
func (s *AuthzService) CanDecide(actor *domain.Actor) bool {
	return actor.CanApprove()
}

// CheckClientScope verifies the actor may act on a specific client.
// Admin and above see every client. A manager is limited to their own
// team: the client's assigned manager, or the direct manager of the
// sales rep holding the client. Sales reps only reach their own
// clients. A failure here is an access denial, never a not-found.
func (s *AuthzService) CheckClientScope(ctx context.Context, actor *domain.Actor, client *models.Client) error {
	// 1. Rank shortcuts
	if actor.IsSuperuser || actor.IsOwner {
		return nil
	}
	if actor.Role.AtLeast(domain.RoleAdmin) {
		return nil
	}

	// 2. Sales reps act only on their own clients
	if !actor.Role.AtLeast(domain.RoleManager) {
		if client.AssignedTo == actor.UserID {
			return nil
		}
		return domain.ErrAccessDenied
	}

	// 3. Manager: directly assigned to the client's team, or personally
	// holding the client
	if client.AssignedManagerID != nil && *client.AssignedManagerID == actor.UserID {
		return nil
	}
	if client.AssignedTo == actor.UserID {
		return nil
	}

	// 4. Manager: the client's sales rep reports to this manager
	rep, err := s.userRepo.GetByID(ctx, client.AssignedTo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrAccessDenied
		}
		return err
	}
	if rep.ManagerID != nil && *rep.ManagerID == actor.UserID {
		return nil
	}

	return domain.ErrAccessDenied
}

// CheckRecorderScope verifies the actor may act on a record keyed to the
// user who recorded it. Admin and above reach everything; everyone
// reaches their own records; a manager additionally reaches records of
// users reporting to them. A failure is an access denial, never a
// not-found.
func (s *AuthzService) CheckRecorderScope(ctx context.Context, actor *domain.Actor, recorderID uint) error {
	// 1. Rank shortcuts
	if actor.IsSuperuser || actor.IsOwner {
		return nil
	}
	if actor.Role.AtLeast(domain.RoleAdmin) {
		return nil
	}

	// 2. Own records
	if actor.UserID == recorderID {
		return nil
	}

	// 3. Manager: the recorder reports to this manager
	if actor.Role.AtLeast(domain.RoleManager) {
		recorder, err := s.userRepo.GetByID(ctx, recorderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrAccessDenied
			}
			return err
		}
		if recorder.ManagerID != nil && *recorder.ManagerID == actor.UserID {
			return nil
		}
	}

	return domain.ErrAccessDenied
}

// CheckClientScopeByID loads the client and applies CheckClientScope
func (s *AuthzService) CheckClientScopeByID(ctx context.Context, actor *domain.Actor, clientID uint) (*models.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if err := s.CheckClientScope(ctx, actor, client); err != nil {
		return nil, err
	}
	return client, nil
}
