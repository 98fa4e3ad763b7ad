package services

import (
	"context"
	"testing"

	"consultease/internal/adapters/persistence/models"
	"consultease/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clientServiceFixture struct {
	users    *fakeUserRepo
	clients  *fakeClientRepo
	creds    *fakeCredentialRepo
	ledger   *fakeRevenueRepo
	notifier *fakeNotifier
	svc      *ClientService
}

func newClientServiceFixture(t *testing.T) *clientServiceFixture {
	t.Helper()

	users, clients, authz := testTeam(t)
	creds := newFakeCredentialRepo()
	ledger := &fakeRevenueRepo{}
	notifier := &fakeNotifier{}

	revenueSvc := NewRevenueService(clients, newFakeBookingRepo(), newFakePaymentRepo(), ledger)
	svc := NewClientService(clients, users, creds, revenueSvc, authz, notifier)

	return &clientServiceFixture{
		users:    users,
		clients:  clients,
		creds:    creds,
		ledger:   ledger,
		notifier: notifier,
		svc:      svc,
	}
}

func managerActor() *domain.Actor {
	return &domain.Actor{UserID: 1, Role: domain.RoleManager}
}

func salesActor() *domain.Actor {
	return &domain.Actor{UserID: 2, Role: domain.RoleSales, ManagerID: uintPtr(1)}
}

func TestCreateClientComputesFigures(t *testing.T) {
	f := newClientServiceFixture(t)
	ctx := context.Background()

	resp, err := f.svc.CreateClient(ctx, salesActor(), &CreateClientInput{
		CompanyName:   "Delta Exports",
		ContactEmail:  "ops@delta.example",
		PitchedAmount: 1000,
	})
	require.NoError(t, err)

	// Default GST rate applies when none is given
	assert.Equal(t, 1000.0, resp.TotalPitchedAmount)
	assert.Equal(t, 18.0, resp.GSTPercentage)
	assert.Equal(t, 180.0, resp.GSTAmount)
	assert.Equal(t, 1180.0, resp.TotalWithGST)
	assert.Equal(t, 1180.0, resp.PendingAmount)

	// Created by sales, so the record waits for a decision
	assert.False(t, resp.IsApproved)

	// The write left a ledger entry
	entries, _, err := f.ledger.ListByClient(ctx, resp.ID, 0, 20)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.RevenueSourceCreate, entries[0].Source)
}

func TestManagerCreatedClientPreApproved(t *testing.T) {
	f := newClientServiceFixture(t)
	ctx := context.Background()

	resp, err := f.svc.CreateClient(ctx, managerActor(), &CreateClientInput{
		CompanyName:  "Zeta Logistics",
		ContactEmail: "ops@zeta.example",
	})
	require.NoError(t, err)

	// A deciding creator skips the pending state entirely: the record
	// lands approved with its credential already issued
	assert.True(t, resp.IsApproved)
	assert.Equal(t, 1, f.creds.createCount)
	assert.Equal(t, 1, f.notifier.approvedCalls)

	cred, err := f.creds.GetByClientID(ctx, resp.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, cred.PlainPassword)
}

func TestCreateClientInheritsReportingLine(t *testing.T) {
	f := newClientServiceFixture(t)
	ctx := context.Background()

	resp, err := f.svc.CreateClient(ctx, salesActor(), &CreateClientInput{
		CompanyName:  "Epsilon Labs",
		ContactEmail: "hello@epsilon.example",
	})
	require.NoError(t, err)

	created, err := f.clients.GetByID(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(2), created.AssignedTo)
	require.NotNil(t, created.AssignedManagerID)
	assert.Equal(t, uint(1), *created.AssignedManagerID)
}

func TestApproveClientIssuesCredentialOnce(t *testing.T) {
	f := newClientServiceFixture(t)
	ctx := context.Background()

	clientID := uint(10)
	resp, err := f.svc.ApproveClient(ctx, managerActor(), clientID)
	require.NoError(t, err)
	assert.True(t, resp.IsApproved)

	// Exactly one credential, linked to a CLIENT login account
	require.Equal(t, 1, f.creds.createCount)
	cred, err := f.creds.GetByClientID(ctx, clientID)
	require.NoError(t, err)
	assert.NotEmpty(t, cred.PlainPassword)

	client, _ := f.clients.GetByID(ctx, clientID)
	require.NotNil(t, client.UserID)
	account, err := f.users.GetByID(ctx, *client.UserID)
	require.NoError(t, err)
	assert.Equal(t, "CLIENT", account.Role)

	assert.Equal(t, 1, f.notifier.approvedCalls)
}

func TestReapprovalNeverRegeneratesSecret(t *testing.T) {
	f := newClientServiceFixture(t)
	ctx := context.Background()

	clientID := uint(10)
	_, err := f.svc.ApproveClient(ctx, managerActor(), clientID)
	require.NoError(t, err)

	cred, _ := f.creds.GetByClientID(ctx, clientID)
	firstSecret := cred.PlainPassword

	// Contact email changed between the two approvals
	client, _ := f.clients.GetByID(ctx, clientID)
	client.ContactEmail = "newops@acme.example"

	_, err = f.svc.ApproveClient(ctx, managerActor(), clientID)
	assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)

	// No second credential, same secret, refreshed contact
	assert.Equal(t, 1, f.creds.createCount)
	cred, _ = f.creds.GetByClientID(ctx, clientID)
	assert.Equal(t, firstSecret, cred.PlainPassword)
	assert.Equal(t, "newops@acme.example", cred.Email)

	// The credential never reached the client, so delivery was queued again
	assert.Equal(t, 2, f.notifier.approvedCalls)

	// Once delivered, a further re-approval stays quiet
	require.NoError(t, f.svc.MarkCredentialSent(ctx, managerActor(), clientID))
	_, err = f.svc.ApproveClient(ctx, managerActor(), clientID)
	assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)
	assert.Equal(t, 2, f.notifier.approvedCalls)
}

func TestApproveClientActorRestrictions(t *testing.T) {
	f := newClientServiceFixture(t)
	ctx := context.Background()

	// Sales may not decide at all
	_, err := f.svc.ApproveClient(ctx, salesActor(), 10)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	// A manager from another team is denied, not told the record is missing
	otherManager := &domain.Actor{UserID: 3, Role: domain.RoleManager}
	_, err = f.svc.ApproveClient(ctx, otherManager, 10)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	assert.Equal(t, 0, f.creds.createCount)
}

func TestRejectClientRequiresReason(t *testing.T) {
	f := newClientServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.RejectClient(ctx, managerActor(), 10, "   ")
	assert.ErrorIs(t, err, domain.ErrReasonRequired)

	resp, err := f.svc.RejectClient(ctx, managerActor(), 10, "Incomplete KYC documents")
	require.NoError(t, err)
	assert.Equal(t, "Incomplete KYC documents", resp.RejectionReason)
	assert.Equal(t, 1, f.notifier.rejectedCalls)

	// A second rejection finds nothing pending
	_, err = f.svc.RejectClient(ctx, managerActor(), 10, "again")
	assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)
}

func TestApprovalSurvivesNotificationFailure(t *testing.T) {
	f := newClientServiceFixture(t)
	f.notifier.err = assert.AnError
	ctx := context.Background()

	resp, err := f.svc.ApproveClient(ctx, managerActor(), 10)
	require.NoError(t, err)
	assert.True(t, resp.IsApproved)
	assert.Equal(t, 1, f.creds.createCount)
}

func TestGetClientScoped(t *testing.T) {
	f := newClientServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.GetClient(ctx, salesActor(), 20)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	_, err = f.svc.GetClient(ctx, salesActor(), 999)
	assert.ErrorIs(t, err, ErrClientNotFound)
}
