package services

import (
	"context"
	"testing"

	"consultease/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type editServiceFixture struct {
	clients  *fakeClientRepo
	edits    *fakeEditRepo
	notifier *fakeNotifier
	svc      *EditRequestService
}

func newEditServiceFixture(t *testing.T) *editServiceFixture {
	t.Helper()

	_, clients, authz := testTeam(t)
	edits := newFakeEditRepo(clients)
	notifier := &fakeNotifier{}
	svc := NewEditRequestService(edits, clients, authz, notifier)

	return &editServiceFixture{
		clients:  clients,
		edits:    edits,
		notifier: notifier,
		svc:      svc,
	}
}

func TestCreateEditRequestWhitelist(t *testing.T) {
	f := newEditServiceFixture(t)
	ctx := context.Background()

	// Revenue columns are never editable through this flow
	_, err := f.svc.CreateEditRequest(ctx, salesActor(), &CreateEditRequestInput{
		ClientID:       10,
		FieldName:      "total_pitched_amount",
		RequestedValue: "99999",
	})
	assert.ErrorIs(t, err, ErrFieldNotEditable)

	req, err := f.svc.CreateEditRequest(ctx, salesActor(), &CreateEditRequestInput{
		ClientID:       10,
		FieldName:      "Contact_Phone",
		RequestedValue: "+91-9000000000",
	})
	require.NoError(t, err)
	assert.Equal(t, "contact_phone", req.FieldName)
	assert.Equal(t, domain.EditRequestPending, req.Status)
}

func TestCreateEditRequestSnapshotsCurrentValue(t *testing.T) {
	f := newEditServiceFixture(t)
	ctx := context.Background()

	req, err := f.svc.CreateEditRequest(ctx, salesActor(), &CreateEditRequestInput{
		ClientID:       10,
		FieldName:      "company_name",
		RequestedValue: "Acme Traders Pvt Ltd",
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Traders", req.CurrentValue)

	// A no-op change is rejected up front
	_, err = f.svc.CreateEditRequest(ctx, salesActor(), &CreateEditRequestInput{
		ClientID:       10,
		FieldName:      "company_name",
		RequestedValue: "Acme Traders",
	})
	assert.ErrorIs(t, err, ErrValueUnchanged)
}

func TestCreateEditRequestCrossTeamDenied(t *testing.T) {
	f := newEditServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateEditRequest(ctx, salesActor(), &CreateEditRequestInput{
		ClientID:       20,
		FieldName:      "contact_phone",
		RequestedValue: "+91-9000000000",
	})
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestApproveEditRequestAppliesChange(t *testing.T) {
	f := newEditServiceFixture(t)
	ctx := context.Background()

	req, err := f.svc.CreateEditRequest(ctx, salesActor(), &CreateEditRequestInput{
		ClientID:       10,
		FieldName:      "company_name",
		RequestedValue: "Acme Traders Pvt Ltd",
	})
	require.NoError(t, err)

	// Sales cannot decide their own request
	_, err = f.svc.ApproveEditRequest(ctx, salesActor(), req.ID, &DecideEditRequestInput{})
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	decided, err := f.svc.ApproveEditRequest(ctx, managerActor(), req.ID, &DecideEditRequestInput{Notes: "Name change per GST certificate"})
	require.NoError(t, err)
	assert.Equal(t, domain.EditRequestApplied, decided.Status)

	// Approval and apply landed together
	client, _ := f.clients.GetByID(ctx, 10)
	assert.Equal(t, "Acme Traders Pvt Ltd", client.CompanyName)
	assert.Equal(t, 1, f.notifier.decidedCalls)

	// A repeat approval finds nothing pending and writes nothing
	_, err = f.svc.ApproveEditRequest(ctx, managerActor(), req.ID, &DecideEditRequestInput{})
	assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)
	assert.Equal(t, 1, f.notifier.decidedCalls)
}

func TestRejectEditRequestRequiresNotes(t *testing.T) {
	f := newEditServiceFixture(t)
	ctx := context.Background()

	req, err := f.svc.CreateEditRequest(ctx, salesActor(), &CreateEditRequestInput{
		ClientID:       10,
		FieldName:      "contact_email",
		RequestedValue: "accounts@acme.example",
	})
	require.NoError(t, err)

	_, err = f.svc.RejectEditRequest(ctx, managerActor(), req.ID, &DecideEditRequestInput{Notes: "  "})
	assert.ErrorIs(t, err, domain.ErrReasonRequired)

	decided, err := f.svc.RejectEditRequest(ctx, managerActor(), req.ID, &DecideEditRequestInput{Notes: "Email domain not verified"})
	require.NoError(t, err)
	assert.Equal(t, domain.EditRequestRejected, decided.Status)
	assert.Equal(t, "Email domain not verified", decided.ApprovalNotes)

	// The client record is untouched
	client, _ := f.clients.GetByID(ctx, 10)
	assert.NotEqual(t, "accounts@acme.example", client.ContactEmail)
}

func TestApplyStrandedApprovedRequest(t *testing.T) {
	f := newEditServiceFixture(t)
	ctx := context.Background()

	req, err := f.svc.CreateEditRequest(ctx, salesActor(), &CreateEditRequestInput{
		ClientID:       10,
		FieldName:      "contact_name",
		RequestedValue: "R. Sharma",
	})
	require.NoError(t, err)

	// Simulate a record approved before approve+apply became one step
	stored, _ := f.edits.GetByID(ctx, req.ID)
	stored.Status = domain.EditRequestApproved

	applied, err := f.svc.ApplyEditRequest(ctx, managerActor(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EditRequestApplied, applied.Status)

	client, _ := f.clients.GetByID(ctx, 10)
	assert.Equal(t, "R. Sharma", client.ContactName)
}

func TestApplyPendingRequestIsInvalid(t *testing.T) {
	f := newEditServiceFixture(t)
	ctx := context.Background()

	req, err := f.svc.CreateEditRequest(ctx, salesActor(), &CreateEditRequestInput{
		ClientID:       10,
		FieldName:      "contact_name",
		RequestedValue: "R. Sharma",
	})
	require.NoError(t, err)

	// PENDING has no direct path to APPLIED
	_, err = f.svc.ApplyEditRequest(ctx, managerActor(), req.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}
