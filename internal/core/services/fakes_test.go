package services

import (
	"context"
	"sort"
	"time"

	"consultease/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// In-memory repository fakes for service tests. They mirror the
// conditional-update semantics of the real repositories: claim methods
// return won=false when the record is no longer in the expected state.

type fakeUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*models.User{}, nextID: 1}
}

func (r *fakeUserRepo) add(u *models.User) *models.User {
	if u.ID == 0 {
		u.ID = r.nextID
		r.nextID++
	} else if u.ID >= r.nextID {
		r.nextID = u.ID + 1
	}
	r.users[u.ID] = u
	return u
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.add(user)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uint) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, offset, limit int) ([]*models.User, int64, error) {
	out := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) ListByManager(_ context.Context, managerID uint) ([]*models.User, error) {
	var out []*models.User
	for _, u := range r.users {
		if u.ManagerID != nil && *u.ManagerID == managerID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(context.Background(), username)
	return err == nil, nil
}

func (r *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(context.Background(), email)
	return err == nil, nil
}

func (r *fakeUserRepo) SetLastLogin(_ context.Context, id uint) error {
	if u, ok := r.users[id]; ok {
		now := time.Now()
		u.LastLoginAt = &now
	}
	return nil
}

func (r *fakeUserRepo) ClearLastLogin(_ context.Context, id uint) error {
	if u, ok := r.users[id]; ok {
		u.LastLoginAt = nil
	}
	return nil
}

type fakeRefreshTokenRepo struct {
	tokens map[uint]*models.RefreshToken
	nextID uint
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{tokens: map[uint]*models.RefreshToken{}, nextID: 1}
}

func (r *fakeRefreshTokenRepo) Create(_ context.Context, token *models.RefreshToken) error {
	token.ID = r.nextID
	r.nextID++
	r.tokens[token.ID] = token
	return nil
}

func (r *fakeRefreshTokenRepo) GetByTokenHash(_ context.Context, tokenHash string) (*models.RefreshToken, error) {
	for _, t := range r.tokens {
		if t.TokenHash == tokenHash {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRefreshTokenRepo) GetByUserID(_ context.Context, userID uint) ([]*models.RefreshToken, error) {
	var out []*models.RefreshToken
	for _, t := range r.tokens {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeRefreshTokenRepo) Revoke(_ context.Context, id uint) error {
	t, ok := r.tokens[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	t.RevokedAt = &now
	return nil
}

func (r *fakeRefreshTokenRepo) RevokeByTokenHash(_ context.Context, tokenHash string) error {
	for _, t := range r.tokens {
		if t.TokenHash == tokenHash {
			now := time.Now()
			t.RevokedAt = &now
			return nil
		}
	}
	return nil
}

func (r *fakeRefreshTokenRepo) RevokeAllByUserID(_ context.Context, userID uint) error {
	for _, t := range r.tokens {
		if t.UserID == userID {
			now := time.Now()
			t.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeRefreshTokenRepo) DeleteExpired(_ context.Context) (int64, error) {
	var deleted int64
	for id, t := range r.tokens {
		if t.IsExpired() {
			delete(r.tokens, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeRefreshTokenRepo) CountActiveByUserID(_ context.Context, userID uint) (int64, error) {
	var count int64
	for _, t := range r.tokens {
		if t.UserID == userID && !t.IsRevoked() && !t.IsExpired() {
			count++
		}
	}
	return count, nil
}

type fakeClientRepo struct {
	clients map[uint]*models.Client
	nextID  uint
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{clients: map[uint]*models.Client{}, nextID: 1}
}

func (r *fakeClientRepo) add(c *models.Client) *models.Client {
	if c.ID == 0 {
		c.ID = r.nextID
		r.nextID++
	} else if c.ID >= r.nextID {
		r.nextID = c.ID + 1
	}
	r.clients[c.ID] = c
	return c
}

func (r *fakeClientRepo) Create(_ context.Context, client *models.Client) error {
	r.add(client)
	return nil
}

func (r *fakeClientRepo) GetByID(_ context.Context, id uint) (*models.Client, error) {
	c, ok := r.clients[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *fakeClientRepo) Update(_ context.Context, client *models.Client) error {
	r.clients[client.ID] = client
	return nil
}

func (r *fakeClientRepo) all() []*models.Client {
	out := make([]*models.Client, 0, len(r.clients))
	for _, c := range r.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeClientRepo) List(_ context.Context, offset, limit int) ([]*models.Client, int64, error) {
	out := r.all()
	return out, int64(len(out)), nil
}

func (r *fakeClientRepo) ListByAssignee(_ context.Context, userID uint, offset, limit int) ([]*models.Client, int64, error) {
	var out []*models.Client
	for _, c := range r.all() {
		if c.AssignedTo == userID {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeClientRepo) ListByManager(_ context.Context, managerID uint, offset, limit int) ([]*models.Client, int64, error) {
	var out []*models.Client
	for _, c := range r.all() {
		if c.AssignedManagerID != nil && *c.AssignedManagerID == managerID {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeClientRepo) ListPending(_ context.Context, offset, limit int) ([]*models.Client, int64, error) {
	var out []*models.Client
	for _, c := range r.all() {
		if !c.IsApproved && c.RejectionReason == "" {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeClientRepo) ApproveIfPending(_ context.Context, id, approverID uint) (bool, error) {
	c, ok := r.clients[id]
	if !ok || c.IsApproved || c.RejectionReason != "" {
		return false, nil
	}
	now := time.Now()
	c.IsApproved = true
	c.ApprovedBy = &approverID
	c.ApprovedAt = &now
	return true, nil
}

func (r *fakeClientRepo) RejectIfPending(_ context.Context, id, approverID uint, reason string) (bool, error) {
	c, ok := r.clients[id]
	if !ok || c.IsApproved || c.RejectionReason != "" {
		return false, nil
	}
	now := time.Now()
	c.RejectionReason = reason
	c.ApprovedBy = &approverID
	c.ApprovedAt = &now
	return true, nil
}

func (r *fakeClientRepo) UpdateFigures(_ context.Context, id uint, figures map[string]interface{}) error {
	c, ok := r.clients[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := figures["total_pitched_amount"].(float64); ok {
		c.TotalPitchedAmount = v
	}
	if v, ok := figures["gst_percentage"].(float64); ok {
		c.GSTPercentage = v
	}
	if v, ok := figures["gst_amount"].(float64); ok {
		c.GSTAmount = v
	}
	if v, ok := figures["total_with_gst"].(float64); ok {
		c.TotalWithGST = v
	}
	if v, ok := figures["received_amount"].(float64); ok {
		c.ReceivedAmount = v
	}
	if v, ok := figures["pending_amount"].(float64); ok {
		c.PendingAmount = v
	}
	return nil
}

func (r *fakeClientRepo) ApplyField(_ context.Context, id uint, field, value string) error {
	c, ok := r.clients[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	switch field {
	case "company_name":
		c.CompanyName = value
	case "contact_name":
		c.ContactName = value
	case "contact_email":
		c.ContactEmail = value
	case "contact_phone":
		c.ContactPhone = value
	}
	return nil
}

func (r *fakeClientRepo) SetAccount(_ context.Context, id, userID uint) error {
	c, ok := r.clients[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.UserID = &userID
	return nil
}

type fakeBookingRepo struct {
	bookings map[uint]*models.Booking
	nextID   uint
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: map[uint]*models.Booking{}, nextID: 1}
}

func (r *fakeBookingRepo) add(b *models.Booking) *models.Booking {
	if b.ID == 0 {
		b.ID = r.nextID
		r.nextID++
	} else if b.ID >= r.nextID {
		r.nextID = b.ID + 1
	}
	r.bookings[b.ID] = b
	return b
}

func (r *fakeBookingRepo) Create(_ context.Context, booking *models.Booking) error {
	r.add(booking)
	return nil
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id uint) (*models.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return b, nil
}

func (r *fakeBookingRepo) Update(_ context.Context, booking *models.Booking) error {
	r.bookings[booking.ID] = booking
	return nil
}

func (r *fakeBookingRepo) List(_ context.Context, offset, limit int) ([]*models.Booking, int64, error) {
	out := make([]*models.Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		out = append(out, b)
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) ListByClient(_ context.Context, clientID uint) ([]*models.Booking, error) {
	var out []*models.Booking
	for _, b := range r.bookings {
		if b.ClientID == clientID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeBookingRepo) MarkPaidIfActive(_ context.Context, id uint) (bool, error) {
	b, ok := r.bookings[id]
	if !ok || b.Status != "ACTIVE" {
		return false, nil
	}
	b.Status = "PAID"
	return true, nil
}

func (r *fakeBookingRepo) UpdateFigures(_ context.Context, id uint, figures map[string]interface{}) error {
	b, ok := r.bookings[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := figures["total_pitched_amount"].(float64); ok {
		b.TotalPitchedAmount = v
	}
	if v, ok := figures["gst_percentage"].(float64); ok {
		b.GSTPercentage = v
	}
	if v, ok := figures["gst_amount"].(float64); ok {
		b.GSTAmount = v
	}
	if v, ok := figures["total_with_gst"].(float64); ok {
		b.TotalWithGST = v
	}
	if v, ok := figures["received_amount"].(float64); ok {
		b.ReceivedAmount = v
	}
	if v, ok := figures["pending_amount"].(float64); ok {
		b.PendingAmount = v
	}
	return nil
}

type fakePaymentRepo struct {
	payments map[uint]*models.Payment
	nextID   uint

	// loseNextClaim makes the next TransitionStatus report a lost race
	loseNextClaim bool
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: map[uint]*models.Payment{}, nextID: 1}
}

func (r *fakePaymentRepo) add(p *models.Payment) *models.Payment {
	if p.ID == 0 {
		p.ID = r.nextID
		r.nextID++
	} else if p.ID >= r.nextID {
		r.nextID = p.ID + 1
	}
	r.payments[p.ID] = p
	return p
}

func (r *fakePaymentRepo) Create(_ context.Context, payment *models.Payment) error {
	r.add(payment)
	return nil
}

func (r *fakePaymentRepo) GetByID(_ context.Context, id uint) (*models.Payment, error) {
	p, ok := r.payments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *fakePaymentRepo) GetByReferenceID(_ context.Context, referenceID string) (*models.Payment, error) {
	for _, p := range r.payments {
		if p.ReferenceID == referenceID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePaymentRepo) List(_ context.Context, offset, limit int) ([]*models.Payment, int64, error) {
	out := make([]*models.Payment, 0, len(r.payments))
	for _, p := range r.payments {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *fakePaymentRepo) ListByClient(_ context.Context, clientID uint) ([]*models.Payment, error) {
	var out []*models.Payment
	for _, p := range r.payments {
		if p.ClientID == clientID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakePaymentRepo) ListByBooking(_ context.Context, bookingID uint) ([]*models.Payment, error) {
	var out []*models.Payment
	for _, p := range r.payments {
		if p.BookingID == bookingID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) ListByStatus(_ context.Context, status string, offset, limit int) ([]*models.Payment, int64, error) {
	var out []*models.Payment
	for _, p := range r.payments {
		if p.Status == status {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakePaymentRepo) TransitionStatus(_ context.Context, id uint, from, to string, updates map[string]interface{}) (bool, error) {
	if r.loseNextClaim {
		r.loseNextClaim = false
		return false, nil
	}
	p, ok := r.payments[id]
	if !ok || p.Status != from {
		return false, nil
	}
	p.Status = to
	if v, ok := updates["resolved_by"].(uint); ok {
		p.ResolvedBy = &v
	}
	if v, ok := updates["rejection_reason"].(string); ok {
		p.RejectionReason = v
	}
	if v, ok := updates["payment_date"].(*time.Time); ok {
		p.PaymentDate = v
	}
	return true, nil
}

func (r *fakePaymentRepo) SumCapturedByBooking(_ context.Context, bookingID uint) (float64, error) {
	var sum float64
	for _, p := range r.payments {
		if p.BookingID == bookingID && p.Status == "CAPTURED" {
			sum += p.Amount
		}
	}
	return sum, nil
}

type fakeEditRepo struct {
	requests map[uint]*models.EditRequest
	nextID   uint
	clients  *fakeClientRepo
}

func newFakeEditRepo(clients *fakeClientRepo) *fakeEditRepo {
	return &fakeEditRepo{requests: map[uint]*models.EditRequest{}, nextID: 1, clients: clients}
}

func (r *fakeEditRepo) Create(_ context.Context, req *models.EditRequest) error {
	if req.ID == 0 {
		req.ID = r.nextID
		r.nextID++
	}
	r.requests[req.ID] = req
	return nil
}

func (r *fakeEditRepo) GetByID(_ context.Context, id uint) (*models.EditRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return req, nil
}

func (r *fakeEditRepo) List(_ context.Context, offset, limit int) ([]*models.EditRequest, int64, error) {
	out := make([]*models.EditRequest, 0, len(r.requests))
	for _, req := range r.requests {
		out = append(out, req)
	}
	return out, int64(len(out)), nil
}

func (r *fakeEditRepo) ListByStatus(_ context.Context, status string, offset, limit int) ([]*models.EditRequest, int64, error) {
	var out []*models.EditRequest
	for _, req := range r.requests {
		if req.Status == status {
			out = append(out, req)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeEditRepo) ListByRequester(_ context.Context, userID uint, offset, limit int) ([]*models.EditRequest, int64, error) {
	var out []*models.EditRequest
	for _, req := range r.requests {
		if req.RequestedBy == userID {
			out = append(out, req)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeEditRepo) TransitionStatus(_ context.Context, id uint, from, to string, updates map[string]interface{}) (bool, error) {
	req, ok := r.requests[id]
	if !ok || req.Status != from {
		return false, nil
	}
	req.Status = to
	if v, ok := updates["approved_by"].(uint); ok {
		req.ApprovedBy = &v
	}
	if v, ok := updates["approval_notes"].(string); ok {
		req.ApprovalNotes = v
	}
	if v, ok := updates["approval_date"].(*time.Time); ok {
		req.ApprovalDate = v
	}
	return true, nil
}

func (r *fakeEditRepo) ApproveAndApply(ctx context.Context, req *models.EditRequest, approverID uint, notes string) (bool, error) {
	stored, ok := r.requests[req.ID]
	if !ok || stored.Status != "PENDING" {
		return false, nil
	}
	now := time.Now()
	stored.Status = "APPLIED"
	stored.ApprovedBy = &approverID
	stored.ApprovalNotes = notes
	stored.ApprovalDate = &now
	return true, r.clients.ApplyField(ctx, stored.EntityID, stored.FieldName, stored.RequestedValue)
}

type fakeCredentialRepo struct {
	creds       map[uint]*models.ClientCredential // keyed by client ID
	nextID      uint
	createCount int
}

func newFakeCredentialRepo() *fakeCredentialRepo {
	return &fakeCredentialRepo{creds: map[uint]*models.ClientCredential{}, nextID: 1}
}

func (r *fakeCredentialRepo) Create(_ context.Context, cred *models.ClientCredential) error {
	cred.ID = r.nextID
	r.nextID++
	r.creds[cred.ClientID] = cred
	r.createCount++
	return nil
}

func (r *fakeCredentialRepo) GetByClientID(_ context.Context, clientID uint) (*models.ClientCredential, error) {
	cred, ok := r.creds[clientID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cred, nil
}

func (r *fakeCredentialRepo) UpdateContact(_ context.Context, id uint, username, email string) error {
	for _, cred := range r.creds {
		if cred.ID == id {
			cred.Username = username
			cred.Email = email
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeCredentialRepo) MarkSent(_ context.Context, id, sentBy uint) error {
	for _, cred := range r.creds {
		if cred.ID == id {
			now := time.Now()
			cred.IsSent = true
			cred.SentBy = &sentBy
			cred.SentAt = &now
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeRevenueRepo struct {
	entries []*models.RevenueEntry
}

func (r *fakeRevenueRepo) Create(_ context.Context, entry *models.RevenueEntry) error {
	entry.ID = uint(len(r.entries) + 1)
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeRevenueRepo) ListByClient(_ context.Context, clientID uint, offset, limit int) ([]*models.RevenueEntry, int64, error) {
	var out []*models.RevenueEntry
	for _, e := range r.entries {
		if e.ClientID == clientID {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

type fakeNotifier struct {
	approvedCalls int
	rejectedCalls int
	capturedCalls int
	decidedCalls  int
	err           error
}

func (n *fakeNotifier) NotifyClientApproved(*models.Client, *models.ClientCredential) error {
	n.approvedCalls++
	return n.err
}

func (n *fakeNotifier) NotifyClientRejected(*models.Client, string) error {
	n.rejectedCalls++
	return n.err
}

func (n *fakeNotifier) NotifyPaymentCaptured(*models.Payment) error {
	n.capturedCalls++
	return n.err
}

func (n *fakeNotifier) NotifyEditRequestDecided(*models.EditRequest) error {
	n.decidedCalls++
	return n.err
}
