package services

import (
	"context"
	"time"

	"consultease/internal/adapters/persistence/models"
	"consultease/internal/core/domain"

	"gorm.io/gorm"
)

// DashboardService handles dashboard aggregations. It reads across
// several tables at once, so it queries the database directly instead
// of going through the per-entity repositories.
type DashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// ============================================================
// Admin Dashboard
// ============================================================

// AdminDashboardData represents admin dashboard data
type AdminDashboardData struct {
	// User statistics
	TotalUsers    int64 `json:"total_users"`
	TotalManagers int64 `json:"total_managers"`
	TotalSales    int64 `json:"total_sales"`

	// Client statistics
	TotalClients    int64 `json:"total_clients"`
	PendingClients  int64 `json:"pending_clients"`
	ApprovedClients int64 `json:"approved_clients"`
	RejectedClients int64 `json:"rejected_clients"`

	// Revenue statistics
	TotalPitched  float64 `json:"total_pitched"`
	TotalWithGST  float64 `json:"total_with_gst"`
	TotalReceived float64 `json:"total_received"`
	TotalPending  float64 `json:"total_pending"`

	// Payment statistics
	CapturedPayments int64   `json:"captured_payments"`
	CapturedAmount   float64 `json:"captured_amount"`
	PaymentsInFlight int64   `json:"payments_in_flight"`

	// Approval queue
	PendingEditRequests int64 `json:"pending_edit_requests"`

	// Monthly statistics
	ClientsThisMonth  int64   `json:"clients_this_month"`
	ReceivedThisMonth float64 `json:"received_this_month"`

	// Recent activity
	RecentClients []ClientSummary `json:"recent_clients"`
}

// ClientSummary represents a client line on the dashboard
type ClientSummary struct {
	ID            uint      `json:"id"`
	CompanyName   string    `json:"company_name"`
	PitchedAmount float64   `json:"pitched_amount"`
	PendingAmount float64   `json:"pending_amount"`
	IsApproved    bool      `json:"is_approved"`
	CreatedAt     time.Time `json:"created_at"`
}

// GetAdminDashboard builds the admin dashboard
func (s *DashboardService) GetAdminDashboard(ctx context.Context) (*AdminDashboardData, error) {
	data := &AdminDashboardData{}
	db := s.db.WithContext(ctx)

	// 1. User counts
	db.Model(&models.User{}).Count(&data.TotalUsers)
	db.Model(&models.User{}).Where("role = ?", string(domain.RoleManager)).Count(&data.TotalManagers)
	db.Model(&models.User{}).Where("role = ?", string(domain.RoleSales)).Count(&data.TotalSales)

	// 2. Client pipeline
	db.Model(&models.Client{}).Count(&data.TotalClients)
	db.Model(&models.Client{}).Where("is_approved = ? AND (rejection_reason IS NULL OR rejection_reason = '')", false).Count(&data.PendingClients)
	db.Model(&models.Client{}).Where("is_approved = ?", true).Count(&data.ApprovedClients)
	db.Model(&models.Client{}).Where("rejection_reason IS NOT NULL AND rejection_reason <> ''").Count(&data.RejectedClients)

	// 3. Revenue rollups
	db.Model(&models.Client{}).Select("COALESCE(SUM(total_pitched_amount), 0)").Scan(&data.TotalPitched)
	db.Model(&models.Client{}).Select("COALESCE(SUM(total_with_gst), 0)").Scan(&data.TotalWithGST)
	db.Model(&models.Client{}).Select("COALESCE(SUM(received_amount), 0)").Scan(&data.TotalReceived)
	db.Model(&models.Client{}).Select("COALESCE(SUM(pending_amount), 0)").Scan(&data.TotalPending)

	// 4. Payment pipeline
	db.Model(&models.Payment{}).Where("status = ?", domain.PaymentCaptured).Count(&data.CapturedPayments)
	db.Model(&models.Payment{}).Where("status = ?", domain.PaymentCaptured).
		Select("COALESCE(SUM(amount), 0)").Scan(&data.CapturedAmount)
	db.Model(&models.Payment{}).
		Where("status IN ?", []string{domain.PaymentPending, domain.PaymentInitiated, domain.PaymentAuthorized}).
		Count(&data.PaymentsInFlight)

	// 5. Approval queue
	db.Model(&models.EditRequest{}).Where("status = ?", domain.EditRequestPending).Count(&data.PendingEditRequests)

	// 6. This month
	monthStart := time.Now().AddDate(0, 0, -30)
	db.Model(&models.Client{}).Where("created_at >= ?", monthStart).Count(&data.ClientsThisMonth)
	db.Model(&models.Payment{}).
		Where("status = ? AND payment_date >= ?", domain.PaymentCaptured, monthStart).
		Select("COALESCE(SUM(amount), 0)").Scan(&data.ReceivedThisMonth)

	// 7. Recent clients
	var recent []models.Client
	db.Order("created_at DESC").Limit(5).Find(&recent)
	data.RecentClients = make([]ClientSummary, len(recent))
	for i, c := range recent {
		data.RecentClients[i] = ClientSummary{
			ID:            c.ID,
			CompanyName:   c.CompanyName,
			PitchedAmount: c.TotalPitchedAmount,
			PendingAmount: c.PendingAmount,
			IsApproved:    c.IsApproved,
			CreatedAt:     c.CreatedAt,
		}
	}

	return data, nil
}

// ============================================================
// Team Dashboard
// ============================================================

// TeamDashboardData represents a manager or sales rep dashboard,
// restricted to their own book of clients
type TeamDashboardData struct {
	TotalClients   int64   `json:"total_clients"`
	PendingClients int64   `json:"pending_clients"`
	TotalPitched   float64 `json:"total_pitched"`
	TotalReceived  float64 `json:"total_received"`
	TotalPending   float64 `json:"total_pending"`

	RecentClients []ClientSummary `json:"recent_clients"`
}

// GetTeamDashboard builds a scoped dashboard for a manager or sales rep
func (s *DashboardService) GetTeamDashboard(ctx context.Context, actor *domain.Actor) (*TeamDashboardData, error) {
	data := &TeamDashboardData{}
	db := s.db.WithContext(ctx)

	scope := func(q *gorm.DB) *gorm.DB {
		if actor.Role.AtLeast(domain.RoleManager) {
			return q.Where("assigned_manager_id = ? OR assigned_to = ?", actor.UserID, actor.UserID)
		}
		return q.Where("assigned_to = ?", actor.UserID)
	}

	scope(db.Model(&models.Client{})).Count(&data.TotalClients)
	scope(db.Model(&models.Client{})).
		Where("is_approved = ? AND (rejection_reason IS NULL OR rejection_reason = '')", false).
		Count(&data.PendingClients)
	scope(db.Model(&models.Client{})).Select("COALESCE(SUM(total_pitched_amount), 0)").Scan(&data.TotalPitched)
	scope(db.Model(&models.Client{})).Select("COALESCE(SUM(received_amount), 0)").Scan(&data.TotalReceived)
	scope(db.Model(&models.Client{})).Select("COALESCE(SUM(pending_amount), 0)").Scan(&data.TotalPending)

	var recent []models.Client
	scope(db).Order("created_at DESC").Limit(5).Find(&recent)
	data.RecentClients = make([]ClientSummary, len(recent))
	for i, c := range recent {
		data.RecentClients[i] = ClientSummary{
			ID:            c.ID,
			CompanyName:   c.CompanyName,
			PitchedAmount: c.TotalPitchedAmount,
			PendingAmount: c.PendingAmount,
			IsApproved:    c.IsApproved,
			CreatedAt:     c.CreatedAt,
		}
	}

	return data, nil
}
