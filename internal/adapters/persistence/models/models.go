package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Accounts
// ============================================================

// User represents users table. Role holds a normalized domain.Role
// string; IsOwner marks an admin distinguished as company owner.
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Username    string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email       string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password    string         `gorm:"size:255;not null" json:"-"`
	Role        string         `gorm:"size:20;default:'SALES'" json:"role"`
	IsOwner     bool           `gorm:"default:false" json:"is_owner"`
	IsSuperuser bool           `gorm:"default:false" json:"is_superuser"`
	ManagerID   *uint          `gorm:"index" json:"manager_id"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	LastLoginAt *time.Time     `json:"last_login_at"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Manager *User `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID          uint       `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	IsOwner     bool       `json:"is_owner"`
	IsSuperuser bool       `json:"is_superuser"`
	ManagerID   *uint      `json:"manager_id"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Role:        u.Role,
		IsOwner:     u.IsOwner,
		IsSuperuser: u.IsSuperuser,
		ManagerID:   u.ManagerID,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Clients & Bookings
// ============================================================

// Client is the business entity under consultancy, not a login account.
// Clients are never deleted, only superseded, so there is no DeletedAt.
type Client struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	CompanyName  string `gorm:"size:200;not null" json:"company_name"`
	ContactName  string `gorm:"size:100" json:"contact_name"`
	ContactEmail string `gorm:"size:100;index" json:"contact_email"`
	ContactPhone string `gorm:"size:20" json:"contact_phone"`

	// Approval lifecycle
	IsApproved      bool       `gorm:"default:false;index" json:"is_approved"`
	ApprovedBy      *uint      `json:"approved_by"`
	ApprovedAt      *time.Time `json:"approved_at"`
	RejectionReason string     `gorm:"type:text" json:"rejection_reason"`

	// Revenue figures (written by the revenue service only)
	TotalPitchedAmount float64 `gorm:"type:decimal(15,2);default:0" json:"total_pitched_amount"`
	GSTPercentage      float64 `gorm:"type:decimal(5,2);default:18" json:"gst_percentage"`
	GSTAmount          float64 `gorm:"type:decimal(15,2);default:0" json:"gst_amount"`
	TotalWithGST       float64 `gorm:"type:decimal(15,2);default:0" json:"total_with_gst"`
	ReceivedAmount     float64 `gorm:"type:decimal(15,2);default:0" json:"received_amount"`
	PendingAmount      float64 `gorm:"type:decimal(15,2);default:0" json:"pending_amount"`

	// Ownership
	AssignedTo        uint  `gorm:"not null;index" json:"assigned_to"`
	AssignedManagerID *uint `gorm:"index" json:"assigned_manager_id"`
	UserID            *uint `gorm:"index" json:"user_id"` // linked login account, set on approval

	CreatedBy uint      `gorm:"not null" json:"created_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	SalesRep        *User     `gorm:"foreignKey:AssignedTo" json:"sales_rep,omitempty"`
	AssignedManager *User     `gorm:"foreignKey:AssignedManagerID" json:"assigned_manager,omitempty"`
	Approver        *User     `gorm:"foreignKey:ApprovedBy" json:"approver,omitempty"`
	Account         *User     `gorm:"foreignKey:UserID" json:"account,omitempty"`
	Bookings        []Booking `gorm:"foreignKey:ClientID" json:"bookings,omitempty"`
}

func (Client) TableName() string {
	return "clients"
}

// ClientResponse DTO
type ClientResponse struct {
	ID                 uint       `json:"id"`
	CompanyName        string     `json:"company_name"`
	ContactName        string     `json:"contact_name"`
	ContactEmail       string     `json:"contact_email"`
	IsApproved         bool       `json:"is_approved"`
	ApprovedBy         *uint      `json:"approved_by"`
	ApprovedAt         *time.Time `json:"approved_at"`
	RejectionReason    string     `json:"rejection_reason,omitempty"`
	TotalPitchedAmount float64    `json:"total_pitched_amount"`
	GSTPercentage      float64    `json:"gst_percentage"`
	GSTAmount          float64    `json:"gst_amount"`
	TotalWithGST       float64    `json:"total_with_gst"`
	ReceivedAmount     float64    `json:"received_amount"`
	PendingAmount      float64    `json:"pending_amount"`
	AssignedTo         uint       `json:"assigned_to"`
	SalesRepName       string     `json:"sales_rep_name,omitempty"`
	ManagerName        string     `json:"manager_name,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

func (cl *Client) ToResponse() *ClientResponse {
	resp := &ClientResponse{
		ID:                 cl.ID,
		CompanyName:        cl.CompanyName,
		ContactName:        cl.ContactName,
		ContactEmail:       cl.ContactEmail,
		IsApproved:         cl.IsApproved,
		ApprovedBy:         cl.ApprovedBy,
		ApprovedAt:         cl.ApprovedAt,
		RejectionReason:    cl.RejectionReason,
		TotalPitchedAmount: cl.TotalPitchedAmount,
		GSTPercentage:      cl.GSTPercentage,
		GSTAmount:          cl.GSTAmount,
		TotalWithGST:       cl.TotalWithGST,
		ReceivedAmount:     cl.ReceivedAmount,
		PendingAmount:      cl.PendingAmount,
		AssignedTo:         cl.AssignedTo,
		CreatedAt:          cl.CreatedAt,
	}

	if cl.SalesRep != nil {
		resp.SalesRepName = cl.SalesRep.Username
	}
	if cl.AssignedManager != nil {
		resp.ManagerName = cl.AssignedManager.Username
	}

	return resp
}

// Booking is a service engagement under a client, carrying its own
// pitched/GST/received/pending quadruple with the same formula.
type Booking struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ClientID    uint   `gorm:"not null;index" json:"client_id"`
	ServiceName string `gorm:"size:200;not null" json:"service_name"`
	Status      string `gorm:"size:20;not null;default:'ACTIVE'" json:"status"`

	TotalPitchedAmount float64 `gorm:"type:decimal(15,2);default:0" json:"total_pitched_amount"`
	GSTPercentage      float64 `gorm:"type:decimal(5,2);default:18" json:"gst_percentage"`
	GSTAmount          float64 `gorm:"type:decimal(15,2);default:0" json:"gst_amount"`
	TotalWithGST       float64 `gorm:"type:decimal(15,2);default:0" json:"total_with_gst"`
	ReceivedAmount     float64 `gorm:"type:decimal(15,2);default:0" json:"received_amount"`
	PendingAmount      float64 `gorm:"type:decimal(15,2);default:0" json:"pending_amount"`

	AssignedTo uint           `gorm:"not null;index" json:"assigned_to"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Client   *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	SalesRep *User   `gorm:"foreignKey:AssignedTo" json:"sales_rep,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}

// ============================================================
// Payments
// ============================================================

// Payment belongs to exactly one booking and one client
type Payment struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	BookingID       uint       `gorm:"not null;index" json:"booking_id"`
	ClientID        uint       `gorm:"not null;index" json:"client_id"`
	Amount          float64    `gorm:"type:decimal(15,2);not null" json:"amount"`
	Status          string     `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	ReceivedBy      uint       `gorm:"not null;index" json:"received_by"`
	ReferenceID     string     `gorm:"size:50;uniqueIndex;not null" json:"reference_id"`
	PaymentDate     *time.Time `json:"payment_date"`
	ResolvedBy      *uint      `json:"resolved_by"`
	RejectionReason string     `gorm:"type:text" json:"rejection_reason"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Booking  *Booking `gorm:"foreignKey:BookingID" json:"booking,omitempty"`
	Client   *Client  `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Receiver *User    `gorm:"foreignKey:ReceivedBy" json:"receiver,omitempty"`
	Resolver *User    `gorm:"foreignKey:ResolvedBy" json:"resolver,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}

// PaymentResponse DTO
type PaymentResponse struct {
	ID           uint       `json:"id"`
	BookingID    uint       `json:"booking_id"`
	ClientID     uint       `json:"client_id"`
	Amount       float64    `json:"amount"`
	Status       string     `json:"status"`
	ReceivedBy   uint       `json:"received_by"`
	ReceiverName string     `json:"receiver_name,omitempty"`
	ReferenceID  string     `json:"reference_id"`
	PaymentDate  *time.Time `json:"payment_date"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (p *Payment) ToResponse() *PaymentResponse {
	resp := &PaymentResponse{
		ID:          p.ID,
		BookingID:   p.BookingID,
		ClientID:    p.ClientID,
		Amount:      p.Amount,
		Status:      p.Status,
		ReceivedBy:  p.ReceivedBy,
		ReferenceID: p.ReferenceID,
		PaymentDate: p.PaymentDate,
		CreatedAt:   p.CreatedAt,
	}

	if p.Receiver != nil {
		resp.ReceiverName = p.Receiver.Username
	}

	return resp
}

// ============================================================
// Edit Requests
// ============================================================

// EditRequest is a proposed single-field change to an entity.
// Values are carried as strings; apply performs plain string assignment.
type EditRequest struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	EntityType     string     `gorm:"size:30;not null;default:'client'" json:"entity_type"`
	EntityID       uint       `gorm:"not null;index" json:"entity_id"`
	FieldName      string     `gorm:"size:50;not null" json:"field_name"`
	CurrentValue   string     `gorm:"type:text" json:"current_value"`
	RequestedValue string     `gorm:"type:text" json:"requested_value"`
	Status         string     `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	RequestedBy    uint       `gorm:"not null;index" json:"requested_by"`
	ApprovedBy     *uint      `json:"approved_by"`
	ApprovalNotes  string     `gorm:"type:text" json:"approval_notes"`
	ApprovalDate   *time.Time `json:"approval_date"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Requester *User `gorm:"foreignKey:RequestedBy" json:"requester,omitempty"`
	Approver  *User `gorm:"foreignKey:ApprovedBy" json:"approver,omitempty"`
}

func (EditRequest) TableName() string {
	return "edit_requests"
}

// ============================================================
// Credentials & Revenue Ledger
// ============================================================

// ClientCredential is the one-time login secret issued when a client is
// first approved. PlainPassword is a deliberate, bounded exception to
// normal secret handling: it exists so the password can be displayed or
// emailed exactly once, and is never regenerated.
type ClientCredential struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	ClientID      uint       `gorm:"uniqueIndex;not null" json:"client_id"`
	Username      string     `gorm:"size:100;not null" json:"username"`
	Email         string     `gorm:"size:100;not null" json:"email"`
	PlainPassword string     `gorm:"size:100;not null" json:"-"`
	IsSent        bool       `gorm:"default:false" json:"is_sent"`
	SentBy        *uint      `json:"sent_by"`
	SentAt        *time.Time `json:"sent_at"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`

	Client *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

func (ClientCredential) TableName() string {
	return "client_credentials"
}

// RevenueEntry is an append-only snapshot of a client's figures at a
// point in time. Never updated or deleted.
type RevenueEntry struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ClientID      uint      `gorm:"not null;index" json:"client_id"`
	PitchedAmount float64   `gorm:"type:decimal(15,2);not null" json:"pitched_amount"`
	GSTAmount     float64   `gorm:"type:decimal(15,2);not null" json:"gst_amount"`
	TotalWithGST  float64   `gorm:"type:decimal(15,2);not null" json:"total_with_gst"`
	ReceivedAmount float64  `gorm:"type:decimal(15,2);not null" json:"received_amount"`
	PendingAmount float64   `gorm:"type:decimal(15,2);not null" json:"pending_amount"`
	Source        string    `gorm:"size:30;not null" json:"source"`
	CreatedBy     uint      `gorm:"not null" json:"created_by"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`

	Client *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

func (RevenueEntry) TableName() string {
	return "revenue_entries"
}

// Revenue entry sources
const (
	RevenueSourceCreate    = "CLIENT_CREATE"
	RevenueSourceDirect    = "DIRECT_EDIT"
	RevenueSourceAggregate = "BOOKING_AGGREGATE"
	RevenueSourcePayments  = "PAYMENT_SYNC"
	RevenueSourceSweep     = "NIGHTLY_SWEEP"
)

// ============================================================
// Funding Applications & Schemes
// ============================================================

// Scheme is government-scheme master data
type Scheme struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Code        string         `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Name        string         `gorm:"size:200;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Ministry    string         `gorm:"size:100" json:"ministry"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Scheme) TableName() string {
	return "schemes"
}

// Application is a funding application filed for a client under a scheme
type Application struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	ClientID    uint           `gorm:"not null;index" json:"client_id"`
	SchemeID    uint           `gorm:"not null;index" json:"scheme_id"`
	Status      string         `gorm:"size:20;not null;default:'DRAFT'" json:"status"`
	Notes       string         `gorm:"type:text" json:"notes"`
	SubmittedBy uint           `gorm:"not null" json:"submitted_by"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Client *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Scheme *Scheme `gorm:"foreignKey:SchemeID" json:"scheme,omitempty"`
}

func (Application) TableName() string {
	return "applications"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// Accounts
		&User{},
		&RefreshToken{},
		// Clients & bookings
		&Client{},
		&Booking{},
		// Payments
		&Payment{},
		// Approvals & credentials
		&EditRequest{},
		&ClientCredential{},
		// Ledger
		&RevenueEntry{},
		// Master data
		&Scheme{},
		&Application{},
	)
}
