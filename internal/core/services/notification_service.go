package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"consultease/internal/adapters/persistence/models"
)

// NotificationService posts events to the office notification webhook
// (Slack-compatible payload). Disabled when no webhook URL is configured.
type NotificationService struct {
	webhookURL string
	authToken  string
	enabled    bool
	client     *http.Client
}

// NewNotificationService creates a new notification service
func NewNotificationService() *NotificationService {
	url := os.Getenv("NOTIFY_WEBHOOK_URL")
	return &NotificationService{
		webhookURL: url,
		authToken:  os.Getenv("NOTIFY_WEBHOOK_TOKEN"),
		enabled:    url != "",
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// IsEnabled checks if notification is enabled
func (s *NotificationService) IsEnabled() bool {
	return s.enabled
}

// send posts a message to the webhook
func (s *NotificationService) send(message string) error {
	if !s.enabled {
		return nil
	}

	payload, err := json.Marshal(map[string]string{"text": message})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, s.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	if s.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}

// NotifyClientApproved announces a client approval and the issued login
func (s *NotificationService) NotifyClientApproved(client *models.Client, cred *models.ClientCredential) error {
	message := fmt.Sprintf(`✅ Client approved

🏢 Client: #%d %s
📧 Contact: %s
👤 Portal login issued for: %s

Please share the credentials with the client.`,
		client.ID,
		client.CompanyName,
		client.ContactEmail,
		cred.Username,
	)

	return s.send(message)
}

// NotifyClientRejected announces a client rejection
func (s *NotificationService) NotifyClientRejected(client *models.Client, reason string) error {
	message := fmt.Sprintf(`❌ Client rejected

🏢 Client: #%d %s
📝 Reason: %s`,
		client.ID,
		client.CompanyName,
		reason,
	)

	return s.send(message)
}

// NotifyPaymentCaptured announces a captured payment
func (s *NotificationService) NotifyPaymentCaptured(payment *models.Payment) error {
	message := fmt.Sprintf(`💰 Payment captured

📋 Reference: %s
🏢 Client: #%d
📦 Booking: #%d
💵 Amount: %.2f`,
		payment.ReferenceID,
		payment.ClientID,
		payment.BookingID,
		payment.Amount,
	)

	return s.send(message)
}

// NotifyEditRequestDecided announces an edit request decision
func (s *NotificationService) NotifyEditRequestDecided(req *models.EditRequest) error {
	message := fmt.Sprintf(`🔄 Edit request decided

📋 Request: #%d
🏢 Client: #%d
✏️ Field: %s
📊 Status: %s`,
		req.ID,
		req.EntityID,
		req.FieldName,
		req.Status,
	)

	return s.send(message)
}
