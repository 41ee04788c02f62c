package models

import "time"

// NotificationPayload is handed to the notifier collaborator; delivery
// (push, email, SMS) happens outside this service.
type NotificationPayload struct {
	Type     string            `json:"type"`
	ClientID string            `json:"clientId"`
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Data     map[string]string `json:"data,omitempty"`
	SentAt   time.Time         `json:"sentAt"`
}
