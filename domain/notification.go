package domain

import "time"

// Notification types.
const (
	NotificationMilestone = "milestone"
	NotificationReminder  = "reminder"
	NotificationSystem    = "system"
	NotificationSocial    = "social"
	NotificationStreak    = "streak"
)

// Notification is an in-app message for a user.
type Notification struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipient_id"`
	SenderID    string    `json:"sender_id,omitempty"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Link        string    `json:"link,omitempty"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}
