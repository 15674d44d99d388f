package models

import "time"

// Notification channel providers understood by the backend.
const (
	ProviderDiscordWebhook = "discord_webhook"
	ProviderTelegramBot    = "telegram_bot"
	ProviderSlackWebhook   = "slack_webhook"
)

// NotificationChannel represents an outbound notification channel
// configuration (webhook URL or bot credentials plus delivery hours).
type NotificationChannel struct {
	ID                int            `json:"id"`
	UserID            int            `json:"user_id"`
	Provider          string         `json:"provider"`
	Credentials       map[string]any `json:"credentials"`
	Name              string         `json:"name,omitempty"`
	NotificationHours []int          `json:"notification_hours,omitempty"`
	IsActive          bool           `json:"is_active"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// NotificationChannelCreate is the body for POST /notifications.
type NotificationChannelCreate struct {
	Provider          string         `json:"provider"`
	Credentials       map[string]any `json:"credentials"`
	Name              string         `json:"name,omitempty"`
	NotificationHours []int          `json:"notification_hours,omitempty"`
}

// NotificationChannelUpdate is the body for PUT /notifications/{id}.
// Nil fields are left unchanged.
type NotificationChannelUpdate struct {
	Provider          *string         `json:"provider,omitempty"`
	Credentials       *map[string]any `json:"credentials,omitempty"`
	Name              *string         `json:"name,omitempty"`
	IsActive          *bool           `json:"is_active,omitempty"`
	NotificationHours *[]int          `json:"notification_hours,omitempty"`
}
