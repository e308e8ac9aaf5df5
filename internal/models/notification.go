package models

// NotificationType categorizes a notification
type NotificationType string

const (
	NotificationTask       NotificationType = "task"
	NotificationDeadline   NotificationType = "deadline"
	NotificationMention    NotificationType = "mention"
	NotificationAssignment NotificationType = "assignment"
	NotificationError      NotificationType = "error"
)

// Notification is an alert surfaced to the current user
type Notification struct {
	ID      string           `json:"id" yaml:"id"`
	Type    NotificationType `json:"type" yaml:"type"`
	Title   string           `json:"title" yaml:"title"`
	Message string           `json:"message" yaml:"message"`
	Time    string           `json:"time" yaml:"time"`
	Read    bool             `json:"read" yaml:"read"`
	// Priority orders generated notifications; lower is more urgent.
	Priority int `json:"priority,omitempty" yaml:"priority,omitempty"`
}
