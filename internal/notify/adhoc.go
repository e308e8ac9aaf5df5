package notify

import (
	"fmt"

	"github.com/tgienger/projexis/internal/models"
)

// Mention builds the notification for a message that mentions the current user
func Mention(msg models.Message) models.Notification {
	sender := msg.Sender.Name
	if sender == "" {
		sender = "Someone"
	}
	return models.Notification{
		ID:       MentionID(msg.ID).String(),
		Type:     models.NotificationMention,
		Title:    "You were mentioned",
		Message:  fmt.Sprintf("%s mentioned you in a message", sender),
		Time:     "Just now",
		Priority: 1,
	}
}

// MentionSent builds the notification for a message the current user sent with mentions
func MentionSent(msg models.Message, author string) models.Notification {
	return models.Notification{
		ID:      MentionID(msg.ID).String(),
		Type:    models.NotificationMention,
		Title:   "You were mentioned",
		Message: fmt.Sprintf("%s mentioned someone in a message", author),
		Time:    "Just now",
	}
}

// TeamMemberInvited builds the notification for a newly added team member
func TeamMemberInvited(id string, m models.TeamMember) models.Notification {
	return models.Notification{
		ID:      TeamMemberID(id).String(),
		Type:    models.NotificationAssignment,
		Title:   "Team Member Invited",
		Message: fmt.Sprintf("%s (%s) was added to the team as %s", m.Name, m.Email, m.Role),
		Time:    "Just now",
	}
}

// Failure builds the notification reporting a failed operation
func Failure(ref, title string, err error) models.Notification {
	message := "Please try again."
	if err != nil && err.Error() != "" {
		message = err.Error()
	}
	return models.Notification{
		ID:      ErrorID(ref).String(),
		Type:    models.NotificationError,
		Title:   title,
		Message: message,
		Time:    "Just now",
	}
}
