package store

import (
	"context"

	"github.com/tgienger/projexis/internal/models"
	"github.com/tgienger/projexis/internal/notify"
)

// UnreadMessages returns the unread message count from the last poll
func (s *Store) UnreadMessages() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unreadMessages
}

// PollMessages refreshes the unread message count and turns unread
// mentions into notifications. It returns how many mentions were new.
func (s *Store) PollMessages(ctx context.Context) (int, error) {
	user, ok := s.User()
	if !ok {
		return 0, ErrNotAuthenticated
	}
	count, err := s.api.UnreadCount(ctx)
	if err != nil {
		return 0, err
	}
	mentions, err := s.api.UnreadMentions(ctx)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil || s.user.Email != user.Email {
		// signed out or switched accounts while the poll was in flight
		return 0, nil
	}
	s.unreadMessages = count

	added := 0
	for _, msg := range mentions {
		list, changed := notify.Push(s.notifications, notify.Mention(msg))
		if changed {
			s.notifications = list
			added++
		}
	}
	if added > 0 {
		if err := s.persistLocked(); err != nil {
			return added, err
		}
	}
	return added, nil
}

// Conversations lists one summary per conversation partner
func (s *Store) Conversations(ctx context.Context) ([]models.Conversation, error) {
	return s.api.ListConversations(ctx)
}

// OpenConversation fetches the thread with userID and marks it read
func (s *Store) OpenConversation(ctx context.Context, userID string) ([]models.Message, error) {
	msgs, err := s.api.Conversation(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.api.MarkConversationRead(ctx, userID); err != nil {
		s.logger.Warn().Err(err).Str("user", userID).Msg("failed to mark conversation read")
	}
	return msgs, nil
}

// SendMessage sends content to receiverID. A message carrying mentions
// is also recorded as a mention notification.
func (s *Store) SendMessage(ctx context.Context, receiverID, content string) (*models.Message, error) {
	user, ok := s.User()
	if !ok {
		return nil, ErrNotAuthenticated
	}
	msg, err := s.api.SendMessage(ctx, receiverID, content)
	if err != nil {
		s.logger.Error().Err(err).Str("receiver", receiverID).Msg("failed to send message")
		return nil, err
	}
	if len(msg.Mentions) > 0 {
		if err := s.PushNotification(notify.MentionSent(*msg, user.Name)); err != nil {
			s.logger.Warn().Err(err).Msg("failed to persist mention notification")
		}
	}
	return msg, nil
}

// EditMessage replaces a message's content
func (s *Store) EditMessage(ctx context.Context, id, content string) (*models.Message, error) {
	return s.api.EditMessage(ctx, id, content)
}

// DeleteMessage deletes a message
func (s *Store) DeleteMessage(ctx context.Context, id string) error {
	return s.api.DeleteMessage(ctx, id)
}
