package api

import (
	"context"
	"net/http"

	"github.com/tgienger/projexis/internal/models"
	"github.com/tgienger/projexis/internal/normalize"
)

// ListConversations returns one summary per conversation partner
func (c *Client) ListConversations(ctx context.Context) ([]models.Conversation, error) {
	var raws []normalize.RawConversation
	if err := c.do(ctx, http.MethodGet, "/messages/conversations", true, nil, &raws); err != nil {
		return nil, err
	}
	return normalize.Conversations(raws), nil
}

// Conversation returns the messages exchanged with userID
func (c *Client) Conversation(ctx context.Context, userID string) ([]models.Message, error) {
	var raws []normalize.RawMessage
	if err := c.do(ctx, http.MethodGet, "/messages/"+escape(userID), true, nil, &raws); err != nil {
		return nil, err
	}
	return normalize.Messages(raws), nil
}

// SendMessage sends content to receiverID
func (c *Client) SendMessage(ctx context.Context, receiverID, content string) (*models.Message, error) {
	body := map[string]string{"receiverId": receiverID, "content": content}
	return c.messageRequest(ctx, http.MethodPost, "/messages", body)
}

// EditMessage replaces a message's content
func (c *Client) EditMessage(ctx context.Context, id, content string) (*models.Message, error) {
	return c.messageRequest(ctx, http.MethodPut, "/messages/"+escape(id), map[string]string{"content": content})
}

// DeleteMessage deletes a message
func (c *Client) DeleteMessage(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/messages/"+escape(id), true, nil, nil)
}

// MarkConversationRead marks every message from senderID as read
func (c *Client) MarkConversationRead(ctx context.Context, senderID string) error {
	return c.do(ctx, http.MethodPatch, "/messages/read/"+escape(senderID), true, nil, nil)
}

// UnreadCount returns the number of unread messages
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var resp struct {
		Count int `json:"count"`
	}
	if err := c.do(ctx, http.MethodGet, "/messages/unread-count", true, nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// UnreadMentions returns unread messages that mention the user
func (c *Client) UnreadMentions(ctx context.Context) ([]models.Message, error) {
	var raws []normalize.RawMessage
	if err := c.do(ctx, http.MethodGet, "/messages/mentions", true, nil, &raws); err != nil {
		return nil, err
	}
	return normalize.Messages(raws), nil
}

func (c *Client) messageRequest(ctx context.Context, method, path string, body any) (*models.Message, error) {
	var raw normalize.RawMessage
	if err := c.do(ctx, method, path, true, body, &raw); err != nil {
		return nil, err
	}
	m := normalize.Message(raw)
	return &m, nil
}
