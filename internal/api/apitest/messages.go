package apitest

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

func (s *Server) conversations(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	type summary struct {
		User        Contact `json:"user"`
		LastMessage string  `json:"lastMessage"`
		Unread      int     `json:"unread"`
	}
	byUser := make(map[string]*summary)
	var order []string
	for _, m := range s.messages {
		other := Contact{ID: m.Receiver}
		if m.Sender.ID != s.user.ID {
			other = m.Sender
		}
		sum, ok := byUser[other.ID]
		if !ok {
			sum = &summary{User: other}
			byUser[other.ID] = sum
			order = append(order, other.ID)
		}
		sum.LastMessage = m.Content
		if m.Sender.ID != s.user.ID && !m.Read {
			sum.Unread++
		}
	}
	out := make([]summary, 0, len(order))
	for _, id := range order {
		out = append(out, *byUser[id])
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) conversation(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	other := c.Param("id")
	out := []Message{}
	for _, m := range s.messages {
		if m.Sender.ID == other || m.Receiver == other {
			out = append(out, m)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) sendMessage(c *gin.Context) {
	var body struct {
		ReceiverID string `json:"receiverId"`
		Content    string `json:"content"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Message content is required"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m := Message{
		ID:        s.nextID("msg"),
		Sender:    Contact{ID: s.user.ID, Name: s.user.Name},
		Receiver:  body.ReceiverID,
		Content:   body.Content,
		Mentions:  []string{},
		CreatedAt: time.Now().UTC(),
	}
	for _, member := range s.team {
		if member.Name != "" && strings.Contains(body.Content, "@"+member.Name) {
			m.Mentions = append(m.Mentions, member.ID)
		}
	}
	s.messages = append(s.messages, m)
	c.JSON(http.StatusCreated, m)
}

func (s *Server) findMessage(id string) int {
	for i, m := range s.messages {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) editMessage(c *gin.Context) {
	var body struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findMessage(c.Param("id"))
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Message not found"})
		return
	}
	s.messages[i].Content = body.Content
	s.messages[i].IsEdited = true
	c.JSON(http.StatusOK, s.messages[i])
}

func (s *Server) deleteMessage(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findMessage(c.Param("id"))
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Message not found"})
		return
	}
	s.messages = append(s.messages[:i], s.messages[i+1:]...)
	c.JSON(http.StatusOK, gin.H{"message": "Message deleted"})
}

func (s *Server) unreadCount(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"count": s.unread})
}

func (s *Server) listMentions(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.mentions
	if out == nil {
		out = []Message{}
	}
	c.JSON(http.StatusOK, out)
}
