package apitest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type memberBody struct {
	Name  string `json:"name"`
	Role  string `json:"role"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (s *Server) listTeam(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.team
	if out == nil {
		out = []Member{}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) findMember(id string) int {
	for i, m := range s.team {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) createMember(c *gin.Context) {
	var body memberBody
	if err := c.ShouldBindJSON(&body); err != nil || body.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email is required"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.team {
		if m.Email == body.Email {
			c.JSON(http.StatusBadRequest, gin.H{"message": "A team member with this email already exists"})
			return
		}
	}
	m := Member{
		ID:     s.nextID("m"),
		Name:   body.Name,
		Role:   body.Role,
		Email:  body.Email,
		Phone:  body.Phone,
		Status: "pending",
	}
	s.team = append(s.team, m)
	c.JSON(http.StatusCreated, m)
}

func (s *Server) updateMember(c *gin.Context) {
	var body memberBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findMember(c.Param("id"))
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Team member not found"})
		return
	}
	m := &s.team[i]
	m.Name, m.Role, m.Email, m.Phone = body.Name, body.Role, body.Email, body.Phone
	c.JSON(http.StatusOK, *m)
}

func (s *Server) deleteMember(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findMember(c.Param("id"))
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Team member not found"})
		return
	}
	s.team = append(s.team[:i], s.team[i+1:]...)
	c.JSON(http.StatusOK, gin.H{"message": "Team member removed"})
}

func (s *Server) promoteMember(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findMember(c.Param("id"))
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Team member not found"})
		return
	}
	s.team[i].Role = "Admin"
	c.JSON(http.StatusOK, s.team[i])
}
