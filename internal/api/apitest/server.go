// Package apitest provides an in-memory Projexis backend for tests.
package apitest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	Token    = "test-token"
	Password = "pass1234"
)

type Subtask struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

type Task struct {
	ID       string    `json:"_id"`
	Name     string    `json:"name"`
	Subtasks []Subtask `json:"subtasks"`
}

type Project struct {
	ID           string `json:"_id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	StartDate    string `json:"startDate,omitempty"`
	EndDate      string `json:"endDate,omitempty"`
	Priority     string `json:"priority"`
	Category     string `json:"category"`
	Status       string `json:"status"`
	Tasks        []Task `json:"tasks"`
	AssignedTeam []any  `json:"assignedTeam"`
}

type Member struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Email  string `json:"email"`
	Phone  string `json:"phone,omitempty"`
	Status string `json:"status"`
}

type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Bio   string `json:"bio,omitempty"`
}

type Contact struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type Message struct {
	ID        string    `json:"_id"`
	Sender    Contact   `json:"sender"`
	Receiver  string    `json:"receiver"`
	Content   string    `json:"content"`
	Mentions  []string  `json:"mentions"`
	Read      bool      `json:"read"`
	IsEdited  bool      `json:"isEdited"`
	CreatedAt time.Time `json:"createdAt"`
}

type failure struct {
	status  int
	message string
}

// Server is a fake backend
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	user     User
	projects []Project
	team     []Member
	messages []Message
	mentions []Message
	unread   int
	requests []string
	failures map[string]failure
	seq      int
	// gates hold requests to a route until released
	gates map[string]chan struct{}
}

// NewServer starts a fake backend that is closed when the test ends
func NewServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{
		user:     User{ID: "u1", Name: "Sarah Chen", Email: "sarah@example.com"},
		failures: make(map[string]failure),
		gates:    make(map[string]chan struct{}),
	}
	s.Server = httptest.NewServer(s.router())
	t.Cleanup(s.Close)
	return s
}

// BaseURL returns the API base URL
func (s *Server) BaseURL() string {
	return s.Server.URL + "/api"
}

// Fail makes every request to route (e.g. "PATCH /api/projects/:id") fail until cleared
func (s *Server) Fail(route string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = failure{status: status, message: message}
}

// Clear removes an injected failure
func (s *Server) Clear(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, route)
}

// Hold blocks requests to route until the returned function is called
func (s *Server) Hold(route string) (release func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gate := make(chan struct{})
	s.gates[route] = gate
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.gates, route)
			s.mu.Unlock()
			close(gate)
		})
	}
}

// RequestLog returns the requests served so far as "METHOD /path"
func (s *Server) RequestLog() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// User returns the account the backend signs in
func (s *Server) User() User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// SetProjects replaces the stored projects
func (s *Server) SetProjects(projects ...Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = projects
}

// SetTeam replaces the stored team
func (s *Server) SetTeam(members ...Member) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.team = members
}

// SetMentions sets the unread message count and the unread mentions
func (s *Server) SetMentions(unread int, msgs ...Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unread = unread
	s.mentions = msgs
}

// Project returns a copy of the stored project
func (s *Server) Project(id string) (Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}

func (s *Server) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s%d", prefix, s.seq)
}

func (s *Server) router() *gin.Engine {
	r := gin.New()
	r.Use(s.record, s.inject)

	api := r.Group("/api")
	api.POST("/auth/login", s.login)
	api.POST("/auth/register", s.register)
	api.POST("/auth/accept-invite", s.acceptInvite)
	api.POST("/auth/forgot-password", s.ok)
	api.POST("/auth/reset-password", s.ok)

	authed := api.Group("", s.requireToken)
	authed.GET("/auth/me", s.me)
	authed.PUT("/auth/profile", s.updateProfile)
	authed.PUT("/auth/password", s.ok)

	authed.GET("/projects", s.listProjects)
	authed.POST("/projects", s.createProject)
	authed.PUT("/projects/:id", s.updateProject)
	authed.DELETE("/projects/:id", s.deleteProject)
	authed.PATCH("/projects/:id/tasks/:taskId/subtasks/:subtaskId/toggle", s.toggleSubtask)

	authed.GET("/team", s.listTeam)
	authed.POST("/team", s.createMember)
	authed.PUT("/team/:id", s.updateMember)
	authed.DELETE("/team/:id", s.deleteMember)
	authed.PATCH("/team/:id/promote", s.promoteMember)
	authed.POST("/team/resend-invite/:id", s.ok)

	authed.GET("/messages/conversations", s.conversations)
	authed.GET("/messages/unread-count", s.unreadCount)
	authed.GET("/messages/mentions", s.listMentions)
	authed.GET("/messages/:id", s.conversation)
	authed.POST("/messages", s.sendMessage)
	authed.PUT("/messages/:id", s.editMessage)
	authed.DELETE("/messages/:id", s.deleteMessage)
	authed.PATCH("/messages/read/:id", s.ok)
	return r
}

func (s *Server) record(c *gin.Context) {
	s.mu.Lock()
	s.requests = append(s.requests, c.Request.Method+" "+c.Request.URL.Path)
	s.mu.Unlock()
	c.Next()
}

func (s *Server) inject(c *gin.Context) {
	route := c.Request.Method + " " + c.FullPath()

	s.mu.Lock()
	gate, held := s.gates[route]
	f, failing := s.failures[route]
	s.mu.Unlock()

	if held {
		<-gate
	}
	if failing {
		c.AbortWithStatusJSON(f.status, gin.H{"message": f.message})
		return
	}
	c.Next()
}

func (s *Server) requireToken(c *gin.Context) {
	if c.GetHeader("Authorization") != "Bearer "+Token {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, no token"})
		return
	}
	c.Next()
}

func (s *Server) ok(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

func (s *Server) login(c *gin.Context) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !strings.EqualFold(body.Email, s.user.Email) || body.Password != Password {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": Token, "user": s.user})
}

func (s *Server) register(c *gin.Context) {
	var body struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.EqualFold(body.Email, s.user.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists"})
		return
	}
	s.user = User{ID: s.nextID("u"), Name: body.Name, Email: body.Email}
	c.JSON(http.StatusCreated, gin.H{"token": Token, "user": s.user})
}

func (s *Server) acceptInvite(c *gin.Context) {
	var body struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Token != "invite" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invite link is invalid or has expired"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"token": Token, "user": s.user})
}

func (s *Server) me(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.user)
}

func (s *Server) updateProfile(c *gin.Context) {
	var body struct {
		Name string `json:"name"`
		Bio  string `json:"bio"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if body.Name != "" {
		s.user.Name = body.Name
	}
	s.user.Bio = body.Bio
	c.JSON(http.StatusOK, s.user)
}
