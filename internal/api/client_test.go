package api_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tgienger/projexis/internal/api"
	"github.com/tgienger/projexis/internal/api/apitest"
	"github.com/tgienger/projexis/internal/models"
)

func newClient(t *testing.T) (*api.Client, *apitest.Server) {
	t.Helper()
	srv := apitest.NewServer(t)
	return api.New(srv.BaseURL(), 5*time.Second, zerolog.Nop()), srv
}

func TestLoginDoesNotRequireToken(t *testing.T) {
	client, _ := newClient(t)

	session, err := client.Login(context.Background(), "sarah@example.com", apitest.Password)
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if session.Token != apitest.Token {
		t.Errorf("Token = %q, want %q", session.Token, apitest.Token)
	}
	if session.User.ID != "u1" || session.User.Email != "sarah@example.com" {
		t.Errorf("User = %+v", session.User)
	}
}

func TestErrorCarriesServerMessage(t *testing.T) {
	client, _ := newClient(t)

	_, err := client.Login(context.Background(), "sarah@example.com", "wrong")
	if err == nil {
		t.Fatal("Login() error = nil, want error")
	}
	if err.Error() != "Invalid email or password" {
		t.Errorf("error = %q", err.Error())
	}
	if !api.IsStatus(err, http.StatusUnauthorized) {
		t.Errorf("IsStatus(401) = false for %v", err)
	}
}

func TestErrorWithoutMessageUsesDefault(t *testing.T) {
	client, srv := newClient(t)
	client.SetToken(apitest.Token)
	srv.Fail("GET /api/projects", http.StatusInternalServerError, "")

	_, err := client.ListProjects(context.Background())
	if err == nil || err.Error() != "Something went wrong" {
		t.Fatalf("ListProjects() error = %v, want default message", err)
	}
}

func TestAuthenticatedCallsSendBearer(t *testing.T) {
	client, _ := newClient(t)

	if _, err := client.ListProjects(context.Background()); !api.IsStatus(err, http.StatusUnauthorized) {
		t.Fatalf("ListProjects() without token error = %v, want 401", err)
	}

	client.SetToken(apitest.Token)
	if _, err := client.ListProjects(context.Background()); err != nil {
		t.Fatalf("ListProjects() with token error = %v", err)
	}
}

func TestProjectsAreNormalized(t *testing.T) {
	client, srv := newClient(t)
	client.SetToken(apitest.Token)
	srv.SetProjects(apitest.Project{
		ID:     "p1",
		Name:   "Website",
		Status: "In Progress",
		Tasks: []apitest.Task{{
			ID:       "t1",
			Name:     "Design",
			Subtasks: []apitest.Subtask{{ID: "s1", Name: "Wireframes", Completed: true}},
		}},
		AssignedTeam: []any{"m1", map[string]any{"_id": "m2", "name": "Ben"}},
		EndDate:      "2026-10-20T00:00:00.000Z",
	})

	projects, err := client.ListProjects(context.Background())
	if err != nil {
		t.Fatalf("ListProjects() error = %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("len(projects) = %d, want 1", len(projects))
	}
	p := projects[0]
	if p.ID != "p1" || p.Tasks[0].ID != "t1" || p.Tasks[0].Subtasks[0].ID != "s1" {
		t.Errorf("ids not normalized: %+v", p)
	}
	if p.EndDate != models.NewDate(2026, time.October, 20) {
		t.Errorf("EndDate = %v", p.EndDate)
	}
	if len(p.AssignedTeam) != 2 {
		t.Fatalf("len(AssignedTeam) = %d, want 2", len(p.AssignedTeam))
	}
	if _, ok := p.AssignedTeam[0].Member(); ok || p.AssignedTeam[0].ID() != "m1" {
		t.Errorf("AssignedTeam[0] = %+v, want reference m1", p.AssignedTeam[0])
	}
	if m, ok := p.AssignedTeam[1].Member(); !ok || m.ID != "m2" || m.Name != "Ben" {
		t.Errorf("AssignedTeam[1] = %+v, want embedded m2", p.AssignedTeam[1])
	}
}

func TestCreateProjectRoundTrip(t *testing.T) {
	client, _ := newClient(t)
	client.SetToken(apitest.Token)

	input := models.ProjectInput{
		Name:     "Launch",
		Priority: models.PriorityHigh,
		Status:   models.StatusPlanning,
		EndDate:  models.NewDate(2026, time.December, 1),
		Tasks: []models.Task{{
			Name:     "Prep",
			Subtasks: []models.Subtask{{Name: "Book venue"}},
		}},
		AssignedTeam: []string{"m1"},
	}
	p, err := client.CreateProject(context.Background(), input)
	if err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}
	if p.ID == "" || p.Name != "Launch" {
		t.Errorf("project = %+v", p)
	}
	if len(p.Tasks) != 1 || p.Tasks[0].ID == "" || p.Tasks[0].Subtasks[0].ID == "" {
		t.Errorf("tasks not assigned ids: %+v", p.Tasks)
	}
	if !p.StartDate.IsZero() {
		t.Errorf("StartDate = %v, want zero", p.StartDate)
	}
	if p.EndDate != input.EndDate {
		t.Errorf("EndDate = %v, want %v", p.EndDate, input.EndDate)
	}
}

func TestToggleSubtaskReportsStatusChange(t *testing.T) {
	client, srv := newClient(t)
	client.SetToken(apitest.Token)
	srv.SetProjects(apitest.Project{
		ID:     "p1",
		Status: "In Progress",
		Tasks: []apitest.Task{{
			ID: "t1",
			Subtasks: []apitest.Subtask{
				{ID: "s1", Completed: true},
				{ID: "s2"},
			},
		}},
	})

	result, err := client.ToggleSubtask(context.Background(), "p1", "t1", "s2")
	if err != nil {
		t.Fatalf("ToggleSubtask() error = %v", err)
	}
	if result.ProjectStatus != models.StatusCompleted {
		t.Errorf("ProjectStatus = %q, want Completed", result.ProjectStatus)
	}

	result, err = client.ToggleSubtask(context.Background(), "p1", "t1", "s1")
	if err != nil {
		t.Fatalf("ToggleSubtask() error = %v", err)
	}
	if result.ProjectStatus != models.StatusInProgress {
		t.Errorf("ProjectStatus = %q, want In Progress", result.ProjectStatus)
	}

	_, err = client.ToggleSubtask(context.Background(), "p1", "t1", "missing")
	if !api.IsStatus(err, http.StatusNotFound) {
		t.Errorf("ToggleSubtask(missing) error = %v, want 404", err)
	}
}

func TestTeamEndpoints(t *testing.T) {
	client, srv := newClient(t)
	client.SetToken(apitest.Token)
	ctx := context.Background()

	m, err := client.CreateTeamMember(ctx, models.TeamMemberInput{Name: "Ben", Role: "Developer", Email: "ben@example.com"})
	if err != nil {
		t.Fatalf("CreateTeamMember() error = %v", err)
	}
	if m.Status != models.MemberPending {
		t.Errorf("Status = %q, want pending", m.Status)
	}

	promoted, err := client.PromoteTeamMember(ctx, m.ID)
	if err != nil {
		t.Fatalf("PromoteTeamMember() error = %v", err)
	}
	if promoted.Role != "Admin" {
		t.Errorf("Role = %q, want Admin", promoted.Role)
	}

	if err := client.ResendInvite(ctx, m.ID); err != nil {
		t.Fatalf("ResendInvite() error = %v", err)
	}
	if err := client.DeleteTeamMember(ctx, m.ID); err != nil {
		t.Fatalf("DeleteTeamMember() error = %v", err)
	}

	want := []string{
		"POST /api/team",
		"PATCH /api/team/" + m.ID + "/promote",
		"POST /api/team/resend-invite/" + m.ID,
		"DELETE /api/team/" + m.ID,
	}
	got := srv.RequestLog()
	if len(got) != len(want) {
		t.Fatalf("requests = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("request[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMessages(t *testing.T) {
	client, srv := newClient(t)
	client.SetToken(apitest.Token)
	ctx := context.Background()
	srv.SetTeam(apitest.Member{ID: "m2", Name: "Ben"})
	srv.SetMentions(3)

	msg, err := client.SendMessage(ctx, "u2", "hi @Ben")
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if len(msg.Mentions) != 1 || msg.Mentions[0] != "m2" {
		t.Errorf("Mentions = %v, want [m2]", msg.Mentions)
	}
	if msg.Sender.ID != "u1" {
		t.Errorf("Sender = %+v", msg.Sender)
	}

	edited, err := client.EditMessage(ctx, msg.ID, "hello @Ben")
	if err != nil {
		t.Fatalf("EditMessage() error = %v", err)
	}
	if !edited.Edited || edited.Content != "hello @Ben" {
		t.Errorf("edited = %+v", edited)
	}

	convs, err := client.ListConversations(ctx)
	if err != nil {
		t.Fatalf("ListConversations() error = %v", err)
	}
	if len(convs) != 1 || convs[0].User.ID != "u2" || convs[0].LastMessage != "hello @Ben" {
		t.Errorf("conversations = %+v", convs)
	}

	thread, err := client.Conversation(ctx, "u2")
	if err != nil || len(thread) != 1 {
		t.Fatalf("Conversation() = %v, %v", thread, err)
	}

	count, err := client.UnreadCount(ctx)
	if err != nil || count != 3 {
		t.Errorf("UnreadCount() = %d, %v, want 3", count, err)
	}

	if err := client.MarkConversationRead(ctx, "u2"); err != nil {
		t.Errorf("MarkConversationRead() error = %v", err)
	}
	if err := client.DeleteMessage(ctx, msg.ID); err != nil {
		t.Errorf("DeleteMessage() error = %v", err)
	}
}
