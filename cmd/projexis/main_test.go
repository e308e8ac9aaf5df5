package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tgienger/projexis/internal/api/apitest"
)

func setupEnv(t *testing.T) *apitest.Server {
	t.Helper()
	srv := apitest.NewServer(t)
	srv.SetProjects(apitest.Project{
		ID:     "p1",
		Name:   "Launch",
		Status: "In Progress",
		Tasks: []apitest.Task{{
			ID:   "a",
			Name: "Prepare",
			Subtasks: []apitest.Subtask{
				{ID: "a1", Name: "Draft", Completed: true},
				{ID: "a2", Name: "Review"},
			},
		}},
	})

	t.Setenv("PROJEXIS_ENV", "prod")
	t.Setenv("PROJEXIS_API_URL", srv.BaseURL())
	t.Setenv("PROJEXIS_DATA_DIR", t.TempDir())
	t.Setenv("PROJEXIS_LOG_FILE", "")
	return srv
}

func run(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	stdin = nil
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, "", args...)
	if err != nil {
		t.Fatalf("%v: error = %v", args, err)
	}
	return out
}

func login(t *testing.T, srv *apitest.Server) {
	t.Helper()
	mustRun(t, "login", "--email", srv.User().Email, "--password", apitest.Password)
}

func TestVersion(t *testing.T) {
	out := mustRun(t, "version")
	if !strings.HasPrefix(out, "projexis dev") {
		t.Errorf("version output = %q", out)
	}
}

func TestCommandsRequireSession(t *testing.T) {
	setupEnv(t)
	for _, args := range [][]string{
		{"whoami"},
		{"projects"},
		{"team"},
		{"notifications"},
	} {
		if _, err := run(t, "", args...); !errors.Is(err, errNoSession) {
			t.Errorf("%v: error = %v, want errNoSession", args, err)
		}
	}
}

func TestLoginPersistsSession(t *testing.T) {
	srv := setupEnv(t)

	out := mustRun(t, "login", "--email", srv.User().Email, "--password", apitest.Password)
	if !strings.Contains(out, "Signed in as Sarah Chen") {
		t.Errorf("login output = %q", out)
	}

	out = mustRun(t, "whoami", "-o", "json")
	if !strings.Contains(out, `"email": "sarah@example.com"`) {
		t.Errorf("whoami output = %q", out)
	}
}

func TestLoginPromptsForPassword(t *testing.T) {
	srv := setupEnv(t)

	if _, err := run(t, apitest.Password+"\n", "login", "--email", srv.User().Email); err != nil {
		t.Fatalf("login error = %v", err)
	}
	if _, err := run(t, "", "whoami"); err != nil {
		t.Errorf("whoami after prompted login error = %v", err)
	}
}

func TestLoginFailure(t *testing.T) {
	srv := setupEnv(t)

	_, err := run(t, "", "login", "--email", srv.User().Email, "--password", "wrong")
	if err == nil || !strings.Contains(err.Error(), "Invalid email or password") {
		t.Fatalf("login error = %v", err)
	}
	if _, err := run(t, "", "whoami"); !errors.Is(err, errNoSession) {
		t.Errorf("whoami error = %v, want errNoSession", err)
	}
}

func TestProjectsOutput(t *testing.T) {
	srv := setupEnv(t)
	login(t, srv)

	out := mustRun(t, "projects")
	for _, want := range []string{"ID", "PROGRESS", "Launch", "50%"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}

	out = mustRun(t, "projects", "-o", "json")
	if !strings.Contains(out, `"progress": 50`) {
		t.Errorf("json output = %s", out)
	}

	out = mustRun(t, "projects", "-o", "yaml")
	if !strings.Contains(out, "progress: 50") {
		t.Errorf("yaml output = %s", out)
	}

	if _, err := run(t, "", "projects", "-o", "xml"); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestToggleCompletesProject(t *testing.T) {
	srv := setupEnv(t)
	login(t, srv)

	out := mustRun(t, "toggle", "p1", "a", "a2")
	if !strings.Contains(out, "Subtask marked done") || !strings.Contains(out, "100% complete (Completed)") {
		t.Errorf("toggle output = %q", out)
	}

	p, ok := srv.Project("p1")
	if !ok || p.Status != "Completed" {
		t.Errorf("backend project = %+v, want Completed", p)
	}

	out = mustRun(t, "notifications")
	if !strings.Contains(out, "Project Completed") {
		t.Errorf("notifications output = %s", out)
	}
}

func TestToggleUnknownSubtask(t *testing.T) {
	srv := setupEnv(t)
	login(t, srv)

	if _, err := run(t, "", "toggle", "p1", "a", "missing"); err == nil {
		t.Fatal("toggle of unknown subtask should fail")
	}
	for _, r := range srv.RequestLog() {
		if strings.HasPrefix(r, "PATCH") {
			t.Errorf("unexpected backend call %q", r)
		}
	}
}

func TestTeamInviteAddsNotification(t *testing.T) {
	srv := setupEnv(t)
	login(t, srv)

	out := mustRun(t, "team", "invite", "--name", "Bob Lee", "--email", "bob@example.com", "--role", "Designer")
	if !strings.Contains(out, "Invited Bob Lee <bob@example.com>") {
		t.Errorf("invite output = %q", out)
	}

	out = mustRun(t, "team")
	if !strings.Contains(out, "bob@example.com") {
		t.Errorf("team output = %s", out)
	}

	out = mustRun(t, "notifications", "-o", "json")
	if !strings.Contains(out, "Team Member Invited") {
		t.Errorf("notifications output = %s", out)
	}

	mustRun(t, "notifications", "read-all")
	out = mustRun(t, "notifications", "-o", "json")
	if strings.Contains(out, `"read": false`) {
		t.Errorf("read-all left unread notifications: %s", out)
	}

	mustRun(t, "notifications", "clear")
	out = mustRun(t, "notifications", "-o", "json")
	if strings.Contains(out, "Team Member Invited") {
		t.Errorf("clear kept notifications: %s", out)
	}
}

func TestLogout(t *testing.T) {
	srv := setupEnv(t)
	login(t, srv)

	out := mustRun(t, "logout")
	if !strings.Contains(out, "Signed out") {
		t.Errorf("logout output = %q", out)
	}
	if _, err := run(t, "", "whoami"); !errors.Is(err, errNoSession) {
		t.Errorf("whoami error = %v, want errNoSession", err)
	}
}

func TestWriteEmptyTable(t *testing.T) {
	var buf bytes.Buffer
	if err := write(&buf, formatTable, nil, []string{"ID"}, nil); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "(none)\n" {
		t.Errorf("empty table = %q", buf.String())
	}
}

func TestProjectsEditTasks(t *testing.T) {
	srv := setupEnv(t)
	login(t, srv)

	out := mustRun(t, "projects", "edit", "p1",
		"--status", "review",
		"--due", "2026-12-01",
		"--add-task", "Ship",
		"--add-subtask", "a:Sign off",
		"--assign", "m1")
	if !strings.Contains(out, "Updated project Launch: 2 tasks") {
		t.Errorf("edit output = %q", out)
	}

	p, _ := srv.Project("p1")
	if p.Status != "Review" || p.EndDate != "2026-12-01" {
		t.Errorf("backend project = %+v", p)
	}
	if len(p.Tasks) != 2 || p.Tasks[1].Name != "Ship" || p.Tasks[1].ID == "" {
		t.Fatalf("tasks = %+v", p.Tasks)
	}
	subs := p.Tasks[0].Subtasks
	if len(subs) != 3 || subs[2].Name != "Sign off" || subs[2].ID == "" || !subs[0].Completed {
		t.Fatalf("subtasks = %+v", subs)
	}
	if len(p.AssignedTeam) != 1 || p.AssignedTeam[0] != "m1" {
		t.Errorf("assigned team = %v", p.AssignedTeam)
	}

	// new subtasks get backend ids that toggle can address
	mustRun(t, "toggle", "p1", "a", subs[2].ID)
	mustRun(t, "projects", "edit", "p1", "--remove-subtask", "a:a2", "--remove-task", p.Tasks[1].ID)
	p, _ = srv.Project("p1")
	if len(p.Tasks) != 1 || len(p.Tasks[0].Subtasks) != 2 {
		t.Fatalf("after removal tasks = %+v", p.Tasks)
	}
	if p.Tasks[0].Subtasks[1].ID != subs[2].ID || !p.Tasks[0].Subtasks[1].Completed {
		t.Errorf("subtasks = %+v", p.Tasks[0].Subtasks)
	}
}

func TestProjectsEditRemovesLastTask(t *testing.T) {
	srv := setupEnv(t)
	login(t, srv)

	mustRun(t, "projects", "edit", "p1", "--remove-task", "a")
	if p, _ := srv.Project("p1"); len(p.Tasks) != 0 {
		t.Errorf("tasks = %+v, want none", p.Tasks)
	}
}

func TestProjectsEditRejectsBadInput(t *testing.T) {
	srv := setupEnv(t)
	login(t, srv)

	for _, args := range [][]string{
		{"projects", "edit", "p1"},
		{"projects", "edit", "p1", "--priority", "urgent"},
		{"projects", "edit", "p1", "--status", "done"},
		{"projects", "edit", "p1", "--due", "tomorrow"},
		{"projects", "edit", "p1", "--add-subtask", "no-colon"},
		{"projects", "edit", "p1", "--remove-task", "missing"},
		{"projects", "edit", "missing", "--name", "X"},
	} {
		if _, err := run(t, "", args...); err == nil {
			t.Errorf("%v: want error", args)
		}
	}
	for _, r := range srv.RequestLog() {
		if strings.HasPrefix(r, "PUT") {
			t.Errorf("unexpected backend call %q", r)
		}
	}
}

func TestTeamEdit(t *testing.T) {
	srv := setupEnv(t)
	srv.SetTeam(apitest.Member{ID: "m1", Name: "Bob Lee", Role: "Designer", Email: "bob@example.com", Phone: "555-0100", Status: "active"})
	login(t, srv)

	out := mustRun(t, "team", "edit", "m1", "--role", "Lead Designer")
	if !strings.Contains(out, "Updated Bob Lee <bob@example.com> (Lead Designer)") {
		t.Errorf("edit output = %q", out)
	}
	out = mustRun(t, "team", "-o", "json")
	if !strings.Contains(out, `"phone": "555-0100"`) || !strings.Contains(out, "Lead Designer") {
		t.Errorf("team output = %s", out)
	}

	if _, err := run(t, "", "team", "edit", "m1"); err == nil {
		t.Error("edit without flags should fail")
	}
	if _, err := run(t, "", "team", "edit", "nobody", "--role", "X"); err == nil {
		t.Error("edit of unknown member should fail")
	}
}

func TestStats(t *testing.T) {
	srv := setupEnv(t)
	srv.SetProjects(
		apitest.Project{ID: "p1", Name: "Launch", Status: "In Progress", Priority: "High", EndDate: "2020-01-01",
			Tasks: []apitest.Task{{ID: "a", Subtasks: []apitest.Subtask{{ID: "a1", Completed: true}, {ID: "a2"}}}}},
		apitest.Project{ID: "p2", Name: "Archive", Status: "Completed", Priority: "Low"},
	)
	login(t, srv)

	out := mustRun(t, "stats")
	for _, want := range []string{"Average progress", "25%", "Status Completed", "1 (50%)", "Launch, overdue by"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output missing %q:\n%s", want, out)
		}
	}

	out = mustRun(t, "stats", "-o", "json")
	if !strings.Contains(out, `"total": 2`) || !strings.Contains(out, `"projectId": "p1"`) {
		t.Errorf("json output = %s", out)
	}
}

func TestCalendar(t *testing.T) {
	srv := setupEnv(t)
	srv.SetProjects(apitest.Project{ID: "p1", Name: "Launch", Status: "Planning", StartDate: "2026-02-27", EndDate: "2026-03-02"})
	login(t, srv)

	out := mustRun(t, "calendar", "2026-03")
	if !strings.Contains(out, "2026-03-01") || !strings.Contains(out, "2026-03-02") || strings.Contains(out, "2026-03-03") {
		t.Errorf("calendar output = %s", out)
	}
	out = mustRun(t, "calendar", "2026-05")
	if !strings.Contains(out, "(none)") {
		t.Errorf("empty month output = %s", out)
	}
	if _, err := run(t, "", "calendar", "March"); err == nil {
		t.Error("bad month should fail")
	}
}

func TestTeamProjects(t *testing.T) {
	srv := setupEnv(t)
	srv.SetTeam(apitest.Member{ID: "m1", Name: "Bob Lee", Email: "bob@example.com", Status: "active"})
	login(t, srv)
	mustRun(t, "projects", "edit", "p1", "--assign", "m1")

	out := mustRun(t, "team", "projects", "m1")
	if !strings.Contains(out, "Launch") || !strings.Contains(out, "50%") {
		t.Errorf("team projects output = %s", out)
	}
	out = mustRun(t, "team")
	if !strings.Contains(out, "1/1") {
		t.Errorf("team output = %s", out)
	}
}
