package normalize

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/tgienger/projexis/internal/models"
)

const projectJSON = `{
	"_id": {"$oid": "65a1f0c2e4b0a1b2c3d4e5f6"},
	"name": "Platform Redesign",
	"startDate": "2026-01-15",
	"endDate": "2026-04-30T00:00:00.000Z",
	"priority": "High",
	"status": "In Progress",
	"tasks": [
		{"_id": 7, "name": "Design", "subtasks": [
			{"_id": "s1", "name": "Wireframes", "completed": true},
			{"id": "keep", "_id": "other", "name": "Review"}
		]},
		{"_id": "t2", "name": "Build", "subtasks": null}
	],
	"assignedTeam": [
		"m1",
		42,
		{"_id": "m3", "name": "Priya", "role": "Backend", "linkedUser": {"_id": "u3"}},
		null
	]
}`

func decodeProject(t *testing.T, data []byte) models.Project {
	t.Helper()
	var raw RawProject
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return Project(raw)
}

func TestProject(t *testing.T) {
	p := decodeProject(t, []byte(projectJSON))

	if p.ID != "65a1f0c2e4b0a1b2c3d4e5f6" {
		t.Errorf("project id = %q", p.ID)
	}
	if p.EndDate.String() != "2026-04-30" {
		t.Errorf("end date = %q", p.EndDate)
	}
	if len(p.Tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(p.Tasks))
	}
	if p.Tasks[0].ID != "7" {
		t.Errorf("numeric task id not coerced: %q", p.Tasks[0].ID)
	}
	if got := p.Tasks[0].Subtasks[1].ID; got != "keep" {
		t.Errorf("existing id overwritten: %q", got)
	}
	if p.Tasks[1].Subtasks == nil || len(p.Tasks[1].Subtasks) != 0 {
		t.Errorf("null subtasks should become empty, got %#v", p.Tasks[1].Subtasks)
	}

	if len(p.AssignedTeam) != 3 {
		t.Fatalf("expected 3 team refs, got %d", len(p.AssignedTeam))
	}
	if _, ok := p.AssignedTeam[0].Member(); ok || p.AssignedTeam[0].ID() != "m1" {
		t.Errorf("bare reference decoded wrong: %#v", p.AssignedTeam[0])
	}
	if p.AssignedTeam[1].ID() != "42" {
		t.Errorf("numeric reference = %q", p.AssignedTeam[1].ID())
	}
	m, ok := p.AssignedTeam[2].Member()
	if !ok {
		t.Fatal("expected embedded member")
	}
	if m.ID != "m3" || m.Name != "Priya" || m.LinkedUser != "u3" {
		t.Errorf("embedded member = %#v", m)
	}
}

func TestProjectIdempotent(t *testing.T) {
	once := decodeProject(t, []byte(projectJSON))

	data, err := json.Marshal(once)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	twice := decodeProject(t, data)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("normalizing twice changed the record\nonce:  %#v\ntwice: %#v", once, twice)
	}
}

func TestProjectMissingCollections(t *testing.T) {
	p := decodeProject(t, []byte(`{"_id": "p1", "name": "Bare"}`))
	if p.ID != "p1" {
		t.Errorf("id = %q", p.ID)
	}
	if len(p.Tasks) != 0 || len(p.AssignedTeam) != 0 {
		t.Errorf("expected empty collections, got %#v", p)
	}
	if !p.EndDate.IsZero() {
		t.Errorf("expected zero end date, got %v", p.EndDate)
	}
}

func TestProjectUnreadableDates(t *testing.T) {
	data := []byte(`[
		{"_id": "p1", "name": "Good", "endDate": "2026-10-30"},
		{"_id": "p2", "name": "Loose", "startDate": 20261001, "endDate": "10/20/2026"}
	]`)
	var raws []RawProject
	if err := json.Unmarshal(data, &raws); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	projects := Projects(raws)
	if len(projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(projects))
	}
	if got := projects[0].EndDate.String(); got != "2026-10-30" {
		t.Errorf("valid end date = %q", got)
	}
	if !projects[1].StartDate.IsZero() || !projects[1].EndDate.IsZero() {
		t.Errorf("unreadable dates should be zero, got %v / %v", projects[1].StartDate, projects[1].EndDate)
	}

	if fields := InvalidDates(raws[0]); len(fields) != 0 {
		t.Errorf("InvalidDates(p1) = %v", fields)
	}
	if fields := InvalidDates(raws[1]); !reflect.DeepEqual(fields, []string{"startDate", "endDate"}) {
		t.Errorf("InvalidDates(p2) = %v", fields)
	}
}

func TestID(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{``, ""},
		{`null`, ""},
		{`"abc"`, "abc"},
		{`12`, "12"},
		{`-7`, "-7"},
		{`1e3`, "1000"},
		{`2.50`, "2.5"},
		{`true`, ""},
		{`[1]`, ""},
		{`{"$oid": "65A1F0C2E4B0A1B2C3D4E5F6"}`, "65a1f0c2e4b0a1b2c3d4e5f6"},
		{`{"$oid": "not-hex"}`, "not-hex"},
		{`{}`, ""},
	}
	for _, tt := range tests {
		if got := ID(json.RawMessage(tt.raw)); got != tt.want {
			t.Errorf("ID(%s) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestMessage(t *testing.T) {
	var raw RawMessage
	data := `{
		"_id": "msg1",
		"sender": {"_id": "u1", "name": "Sarah", "avatar": "a.png"},
		"receiver": "u2",
		"content": "hi @Marcus",
		"mentions": ["u2", {"_id": "u3"}],
		"isEdited": true,
		"createdAt": "2026-03-01T10:00:00Z"
	}`
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	m := Message(raw)
	if m.ID != "msg1" || m.Sender.ID != "u1" || m.Sender.Name != "Sarah" || m.Receiver != "u2" {
		t.Errorf("message = %#v", m)
	}
	if !reflect.DeepEqual(m.Mentions, []string{"u2", "u3"}) {
		t.Errorf("mentions = %v", m.Mentions)
	}
	if !m.Edited {
		t.Error("expected edited flag")
	}
}

func TestMemberLinkedUserShapes(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`{"_id": "m1", "linkedUser": "u1"}`, "u1"},
		{`{"_id": "m1", "linkedUser": {"id": "u2", "_id": "x"}}`, "u2"},
		{`{"_id": "m1", "linkedUser": null}`, ""},
		{`{"_id": "m1"}`, ""},
	}
	for _, tt := range tests {
		var raw RawMember
		if err := json.Unmarshal([]byte(tt.raw), &raw); err != nil {
			t.Fatalf("unmarshal %s: %v", tt.raw, err)
		}
		if got := Member(raw).LinkedUser; got != tt.want {
			t.Errorf("linkedUser for %s = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
