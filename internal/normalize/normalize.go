// Package normalize converts backend records into canonical models.
//
// The backend may send a database "_id" alone or alongside a client "id", and
// relation fields either populated as objects or as bare identifiers. Every
// such shape is resolved here so the rest of the client only sees models.
package normalize

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tgienger/projexis/internal/models"
)

// RawProject is a project as decoded from the wire
type RawProject struct {
	MongoID      json.RawMessage   `json:"_id"`
	ID           json.RawMessage   `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	StartDate    json.RawMessage   `json:"startDate"`
	EndDate      json.RawMessage   `json:"endDate"`
	Priority     models.Priority   `json:"priority"`
	Category     string            `json:"category"`
	Status       models.Status     `json:"status"`
	Tasks        []RawTask         `json:"tasks"`
	AssignedTeam []json.RawMessage `json:"assignedTeam"`
}

// RawTask is a task as decoded from the wire
type RawTask struct {
	MongoID  json.RawMessage `json:"_id"`
	ID       json.RawMessage `json:"id"`
	Name     string          `json:"name"`
	Subtasks []RawSubtask    `json:"subtasks"`
}

// RawSubtask is a subtask as decoded from the wire
type RawSubtask struct {
	MongoID   json.RawMessage `json:"_id"`
	ID        json.RawMessage `json:"id"`
	Name      string          `json:"name"`
	Completed bool            `json:"completed"`
}

// RawMember is a team member as decoded from the wire
type RawMember struct {
	MongoID    json.RawMessage     `json:"_id"`
	ID         json.RawMessage     `json:"id"`
	Name       string              `json:"name"`
	Role       string              `json:"role"`
	Email      string              `json:"email"`
	Phone      string              `json:"phone"`
	Status     models.MemberStatus `json:"status"`
	Avatar     string              `json:"avatar"`
	LinkedUser json.RawMessage     `json:"linkedUser"`
}

// RawUser is a user profile as decoded from the wire
type RawUser struct {
	MongoID json.RawMessage `json:"_id"`
	ID      json.RawMessage `json:"id"`
	Name    string          `json:"name"`
	Email   string          `json:"email"`
	Role    string          `json:"role"`
	Avatar  string          `json:"avatar"`
	Phone   string          `json:"phone"`
	Bio     string          `json:"bio"`
}

// RawMessage is a direct message as decoded from the wire
type RawMessage struct {
	MongoID   json.RawMessage   `json:"_id"`
	ID        json.RawMessage   `json:"id"`
	Sender    json.RawMessage   `json:"sender"`
	Receiver  json.RawMessage   `json:"receiver"`
	Content   string            `json:"content"`
	Mentions  []json.RawMessage `json:"mentions"`
	Read      bool              `json:"read"`
	Edited    bool              `json:"isEdited"`
	CreatedAt time.Time         `json:"createdAt"`
}

// RawConversation is a conversation summary as decoded from the wire
type RawConversation struct {
	User        json.RawMessage `json:"user"`
	LastMessage string          `json:"lastMessage"`
	Unread      int             `json:"unread"`
}

// rawRef is the identifying part of any populated object
type rawRef struct {
	MongoID json.RawMessage `json:"_id"`
	ID      json.RawMessage `json:"id"`
	Name    string          `json:"name"`
	Avatar  string          `json:"avatar"`
}

// ID coerces a raw identifier of any shape to its string form.
// Strings pass through, numbers keep their literal text and extended-JSON
// ObjectIDs ({"$oid": "..."}) yield their hex.
func ID(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case '{':
		var oid struct {
			OID string `json:"$oid"`
		}
		if err := json.Unmarshal(raw, &oid); err != nil || oid.OID == "" {
			return ""
		}
		if parsed, err := primitive.ObjectIDFromHex(oid.OID); err == nil {
			return parsed.Hex()
		}
		return oid.OID
	default:
		return number(raw)
	}
}

// number renders a JSON number the way the backend's JavaScript clients
// stringify it; anything that is not a number yields ""
func number(raw json.RawMessage) string {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return ""
	}
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	f, err := n.Float64()
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return ""
	}
	if math.Abs(f) >= 1e21 {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Date decodes a wire date. ok is false when a value was present but could
// not be read; the date is then zero so date rules skip the record.
func Date(raw json.RawMessage) (d models.Date, ok bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return models.Date{}, true
	}
	if err := json.Unmarshal(raw, &d); err != nil {
		return models.Date{}, false
	}
	return d, true
}

// InvalidDates lists the date fields of raw that could not be read
func InvalidDates(raw RawProject) []string {
	var fields []string
	if _, ok := Date(raw.StartDate); !ok {
		fields = append(fields, "startDate")
	}
	if _, ok := Date(raw.EndDate); !ok {
		fields = append(fields, "endDate")
	}
	return fields
}

// canonicalID keeps an existing client id and derives one from the database id otherwise
func canonicalID(id, mongoID json.RawMessage) string {
	if s := ID(id); s != "" {
		return s
	}
	return ID(mongoID)
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

// refID resolves a relation that may be populated or a bare identifier
func refID(raw json.RawMessage) string {
	if !isObject(raw) {
		return ID(raw)
	}
	var ref rawRef
	if err := json.Unmarshal(raw, &ref); err != nil {
		return ""
	}
	if s := canonicalID(ref.ID, ref.MongoID); s != "" {
		return s
	}
	// an extended-JSON ObjectID is itself an object
	return ID(raw)
}

// Project converts a wire project, recursing into tasks, subtasks and assigned team
func Project(raw RawProject) models.Project {
	p := models.Project{
		ID:          canonicalID(raw.ID, raw.MongoID),
		Name:        raw.Name,
		Description: raw.Description,
		Priority:    raw.Priority,
		Category:    raw.Category,
		Status:      raw.Status,
		Tasks:       make([]models.Task, 0, len(raw.Tasks)),
	}
	p.StartDate, _ = Date(raw.StartDate)
	p.EndDate, _ = Date(raw.EndDate)
	for _, t := range raw.Tasks {
		p.Tasks = append(p.Tasks, Task(t))
	}
	p.AssignedTeam = make([]models.MemberRef, 0, len(raw.AssignedTeam))
	for _, entry := range raw.AssignedTeam {
		if ref, ok := MemberRef(entry); ok {
			p.AssignedTeam = append(p.AssignedTeam, ref)
		}
	}
	return p
}

// Projects converts a list of wire projects
func Projects(raws []RawProject) []models.Project {
	out := make([]models.Project, 0, len(raws))
	for _, r := range raws {
		out = append(out, Project(r))
	}
	return out
}

// Task converts a wire task and its subtasks
func Task(raw RawTask) models.Task {
	t := models.Task{
		ID:       canonicalID(raw.ID, raw.MongoID),
		Name:     raw.Name,
		Subtasks: make([]models.Subtask, 0, len(raw.Subtasks)),
	}
	for _, s := range raw.Subtasks {
		t.Subtasks = append(t.Subtasks, Subtask(s))
	}
	return t
}

// Subtask converts a wire subtask
func Subtask(raw RawSubtask) models.Subtask {
	return models.Subtask{
		ID:        canonicalID(raw.ID, raw.MongoID),
		Name:      raw.Name,
		Completed: raw.Completed,
	}
}

// MemberRef resolves an assigned-team entry. Objects become embedded
// summaries, anything else a bare reference. Empty entries are dropped.
func MemberRef(raw json.RawMessage) (models.MemberRef, bool) {
	if isObject(raw) {
		var m RawMember
		if err := json.Unmarshal(raw, &m); err == nil && (len(m.ID) > 0 || len(m.MongoID) > 0) {
			return models.Embedded(Member(m)), true
		}
	}
	id := refID(raw)
	if id == "" {
		return models.MemberRef{}, false
	}
	return models.Reference(id), true
}

// Member converts a wire team member
func Member(raw RawMember) models.TeamMember {
	return models.TeamMember{
		ID:         canonicalID(raw.ID, raw.MongoID),
		Name:       raw.Name,
		Role:       raw.Role,
		Email:      raw.Email,
		Phone:      raw.Phone,
		Status:     raw.Status,
		Avatar:     raw.Avatar,
		LinkedUser: refID(raw.LinkedUser),
	}
}

// Members converts a list of wire team members
func Members(raws []RawMember) []models.TeamMember {
	out := make([]models.TeamMember, 0, len(raws))
	for _, r := range raws {
		out = append(out, Member(r))
	}
	return out
}

// User converts a wire user profile
func User(raw RawUser) models.User {
	return models.User{
		ID:     canonicalID(raw.ID, raw.MongoID),
		Name:   raw.Name,
		Email:  raw.Email,
		Role:   raw.Role,
		Avatar: raw.Avatar,
		Phone:  raw.Phone,
		Bio:    raw.Bio,
	}
}

// Contact resolves a populated or bare message participant
func Contact(raw json.RawMessage) models.Contact {
	c := models.Contact{ID: refID(raw)}
	if isObject(raw) {
		var ref rawRef
		if err := json.Unmarshal(raw, &ref); err == nil {
			c.Name = ref.Name
			c.Avatar = ref.Avatar
		}
	}
	return c
}

// Message converts a wire message
func Message(raw RawMessage) models.Message {
	m := models.Message{
		ID:        canonicalID(raw.ID, raw.MongoID),
		Sender:    Contact(raw.Sender),
		Receiver:  refID(raw.Receiver),
		Content:   raw.Content,
		Read:      raw.Read,
		Edited:    raw.Edited,
		CreatedAt: raw.CreatedAt,
	}
	for _, mention := range raw.Mentions {
		if id := refID(mention); id != "" {
			m.Mentions = append(m.Mentions, id)
		}
	}
	return m
}

// Messages converts a list of wire messages
func Messages(raws []RawMessage) []models.Message {
	out := make([]models.Message, 0, len(raws))
	for _, r := range raws {
		out = append(out, Message(r))
	}
	return out
}

// Conversations converts a list of wire conversation summaries
func Conversations(raws []RawConversation) []models.Conversation {
	out := make([]models.Conversation, 0, len(raws))
	for _, r := range raws {
		out = append(out, models.Conversation{
			User:        Contact(r.User),
			LastMessage: r.LastMessage,
			Unread:      r.Unread,
		})
	}
	return out
}
