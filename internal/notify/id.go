package notify

import "strings"

// Kind identifies which rule or action produced a notification
type Kind int

const (
	KindOther Kind = iota
	KindOverdue
	KindDueSoon
	KindDueWeek
	KindDeadline // any other deadline-family id
	KindCompleted
	KindAllTasksDone
	KindMention
	KindTeamMember
	KindError
)

// Ordered so that longer prefixes are matched before their families.
var prefixes = []struct {
	kind   Kind
	prefix string
}{
	{KindOverdue, "deadline-overdue-"},
	{KindDueSoon, "deadline-soon-"},
	{KindDueWeek, "deadline-week-"},
	{KindDeadline, "deadline-"},
	{KindCompleted, "completed-"},
	{KindAllTasksDone, "alltasks-done-"},
	{KindMention, "mention-msg-"},
	{KindTeamMember, "team-member-"},
	{KindError, "error-"},
}

// ProjectDerived reports whether ids of this kind are regenerated from project state
func (k Kind) ProjectDerived() bool {
	switch k {
	case KindOverdue, KindDueSoon, KindDueWeek, KindDeadline, KindCompleted, KindAllTasksDone:
		return true
	}
	return false
}

func (k Kind) String() string {
	for _, p := range prefixes {
		if p.kind == k {
			return strings.TrimSuffix(p.prefix, "-")
		}
	}
	return "other"
}

// ID is a structured notification identifier: a rule kind plus the entity it is about
type ID struct {
	Kind   Kind
	Target string
}

func (id ID) String() string {
	for _, p := range prefixes {
		if p.kind == id.Kind {
			return p.prefix + id.Target
		}
	}
	return id.Target
}

// ParseID classifies an existing notification id
func ParseID(s string) ID {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p.prefix) {
			return ID{Kind: p.kind, Target: strings.TrimPrefix(s, p.prefix)}
		}
	}
	return ID{Kind: KindOther, Target: s}
}

func OverdueID(projectID string) ID      { return ID{KindOverdue, projectID} }
func DueSoonID(projectID string) ID      { return ID{KindDueSoon, projectID} }
func DueWeekID(projectID string) ID      { return ID{KindDueWeek, projectID} }
func CompletedID(projectID string) ID    { return ID{KindCompleted, projectID} }
func AllTasksDoneID(projectID string) ID { return ID{KindAllTasksDone, projectID} }
func MentionID(messageID string) ID      { return ID{KindMention, messageID} }
func TeamMemberID(memberID string) ID    { return ID{KindTeamMember, memberID} }
func ErrorID(ref string) ID              { return ID{KindError, ref} }
