package models

import (
	"bytes"
	"encoding/json"
)

// MemberStatus is the invitation state of a team member
type MemberStatus string

const (
	MemberPending MemberStatus = "pending"
	MemberActive  MemberStatus = "active"
)

// TeamMember is a person record, optionally linked to a user account
type TeamMember struct {
	ID         string       `json:"id" yaml:"id"`
	Name       string       `json:"name" yaml:"name"`
	Role       string       `json:"role" yaml:"role"`
	Email      string       `json:"email" yaml:"email"`
	Phone      string       `json:"phone,omitempty" yaml:"phone,omitempty"`
	Status     MemberStatus `json:"status" yaml:"status"`
	Avatar     string       `json:"avatar,omitempty" yaml:"avatar,omitempty"`
	LinkedUser string       `json:"linkedUser,omitempty" yaml:"linkedUser,omitempty"`
}

// TeamMemberInput is the payload for creating or updating a team member
type TeamMemberInput struct {
	Name   string `json:"name"`
	Role   string `json:"role"`
	Email  string `json:"email"`
	Phone  string `json:"phone,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// MemberRef points at a team member either by identifier alone or with an
// embedded summary. Resolved once at the decoding boundary.
type MemberRef struct {
	id     string
	member *TeamMember
}

// Reference builds a MemberRef that only carries an identifier
func Reference(id string) MemberRef {
	return MemberRef{id: id}
}

// Embedded builds a MemberRef that carries the member summary
func Embedded(m TeamMember) MemberRef {
	return MemberRef{id: m.ID, member: &m}
}

// ID returns the referenced member's identifier
func (r MemberRef) ID() string {
	return r.id
}

// Member returns the embedded summary when present
func (r MemberRef) Member() (TeamMember, bool) {
	if r.member == nil {
		return TeamMember{}, false
	}
	return *r.member, true
}

func (r MemberRef) MarshalJSON() ([]byte, error) {
	if r.member != nil {
		return json.Marshal(r.member)
	}
	return json.Marshal(r.id)
}

func (r *MemberRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var m TeamMember
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		*r = Embedded(m)
		return nil
	}
	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	*r = Reference(id)
	return nil
}

func (r MemberRef) MarshalYAML() (interface{}, error) {
	if r.member != nil {
		return r.member, nil
	}
	return r.id, nil
}

// User is the authenticated account profile
type User struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Email  string `json:"email" yaml:"email"`
	Role   string `json:"role,omitempty" yaml:"role,omitempty"`
	Avatar string `json:"avatar,omitempty" yaml:"avatar,omitempty"`
	Phone  string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Bio    string `json:"bio,omitempty" yaml:"bio,omitempty"`
}

// ProfileInput is the payload for a profile update
type ProfileInput struct {
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	Avatar string `json:"avatar,omitempty"`
	Phone  string `json:"phone,omitempty"`
	Bio    string `json:"bio,omitempty"`
}
