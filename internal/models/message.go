package models

import "time"

// Contact is the summary of a message participant
type Contact struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Avatar string `json:"avatar,omitempty" yaml:"avatar,omitempty"`
}

// Message is a direct message between two users
type Message struct {
	ID        string    `json:"id" yaml:"id"`
	Sender    Contact   `json:"sender" yaml:"sender"`
	Receiver  string    `json:"receiver" yaml:"receiver"`
	Content   string    `json:"content" yaml:"content"`
	Mentions  []string  `json:"mentions,omitempty" yaml:"mentions,omitempty"`
	Read      bool      `json:"read" yaml:"read"`
	Edited    bool      `json:"isEdited" yaml:"edited"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// Conversation summarizes the thread with one other user
type Conversation struct {
	User        Contact `json:"user" yaml:"user"`
	LastMessage string  `json:"lastMessage" yaml:"lastMessage"`
	Unread      int     `json:"unread" yaml:"unread"`
}
