package models

import (
	"time"

	"github.com/google/uuid"
)

// Chat is a channel record owned by the chats service. Names lead with '#'.
type Chat struct {
	ChatID          int    `json:"chat_id"`
	Name            string `json:"name"`
	Topic           string `json:"topic"`
	ReadPrivileges  int    `json:"read_privileges"`
	WritePrivileges int    `json:"write_privileges"`
	AutoJoin        bool   `json:"auto_join"`
	Instance        bool   `json:"instance"`

	Status    Status    `json:"status"`
	CreatedBy int       `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Member identifies a session's membership in a chat.
type Member struct {
	ChatID     int       `json:"chat_id"`
	SessionID  uuid.UUID `json:"session_id"`
	AccountID  int       `json:"account_id"`
	Username   string    `json:"username"`
	Privileges int       `json:"privileges"`
	JoinedAt   time.Time `json:"joined_at"`
}
