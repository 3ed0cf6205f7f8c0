package domain

import "time"

// Role identifies the sender of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ChatMessage is one entry in a conversation transcript.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Answer is the composed reply to one question. RelevantInvoices is empty
// (not nil) when no sufficiently relevant invoice was found, and Confidence
// carries the top similarity score, or 0 on escalation.
type Answer struct {
	Response         string   `json:"response"`
	RelevantInvoices []string `json:"relevantInvoices"`
	Confidence       float64  `json:"confidence"`
}
