package models

import "time"

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Thread represents a single conversation thread
type Thread struct {
	ID        string    `json:"id" badgerhold:"key"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message represents a single role-tagged message within a thread
type Message struct {
	ID        string    `json:"id" badgerhold:"key"`
	ThreadID  string    `json:"thread_id" badgerhold:"index"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Seq       int       `json:"seq"` // Insertion order within the thread
	CreatedAt time.Time `json:"created_at"`
}

// DeriveTitle builds a thread title from the first prompt: the prompt
// truncated to 50 characters with an ellipsis when longer.
func DeriveTitle(prompt string) string {
	const maxTitleLen = 50
	runes := []rune(prompt)
	if len(runes) > maxTitleLen {
		return string(runes[:maxTitleLen]) + "..."
	}
	return prompt
}
