package model

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one entry of a session transcript. Turns live in process memory
// only and are lost when the session is closed.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
