package models

// Chat roles accepted in a conversation history.
const (
	RoleUser   = "user"
	RoleModel  = "model"
	RoleSystem = "system"
	RoleTool   = "tool"
)

type MessagePart struct {
	Text string `json:"text"`
}

type Message struct {
	Role    string        `json:"role"`
	Content []MessagePart `json:"content"`
}
