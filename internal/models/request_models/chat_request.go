package request_models

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest carries the whole dialogue so far. Message is the older single-turn form
// and is only used when Messages is empty.
type ChatRequest struct {
	Messages  []ChatMessage `json:"messages"`
	Message   string        `json:"message,omitempty"`
	SessionID string        `json:"session_id,omitempty"`
}
