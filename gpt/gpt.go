package gpt

// Client interface for chat-completion providers
type Client interface {
	Complete(systemMessage, userMessage string) (string, error)
}

// Role of a chat message author
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is a single message of a chat exchange
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is the body posted to the chat-completions endpoint
type CompletionRequest struct {
	Messages    []ChatMessage `json:"messages"`
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// Choice is one generated alternative
type Choice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason,omitempty"`
}

// CompletionResponse is the success body of the chat-completions endpoint
type CompletionResponse struct {
	Choices []Choice `json:"choices"`
}
