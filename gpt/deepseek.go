package gpt

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"unicode/utf8"

	"golang.org/x/net/http/httpguts"
)

const (
	DeepSeekBaseURL = "https://api.deepseek.com/v1"

	unreadableBody = "<unable to read error body>"
)

// DeepSeekClient implements Client for the DeepSeek chat-completions API
type DeepSeekClient struct {
	APIKey      string
	HTTPClient  *http.Client
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
}

// NewDeepSeekClient creates a new DeepSeek client. The HTTP client has no
// timeout of its own.
func NewDeepSeekClient(apiKey, model string) *DeepSeekClient {
	return &DeepSeekClient{
		APIKey:      apiKey,
		HTTPClient:  &http.Client{},
		Model:       model,
		BaseURL:     DeepSeekBaseURL,
		Temperature: 0.7,
		MaxTokens:   1000,
	}
}

// NewRequest builds the chat-completions request without sending it
func (c *DeepSeekClient) NewRequest(systemMessage, userMessage string) (*http.Request, error) {
	auth := "Bearer " + c.APIKey
	if !httpguts.ValidHeaderFieldValue(auth) {
		return nil, &Error{Kind: KindCredentialFormatInvalid, Msg: "invalid API key format: key contains characters not allowed in a header"}
	}

	// encoding/json would replace invalid bytes with U+FFFD
	if !utf8.ValidString(systemMessage) || !utf8.ValidString(userMessage) {
		return nil, &Error{Kind: KindPromptInvalid, Msg: "prompt is not valid UTF-8"}
	}

	request := CompletionRequest{
		Messages: []ChatMessage{
			{Role: RoleSystem, Content: systemMessage},
			{Role: RoleUser, Content: userMessage},
		},
		Model:       c.Model,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Msg: "failed to marshal request", Err: err}
	}

	req, err := http.NewRequest(http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Msg: "failed to create request", Err: err}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", auth)

	return req, nil
}

// Complete implements Client interface
func (c *DeepSeekClient) Complete(systemMessage, userMessage string) (string, error) {
	req, err := c.NewRequest(systemMessage, userMessage)
	if err != nil {
		return "", err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", &Error{Kind: KindTransportFailure, Msg: "DeepSeek API call failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, err := io.ReadAll(resp.Body)
		text := string(body)
		if err != nil {
			text = unreadableBody
		}
		return "", &Error{Kind: KindRemoteError, StatusCode: resp.StatusCode, Body: text}
	}

	response, err := decodeResponse(resp.Body)
	if err != nil {
		return "", &Error{Kind: KindResponseParseFailure, Msg: "failed to parse API response", Err: err}
	}

	if len(response.Choices) == 0 {
		return "", &Error{Kind: KindEmptyResult, Msg: "API response contained no generated content"}
	}

	return response.Choices[0].Message.Content, nil
}
