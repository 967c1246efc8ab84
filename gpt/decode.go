package gpt

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// wire shapes use pointers so missing and null fields can be told apart
// from empty values
type wireResponse struct {
	Choices *[]wireChoice `json:"choices"`
}

type wireChoice struct {
	Index        int          `json:"index"`
	Message      *wireMessage `json:"message"`
	FinishReason *string      `json:"finish_reason"`
}

type wireMessage struct {
	Role    *string `json:"role"`
	Content *string `json:"content"`
}

// decodeResponse reads exactly one completion response from r. Every choice
// must carry a message with string role and content, and nothing but
// whitespace may follow the JSON value.
func decodeResponse(r io.Reader) (*CompletionResponse, error) {
	dec := json.NewDecoder(r)

	var wire wireResponse
	if err := dec.Decode(&wire); err != nil {
		return nil, err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after response body")
	}

	if wire.Choices == nil {
		return nil, errors.New("missing field choices")
	}

	response := &CompletionResponse{Choices: make([]Choice, 0, len(*wire.Choices))}
	for i, c := range *wire.Choices {
		switch {
		case c.Message == nil:
			return nil, fmt.Errorf("choices[%d]: missing field message", i)
		case c.Message.Role == nil:
			return nil, fmt.Errorf("choices[%d].message: missing field role", i)
		case c.Message.Content == nil:
			return nil, fmt.Errorf("choices[%d].message: missing field content", i)
		}

		choice := Choice{
			Index: c.Index,
			Message: ChatMessage{
				Role:    Role(*c.Message.Role),
				Content: *c.Message.Content,
			},
		}
		if c.FinishReason != nil {
			choice.FinishReason = *c.FinishReason
		}
		response.Choices = append(response.Choices, choice)
	}

	return response, nil
}
