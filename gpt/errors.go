package gpt

import (
	"errors"
	"fmt"
)

// Kind classifies why a completion failed
type Kind int

const (
	KindUnknown Kind = iota
	KindConfigurationMissing
	KindCredentialFormatInvalid
	KindTransportFailure
	KindRemoteError
	KindResponseParseFailure
	KindEmptyResult
	KindPromptInvalid
)

func (k Kind) String() string {
	switch k {
	case KindConfigurationMissing:
		return "configuration_missing"
	case KindCredentialFormatInvalid:
		return "credential_format_invalid"
	case KindTransportFailure:
		return "transport_failure"
	case KindRemoteError:
		return "remote_error"
	case KindResponseParseFailure:
		return "response_parse_failure"
	case KindEmptyResult:
		return "empty_result"
	case KindPromptInvalid:
		return "prompt_invalid"
	default:
		return "unknown"
	}
}

// Error is a classified completion failure. StatusCode and Body are only
// set for KindRemoteError.
type Error struct {
	Kind       Kind
	StatusCode int
	Body       string
	Msg        string
	Err        error
}

func (e *Error) Error() string {
	if e.Kind == KindRemoteError {
		return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Body)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first *Error in err's chain
func KindOf(err error) Kind {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given Kind
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
