// Package command exposes named operations to a host application. Handler
// errors are flattened to display strings at this boundary.
package command

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownCommand is returned for names with no registered handler
var ErrUnknownCommand = errors.New("unknown command")

// Handler runs a command with its raw JSON arguments
type Handler func(args json.RawMessage) (any, error)

// errorPlaceholder stands in for handler errors whose message is empty
const errorPlaceholder = "command failed"

// Result is what the host sees: exactly one of Value or Error is set
type Result struct {
	Value any    `json:"value,omitempty"`
	Error string `json:"error,omitempty"`

	ok bool
}

// OK reports whether the invocation succeeded. Only Invoke produces a
// successful Result.
func (r Result) OK() bool {
	return r.ok
}

type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register adds a handler, replacing any previous one with the same name
func (r *Registry) Register(name string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = h
}

// Has reports whether name is registered
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[name]
	return ok
}

// Names returns registered command names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call runs the handler and keeps the error typed
func (r *Registry) Call(name string, args json.RawMessage) (any, error) {
	r.mu.RLock()
	h, ok := r.handlers[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	return h(args)
}

// Invoke runs the handler and flattens the outcome into a Result
func (r *Registry) Invoke(name string, args json.RawMessage) Result {
	v, err := r.Call(name, args)
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = errorPlaceholder
		}
		return Result{Error: msg}
	}
	return Result{Value: v, ok: true}
}

// decodeArgs unmarshals a command's argument object. Empty args decode to
// the zero value.
func decodeArgs(args json.RawMessage, v any) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}
