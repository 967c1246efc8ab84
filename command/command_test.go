package command

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/d1nch8g/emcee/gpt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	prompts []string
	content string
	err     error
}

func (s *stubGenerator) Generate(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.content, s.err
}

func TestRegistry_UnknownCommand(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Call("nope", nil)
	require.ErrorIs(t, err, ErrUnknownCommand)

	res := reg.Invoke("nope", nil)
	assert.False(t, res.OK())
	assert.Equal(t, "unknown command: nope", res.Error)
}

func TestRegistry_Names(t *testing.T) {
	reg := NewRegistry()
	reg.Register("b", func(json.RawMessage) (any, error) { return nil, nil })
	reg.Register("a", func(json.RawMessage) (any, error) { return nil, nil })

	assert.Equal(t, []string{"a", "b"}, reg.Names())
	assert.True(t, reg.Has("a"))
	assert.False(t, reg.Has("c"))
}

func TestGenerateScript_Success(t *testing.T) {
	gen := &stubGenerator{content: "愿你们执子之手，白头偕老"}
	reg := NewRegistry()
	RegisterScript(reg, gen)

	res := reg.Invoke(GenerateScript, json.RawMessage(`{"prompt":"写一句祝福"}`))
	require.True(t, res.OK(), res.Error)
	assert.Equal(t, "愿你们执子之手，白头偕老", res.Value)
	assert.Equal(t, []string{"写一句祝福"}, gen.prompts)
}

func TestGenerateScript_FlattensError(t *testing.T) {
	gen := &stubGenerator{err: &gpt.Error{Kind: gpt.KindRemoteError, StatusCode: 401, Body: "unauthorized"}}
	reg := NewRegistry()
	RegisterScript(reg, gen)

	res := reg.Invoke(GenerateScript, json.RawMessage(`{"prompt":"x"}`))
	assert.False(t, res.OK())
	assert.Nil(t, res.Value)
	assert.Contains(t, res.Error, "401")
	assert.Contains(t, res.Error, "unauthorized")

	_, err := reg.Call(GenerateScript, json.RawMessage(`{"prompt":"x"}`))
	assert.Equal(t, gpt.KindRemoteError, gpt.KindOf(err))
}

func TestGenerateScript_EmptyArgs(t *testing.T) {
	gen := &stubGenerator{content: "ok"}
	reg := NewRegistry()
	RegisterScript(reg, gen)

	res := reg.Invoke(GenerateScript, nil)
	require.True(t, res.OK())
	assert.Equal(t, []string{""}, gen.prompts)
}

func TestGenerateScript_InvalidArgs(t *testing.T) {
	gen := &stubGenerator{content: "ok"}
	reg := NewRegistry()
	RegisterScript(reg, gen)

	res := reg.Invoke(GenerateScript, json.RawMessage(`{"prompt":42}`))
	assert.False(t, res.OK())
	assert.Contains(t, res.Error, "invalid arguments")
	assert.Empty(t, gen.prompts)
}

func TestInvoke_EmptyErrorMessage(t *testing.T) {
	reg := NewRegistry()
	reg.Register("blank", func(json.RawMessage) (any, error) { return nil, &gpt.Error{} })
	reg.Register("bare", func(json.RawMessage) (any, error) { return "partial", errors.New("") })

	for _, name := range []string{"blank", "bare"} {
		res := reg.Invoke(name, nil)
		assert.False(t, res.OK(), name)
		assert.Equal(t, "command failed", res.Error, name)
		assert.Nil(t, res.Value, name)
	}
}

func TestResult_ZeroValueNotOK(t *testing.T) {
	assert.False(t, Result{}.OK())
	assert.False(t, Result{Error: "unknown command: x"}.OK())
}

func TestResult_JSON(t *testing.T) {
	raw, err := json.Marshal(Result{Value: ""})
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":""}`, string(raw))

	raw, err = json.Marshal(Result{Error: errors.New("boom").Error()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"boom"}`, string(raw))
}
