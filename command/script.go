package command

import (
	"encoding/json"
)

// GenerateScript is the command name the front-end invokes
const GenerateScript = "generate_script"

// ScriptGenerator produces a script for a prompt
type ScriptGenerator interface {
	Generate(prompt string) (string, error)
}

// GenerateScriptArgs is the argument object of generate_script
type GenerateScriptArgs struct {
	Prompt string `json:"prompt"`
}

// RegisterScript registers generate_script backed by gen
func RegisterScript(reg *Registry, gen ScriptGenerator) {
	reg.Register(GenerateScript, func(args json.RawMessage) (any, error) {
		var in GenerateScriptArgs
		if err := decodeArgs(args, &in); err != nil {
			return nil, err
		}
		return gen.Generate(in.Prompt)
	})
}
