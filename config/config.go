package config

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/d1nch8g/emcee/script"
	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"
	"github.com/subosito/gotenv"
)

const (
	CommandGenerate = "generate"
	CommandServe    = "serve"

	DefaultListen = "127.0.0.1:8787"
)

// Config holds all configuration options for emcee
type Config struct {
	// Logging Configuration
	LogFile string `long:"log-file" env:"EMCEE_LOG_FILE" description:"Log file path (optional)"`
	Verbose bool   `short:"v" long:"verbose" description:"Enable verbose output"`
	Quiet   bool   `short:"q" long:"quiet" description:"Suppress non-essential output"`

	// Credential and settings sources
	EnvFile    string `short:"e" long:"env-file" env:"EMCEE_ENV_FILE" default:".env" description:"dotenv file consulted for DEEPSEEK_API_KEY"`
	ConfigFile string `short:"c" long:"config" env:"EMCEE_CONFIG" description:"YAML settings file (optional)"`

	Generate GenerateCommand `command:"generate" description:"Generate a wedding script for a prompt"`
	Serve    ServeCommand    `command:"serve" description:"Serve generate_script to a local front-end over HTTP"`

	// Command is the name of the selected subcommand
	Command string `no-flag:"true"`
	// LogLevel comes from the settings file
	LogLevel string `no-flag:"true"`
}

type GenerateCommand struct {
	Args struct {
		Prompt []string `positional-arg-name:"prompt" description:"Prompt text, read from stdin when omitted"`
	} `positional-args:"yes"`
}

// Prompt joins the positional arguments
func (g *GenerateCommand) Prompt() string {
	return strings.Join(g.Args.Prompt, " ")
}

// HasPrompt reports whether the prompt was given on the command line
func (g *GenerateCommand) HasPrompt() bool {
	return len(g.Args.Prompt) > 0
}

type ServeCommand struct {
	Listen string `short:"l" long:"listen" env:"EMCEE_LISTEN" description:"Address to listen on (default 127.0.0.1:8787)"`
}

// Parse parses command line arguments and environment variables
func Parse(args []string) (*Config, error) {
	var config Config

	parser := flags.NewParser(&config, flags.Default)
	parser.Name = "emcee"
	parser.ShortDescription = "Wedding emcee script generator"
	parser.LongDescription = `Generates wedding emcee lines with the DeepSeek chat-completions API.

Examples:
  emcee generate "为新人写一段开场白"
  echo "交换戒指环节的串词" | emcee generate
  emcee serve --listen 127.0.0.1:8787

Environment Variables:
  DEEPSEEK_API_KEY    DeepSeek API key (may also be set in the .env file)`

	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, err
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if parser.Active != nil {
		config.Command = parser.Active.Name
	}

	if config.ConfigFile != "" {
		settings, err := LoadSettings(config.ConfigFile)
		if err != nil {
			return nil, err
		}
		config.Apply(settings)
	}

	if config.Serve.Listen == "" {
		config.Serve.Listen = DefaultListen
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// Apply fills options the command line left empty
func (c *Config) Apply(s *Settings) {
	if c.LogFile == "" {
		c.LogFile = s.Log.File
	}
	if c.LogLevel == "" {
		c.LogLevel = s.Log.Level
	}
	if c.Serve.Listen == "" {
		c.Serve.Listen = s.Server.Listen
	}
}

// Validate performs additional validation on the configuration
func (c *Config) Validate() error {
	if c.Verbose && c.Quiet {
		return fmt.Errorf("verbose and quiet options are mutually exclusive")
	}

	if c.LogLevel != "" {
		if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("invalid log level %q", c.LogLevel)
		}
	}

	// Validate log file path if provided
	if c.LogFile != "" {
		dir := filepath.Dir(c.LogFile)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("log file directory does not exist: %s", dir)
		}
	}

	if c.Command == CommandServe {
		if _, _, err := net.SplitHostPort(c.Serve.Listen); err != nil {
			return fmt.Errorf("invalid listen address %q: %w", c.Serve.Listen, err)
		}
	}

	return nil
}

// GetLogLevel returns the appropriate log level based on configuration
func (c *Config) GetLogLevel() string {
	if c.Quiet {
		return "error"
	}
	if c.Verbose {
		return "debug"
	}
	if c.LogLevel != "" {
		return c.LogLevel
	}
	return "info"
}

// Credential returns a lookup for DEEPSEEK_API_KEY. A non-empty process
// variable wins; otherwise the env file is read again on every call, so
// edits to it take effect without a restart. The process environment is
// never modified.
func (c *Config) Credential() script.CredentialFunc {
	envFile := c.EnvFile
	return func() (string, bool) {
		if key := os.Getenv(script.CredentialEnv); key != "" {
			return key, true
		}
		if envFile == "" {
			return "", false
		}
		// a missing or unreadable env file means no key
		env, err := gotenv.Read(envFile)
		if err != nil {
			return "", false
		}
		if key := env[script.CredentialEnv]; key != "" {
			return key, true
		}
		return "", false
	}
}

// PrintConfig prints the current configuration (excluding sensitive data)
func (c *Config) PrintConfig(w io.Writer, apiKey string) {
	fmt.Fprintf(w, "Configuration:\n")
	fmt.Fprintf(w, "  Command: %s\n", c.Command)
	if apiKey != "" {
		fmt.Fprintf(w, "  API Key: %s***\n", apiKey[:min(4, len(apiKey))])
	} else {
		fmt.Fprintf(w, "  API Key: (not set)\n")
	}
	fmt.Fprintf(w, "  Env File: %s\n", c.EnvFile)
	fmt.Fprintf(w, "  Log Level: %s\n", c.GetLogLevel())
	if c.LogFile != "" {
		fmt.Fprintf(w, "  Log File: %s\n", c.LogFile)
	}
	if c.ConfigFile != "" {
		fmt.Fprintf(w, "  Settings File: %s\n", c.ConfigFile)
	}
	if c.Command == CommandServe {
		fmt.Fprintf(w, "  Listen: %s\n", c.Serve.Listen)
	}
	fmt.Fprintln(w)
}
