// Package script generates wedding emcee lines through the DeepSeek
// chat-completions API.
package script

import (
	"os"
	"time"

	"github.com/d1nch8g/emcee/gpt"
	"github.com/sirupsen/logrus"
)

const (
	// Persona is the system message sent ahead of every prompt.
	Persona = "你是一位专业的婚礼司仪文案撰写专家，擅长写出优美、感人且适合中国传统婚礼的台词。"

	Model       = "deepseek-chat"
	Temperature = 0.7
	MaxTokens   = 1000

	// CredentialEnv names the variable holding the DeepSeek API key.
	CredentialEnv = "DEEPSEEK_API_KEY"
)

// CredentialFunc looks up the API key. It is called on every Generate.
type CredentialFunc func() (string, bool)

// ClientFactory builds the completion client for a single call.
type ClientFactory func(apiKey string) gpt.Client

// EnvCredential reads the key from the process environment.
func EnvCredential(name string) CredentialFunc {
	return func() (string, bool) {
		return os.LookupEnv(name)
	}
}

// NewDeepSeekClient builds a client with the fixed model, temperature and
// token cap.
func NewDeepSeekClient(apiKey string) gpt.Client {
	c := gpt.NewDeepSeekClient(apiKey, Model)
	c.Temperature = Temperature
	c.MaxTokens = MaxTokens
	return c
}

type Generator struct {
	credential CredentialFunc
	newClient  ClientFactory
	log        logrus.FieldLogger
}

// Option configures a Generator.
type Option func(*Generator)

func WithCredential(fn CredentialFunc) Option {
	return func(g *Generator) {
		g.credential = fn
	}
}

func WithClientFactory(fn ClientFactory) Option {
	return func(g *Generator) {
		g.newClient = fn
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(g *Generator) {
		g.log = log
	}
}

// New creates a Generator reading DEEPSEEK_API_KEY from the environment
// unless overridden.
func New(opts ...Option) *Generator {
	g := &Generator{
		credential: EnvCredential(CredentialEnv),
		newClient:  NewDeepSeekClient,
		log:        logrus.StandardLogger(),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Generate sends prompt, unmodified, after the fixed persona and returns the
// first generated message exactly as received. Failures are *gpt.Error.
func (g *Generator) Generate(prompt string) (string, error) {
	log := g.log.WithField("prompt_len", len(prompt))

	apiKey, ok := g.credential()
	if !ok || apiKey == "" {
		err := &gpt.Error{
			Kind: gpt.KindConfigurationMissing,
			Msg:  "DeepSeek API key is not configured, set " + CredentialEnv + " in the environment or .env file",
		}
		log.WithField("kind", err.Kind).Warn("Script generation failed")
		return "", err
	}

	log.Debug("Requesting script")
	start := time.Now()

	content, err := g.newClient(apiKey).Complete(Persona, prompt)
	if err != nil {
		log.WithFields(logrus.Fields{
			"kind":     gpt.KindOf(err),
			"duration": time.Since(start),
		}).WithError(err).Warn("Script generation failed")
		return "", err
	}

	log.WithFields(logrus.Fields{
		"content_len": len(content),
		"duration":    time.Since(start),
	}).Info("Script generated")

	return content, nil
}
