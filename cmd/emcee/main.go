package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/d1nch8g/emcee/command"
	"github.com/d1nch8g/emcee/config"
	"github.com/d1nch8g/emcee/gpt"
	"github.com/d1nch8g/emcee/logger"
	"github.com/d1nch8g/emcee/script"
	"github.com/d1nch8g/emcee/server"
	"github.com/fatih/color"
	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const version = "1.0.0"

type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// newClient overrides the DeepSeek client, nil means default
	newClient script.ClientFactory
	// signals overrides SIGINT/SIGTERM delivery, nil means os/signal
	signals chan os.Signal
}

func main() {
	a := &app{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	os.Exit(a.run(os.Args[1:]))
}

func (a *app) run(args []string) int {
	cfg, err := config.Parse(args)
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return 0
		}
		color.New(color.FgRed).Fprintf(a.stderr, "Configuration error: %v\n", err)
		return 1
	}

	log, err := logger.New(cfg.GetLogLevel(), cfg.LogFile)
	if err != nil {
		color.New(color.FgRed).Fprintf(a.stderr, "Failed to set up logging: %v\n", err)
		return 1
	}
	defer log.Close()

	mainLogger := log.WithFields(logrus.Fields{
		"version": version,
		"command": cfg.Command,
	})

	credential := cfg.Credential()
	if cfg.Verbose {
		key, _ := credential()
		cfg.PrintConfig(a.stderr, key)
	}

	opts := []script.Option{
		script.WithCredential(credential),
		script.WithLogger(log),
	}
	if a.newClient != nil {
		opts = append(opts, script.WithClientFactory(a.newClient))
	}
	reg := command.NewRegistry()
	command.RegisterScript(reg, script.New(opts...))

	switch cfg.Command {
	case config.CommandGenerate:
		return a.generate(cfg, reg, mainLogger)
	case config.CommandServe:
		return a.serve(cfg, reg, log, mainLogger)
	default:
		mainLogger.Errorf("Unsupported command: %s", cfg.Command)
		return 1
	}
}

func (a *app) generate(cfg *config.Config, reg *command.Registry, log logrus.FieldLogger) int {
	prompt := cfg.Generate.Prompt()
	if !cfg.Generate.HasPrompt() {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			color.New(color.FgRed).Fprintf(a.stderr, "Failed to read prompt from stdin: %v\n", err)
			return 1
		}
		prompt = trimLineEnding(string(data))
	}

	args, _ := json.Marshal(command.GenerateScriptArgs{Prompt: prompt})

	v, err := reg.Call(command.GenerateScript, args)
	if err != nil {
		log.WithField("kind", gpt.KindOf(err)).Debug("generate_script failed")
		color.New(color.FgRed).Fprintf(a.stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Fprintln(a.stdout, v)
	return 0
}

func (a *app) serve(cfg *config.Config, reg *command.Registry, log logrus.FieldLogger, mainLogger logrus.FieldLogger) int {
	sigCh := a.signals
	if sigCh == nil {
		sigCh = make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)
	}

	srv := server.New(cfg.Serve.Listen, reg, log)

	g, gctx := errgroup.WithContext(context.Background())
	ctx, cancel := context.WithCancelCause(gctx)
	defer cancel(nil)

	g.Go(func() error {
		select {
		case sig := <-sigCh:
			mainLogger.WithField("signal", sig.String()).Info("Received signal, stopping")
			cancel(fmt.Errorf("received %s", sig))
		case <-ctx.Done():
		}
		return nil
	})
	g.Go(func() error {
		defer cancel(nil)
		return srv.Run(ctx)
	})

	mainLogger.WithField("commands", reg.Names()).Info("Starting emcee bridge")
	if err := g.Wait(); err != nil {
		mainLogger.WithError(err).Error("Server failed")
		return 1
	}
	mainLogger.WithField("reason", context.Cause(ctx)).Info("Server stopped")
	return 0
}

// trimLineEnding drops one trailing "\n" or "\r\n", as left by echo or a
// terminal. Anything before it is part of the prompt.
func trimLineEnding(s string) string {
	if strings.HasSuffix(s, "\r\n") {
		return s[:len(s)-2]
	}
	return strings.TrimSuffix(s, "\n")
}
