// Command execution for CLI commands.
//
// Information Hiding:
// - Application wiring (settings, provider, tools, engine, server)
// - Output formatting for the interactive session

package cli

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/ptgrid/stormdesk/chat"
	"github.com/ptgrid/stormdesk/config"
	"github.com/ptgrid/stormdesk/eredes"
	"github.com/ptgrid/stormdesk/llm"
	"github.com/ptgrid/stormdesk/server"
	"github.com/ptgrid/stormdesk/session"
	"github.com/ptgrid/stormdesk/tools"
)

// Options holds CLI execution options. Flag values override the environment.
type Options struct {
	Provider string
	Model    string
	Addr     string
	Verbose  bool
}

// buildEngine assembles the conversation engine from settings. Returns a nil
// engine when no API key is configured so the server can start degraded.
func buildEngine(settings config.Settings) (*chat.Engine, error) {
	if !settings.HasAPIKey() {
		return nil, nil
	}

	providerType, err := llm.ParseProviderType(settings.LLM.Provider)
	if err != nil {
		return nil, err
	}

	provider, err := llm.NewProvider(
		providerType,
		settings.LLM.APIKey,
		settings.LLM.BaseURL,
		settings.LLM.Model,
		float32(settings.LLM.Temperature),
	)
	if err != nil {
		return nil, err
	}

	client := eredes.NewClient(settings.ERedes.APIBase, settings.ERedes.Dataset)
	registry := tools.NewRegistry(client, nil)

	return chat.NewEngine(provider, registry, settings.Chat.MaxIterations, nil), nil
}

// applyFlags folds command-line overrides into the loaded settings.
func applyFlags(settings *config.Settings, opts Options) {
	if opts.Provider != "" {
		settings.LLM.Provider = opts.Provider
	}
	if opts.Model != "" {
		settings.LLM.Model = opts.Model
	}
	if opts.Addr != "" {
		settings.Server.Addr = opts.Addr
	}
	if opts.Verbose {
		settings.Server.LogLevel = "DEBUG"
	}
}

// Serve runs the HTTP backend until the listener fails.
func Serve(opts Options) error {
	settings, err := config.New()
	if err != nil {
		return err
	}
	applyFlags(&settings, opts)

	logger := config.NewLogger(settings.Server.LogLevel)

	engine, err := buildEngine(settings)
	if err != nil {
		return err
	}
	if engine == nil {
		logger.Warn("no API key configured, chat requests will answer 503",
			"provider", settings.LLM.Provider)
	}

	store := session.NewStore(chat.Persona, settings.Chat.MaxMessages, logger)

	srv := server.New(server.Options{
		Engine:    engine,
		Store:     store,
		Timeout:   settings.Chat.Timeout,
		StaticDir: settings.Server.StaticDir,
		Logger:    logger,
	})

	handler := srv.Handler(settings.Server.AllowedOrigins, settings.Server.RateLimitPerMinute)

	logger.Info("listening",
		"addr", settings.Server.Addr,
		"provider", settings.LLM.Provider,
		"model", settings.LLM.Model)

	return http.ListenAndServe(settings.Server.Addr, handler)
}

// Chat starts an interactive terminal session against the same engine the
// server uses. Useful for trying the assistant without a frontend.
func Chat(ctx context.Context, opts Options) error {
	settings, err := config.New()
	if err != nil {
		return err
	}
	applyFlags(&settings, opts)

	logger := config.NewLogger(settings.Server.LogLevel)

	engine, err := buildEngine(settings)
	if err != nil {
		return err
	}
	if engine == nil {
		return fmt.Errorf("no API key configured for provider %q", settings.LLM.Provider)
	}

	store := session.NewStore(chat.Persona, settings.Chat.MaxMessages, logger)
	sessionID := uuid.New().String()
	sess := store.GetOrCreate(sessionID)

	fmt.Println("Assistente E-REDES — Tempestade Kristin. Escreva 'sair' para terminar.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "sair" || input == "exit" || input == "quit" {
			break
		}

		sess.Lock()
		history := append(sess.Snapshot(), llm.UserMessage(input))

		turnCtx, cancel := context.WithTimeout(ctx, settings.Chat.Timeout)
		final, reply, err := engine.Run(turnCtx, history)
		cancel()

		if err != nil {
			sess.Unlock()
			fmt.Fprintf(os.Stderr, "\nErro: %v\n\n", err)
			continue
		}

		store.Commit(sess, final)
		sess.Unlock()

		fmt.Printf("\n%s\n\n", reply)
	}

	return scanner.Err()
}
