package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cad-agent/internal/di"
	"cad-agent/internal/infrastructure/env"
)

const sessionName = "default"

func main() {
	envService := env.NewEnvService()

	container, err := di.NewContainer(di.Config{
		APIKey:      envService.MustGet("MODEL_API_KEY"),
		Model:       envService.MustGet("MODEL_NAME"),
		BaseURL:     envService.Get("MODEL_BASE_URL"),
		Temperature: envService.GetFloat("MODEL_TEMPERATURE", 0.3),
		TopP:        envService.GetFloat("MODEL_TOP_P", 0),
		TokenBudget: envService.GetInt("TOKEN_BUDGET", 24000),
		Domain:      envService.GetWithDefault("GLOSSARY_DOMAIN", "piping"),
		DrawingFile: envService.Get("DRAWING_FILE"),
		GlossaryDir: envService.GetWithDefault("GLOSSARY_DIR", "glossary"),
		SessionDir:  envService.GetWithDefault("SESSION_DIR", "sessions"),
		SessionName: sessionName,
		OnProgress: func(update string) {
			fmt.Printf("  ... %s\n", update)
		},
	})
	if err != nil {
		log.Fatalf("Initialization failed: %v", err)
	}
	defer container.Close()

	if history, err := container.Sessions.Load(sessionName); err != nil {
		container.Logger.Warn("Could not load saved session", "error", err)
	} else if len(history) > 0 {
		container.Executor.Restore(history)
		fmt.Printf("Restored session with %d messages.\n", len(history))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("CAD drawing assistant. Type a request, or /tokens, /reset, /exit.")
	repl(ctx, container)
}

func repl(ctx context.Context, container *di.Container) {
	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("\n> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch line {
		case "/exit", "/quit":
			saveSession(container)
			return
		case "/tokens":
			in, out, calls := container.Ledger.Totals()
			fmt.Printf("Token usage: input=%d output=%d calls=%d\n", in, out, calls)
			continue
		case "/reset":
			container.Executor.Reset()
			container.Ledger.Reset()
			fmt.Println("Conversation cleared.")
			continue
		}

		turnCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
		result, err := container.Executor.ExecuteTurn(turnCtx, line, func(delta string) {
			fmt.Print(delta)
		})
		cancel()
		if err != nil {
			container.Logger.Error("Turn failed", "error", err)
			fmt.Printf("\nError: %v\n", err)
			if ctx.Err() != nil {
				saveSession(container)
				return
			}
			continue
		}

		fmt.Println()
		if result.ToolsRun > 0 {
			container.Logger.Info("Turn completed",
				"toolsRun", result.ToolsRun,
				"inputTokens", result.InputTokens,
				"outputTokens", result.OutputTokens)
		}
		saveSession(container)
	}
}

func saveSession(container *di.Container) {
	if err := container.Sessions.Save(sessionName, container.Executor.History()); err != nil {
		container.Logger.Warn("Could not save session", "error", err)
	}
}
