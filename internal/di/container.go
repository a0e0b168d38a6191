package di

import (
	"fmt"
	"time"

	"cad-agent/internal/adapter/tool"
	"cad-agent/internal/application/port/input"
	"cad-agent/internal/application/port/output"
	"cad-agent/internal/application/service"
	"cad-agent/internal/infrastructure/drawing"
	"cad-agent/internal/infrastructure/glossary"
	"cad-agent/internal/infrastructure/llm"
	"cad-agent/internal/infrastructure/logger"
	"cad-agent/internal/infrastructure/session"
	"cad-agent/internal/usecase/executor"
	"cad-agent/internal/usecase/translator"
)

type Container struct {
	Drawing    output.DrawingPort
	LLM        output.LLMPort
	Logger     output.LoggerPort
	Tools      output.ToolRegistry
	Translator input.BatchTranslator
	Executor   *executor.UseCase
	Sessions   *session.Store
	Ledger     *llm.TokenLedger
}

type Config struct {
	APIKey         string
	Model          string
	BaseURL        string
	Temperature    float64
	TopP           float64
	TokenBudget    int
	MaxRetries     int
	RetryBaseDelay time.Duration
	Domain         string
	DrawingFile    string
	GlossaryDir    string
	SessionDir     string
	SessionName    string
	OnProgress     func(string)
}

func NewContainer(cfg Config) (*Container, error) {
	log, err := logger.NewLoggerAdapter(cfg.SessionName)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	glossaryStore := glossary.NewStore()
	if cfg.GlossaryDir != "" {
		if err := glossaryStore.LoadDir(cfg.GlossaryDir); err != nil {
			log.Close()
			return nil, fmt.Errorf("failed to load glossary: %w", err)
		}
	}

	ledger := llm.NewTokenLedger()
	llmCfg := llm.DefaultConfig(cfg.APIKey, cfg.Model)
	if cfg.BaseURL != "" {
		llmCfg.BaseURL = cfg.BaseURL
	}
	if cfg.MaxRetries > 0 {
		llmCfg.MaxRetries = cfg.MaxRetries
	}
	if cfg.RetryBaseDelay > 0 {
		llmCfg.RetryBaseDelay = cfg.RetryBaseDelay
	}
	llmCfg.TopP = float32(cfg.TopP)
	llmCfg.Logger = log
	llmCfg.Ledger = ledger
	client := llm.NewClient(llmCfg)

	drawingAdapter := drawing.NewMemoryAdapter(log)
	if cfg.DrawingFile != "" {
		if err := drawingAdapter.LoadFile(cfg.DrawingFile); err != nil {
			log.Close()
			return nil, fmt.Errorf("failed to load drawing: %w", err)
		}
	}

	batch := translator.New(client, glossaryStore, log, translator.Config{})

	tools := service.NewToolRegistry()
	registerDrawingTools(tools, drawingAdapter, batch, log)

	uc := executor.New(client, tools, glossaryStore, log, executor.Config{
		TokenBudget: cfg.TokenBudget,
		Temperature: float32(cfg.Temperature),
		Domain:      cfg.Domain,
		OnProgress:  cfg.OnProgress,
	})

	sessions := session.NewStore(cfg.SessionDir, log)

	return &Container{
		Drawing:    drawingAdapter,
		LLM:        client,
		Logger:     log,
		Tools:      tools,
		Translator: batch,
		Executor:   uc,
		Sessions:   sessions,
		Ledger:     ledger,
	}, nil
}

func (c *Container) Close() {
	if c.Drawing != nil {
		c.Drawing.Close()
	}
	if c.Logger != nil {
		c.Logger.Close()
	}
}

func registerDrawingTools(registry *service.ToolRegistryImpl, drawingPort output.DrawingPort, batch input.BatchTranslator, log output.LoggerPort) {
	registry.Register(tool.NewTranslateTextsTool(drawingPort, batch, log))
	registry.Register(tool.NewModifyEntityTool(drawingPort, log))
	registry.Register(tool.NewQueryDrawingTool(drawingPort, log))
	registry.Register(tool.NewRecognizeFramesTool(drawingPort, log))
}
