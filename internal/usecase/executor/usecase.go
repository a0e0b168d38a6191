package executor

import (
	"context"
	"fmt"

	"cad-agent/internal/application/port/input"
	"cad-agent/internal/application/port/output"
	"cad-agent/internal/domain/entity"
	"cad-agent/internal/infrastructure/glossary"
	"cad-agent/internal/infrastructure/prompts"
)

var _ input.ChatExecutor = (*UseCase)(nil)

const (
	defaultTokenBudget = 24000
	maxObservationLen  = 20000
)

// UseCase drives one conversation turn end to end: classify the request
// to pick a system prompt, let the model decide with the full tool set
// declared, run the requested tools in order, then ask the model to
// synthesize a final answer from the tool results. The second model call
// carries no tool declarations, so a turn runs at most one tool round.
type UseCase struct {
	llm      output.LLMPort
	tools    output.ToolRegistry
	glossary *glossary.Store
	logger   output.LoggerPort
	chain    *entity.MessageChain
	cfg      Config
}

type Config struct {
	TokenBudget int
	Temperature float32
	Domain      string
	OnProgress  func(string)
}

func New(
	llm output.LLMPort,
	tools output.ToolRegistry,
	glossaryStore *glossary.Store,
	logger output.LoggerPort,
	cfg Config,
) *UseCase {
	if cfg.TokenBudget <= 0 {
		cfg.TokenBudget = defaultTokenBudget
	}
	return &UseCase{
		llm:      llm,
		tools:    tools,
		glossary: glossaryStore,
		logger:   logger,
		chain:    entity.NewMessageChain(),
		cfg:      cfg,
	}
}

// History exposes the accumulated turns, for persistence.
func (uc *UseCase) History() []entity.Message {
	return uc.chain.Messages()
}

// Restore replaces the chain with previously saved turns.
func (uc *UseCase) Restore(msgs []entity.Message) {
	chain, dropped := entity.NewMessageChainFromHistory(msgs)
	for _, d := range dropped {
		uc.logger.Warn("Dropping message while restoring history", "index", d.Index, "reason", d.Reason)
	}
	uc.chain = chain
}

func (uc *UseCase) Reset() {
	uc.chain.Reset()
}

func (uc *UseCase) ExecuteTurn(ctx context.Context, text string, onDelta func(string)) (*input.TurnResult, error) {
	scenario := entity.DetectScenario(text)
	system, err := uc.systemPrompt(scenario)
	if err != nil {
		return nil, err
	}
	// The scenario only picks the system prompt; every registered tool is
	// declared so a keyword misclassification never withholds a tool the
	// model actually needs.
	toolDefs := uc.tools.Definitions()

	uc.logger.Info("Starting turn",
		"scenario", scenario,
		"tools", len(toolDefs),
		"historyLen", uc.chain.Len())

	uc.chain.Append(entity.Message{Role: entity.RoleUser, Content: text})

	result := &input.TurnResult{}
	handlers := output.StreamHandlers{
		OnContent: onDelta,
		OnReasoning: func(delta string) {
			result.Reasoning += delta
		},
	}

	decision, err := uc.llm.ChatStream(ctx, output.ChatRequest{
		Messages:    uc.chain.Trim(uc.cfg.TokenBudget, system),
		Tools:       toolDefs,
		Temperature: uc.cfg.Temperature,
	}, handlers)
	if err != nil {
		return nil, fmt.Errorf("decision call failed: %w", err)
	}
	uc.chain.Append(decision.AssistantMessage())
	result.InputTokens += decision.InputTokens
	result.OutputTokens += decision.OutputTokens

	if !decision.HasToolCalls() {
		result.Answer = decision.Content
		return result, nil
	}

	// Tool calls run strictly in order; a failure becomes an ✗
	// observation for the model rather than aborting the turn.
	for _, tc := range decision.ToolCalls {
		observation := uc.executeTool(ctx, tc)
		result.ToolsRun++
		uc.chain.Append(entity.Message{
			Role:       entity.RoleTool,
			ToolCallID: tc.ID,
			Name:       tc.Name,
			Content:    observation,
		})
	}

	synthesis, err := uc.llm.ChatStream(ctx, output.ChatRequest{
		Messages:    uc.chain.Trim(uc.cfg.TokenBudget, system),
		Temperature: uc.cfg.Temperature,
	}, handlers)
	if err != nil {
		return nil, fmt.Errorf("synthesis call failed: %w", err)
	}
	uc.chain.Append(synthesis.AssistantMessage())
	result.InputTokens += synthesis.InputTokens
	result.OutputTokens += synthesis.OutputTokens
	result.Answer = synthesis.Content
	return result, nil
}

func (uc *UseCase) systemPrompt(scenario entity.Scenario) (entity.Message, error) {
	text := prompts.ForScenario(scenario)
	if scenario == entity.ScenarioTranslate {
		var terms map[string]string
		if pack := uc.glossary.Lookup(uc.cfg.Domain); pack != nil {
			terms = pack.Terms
		}
		rendered, err := prompts.GenerateTranslatePrompt(text, terms)
		if err != nil {
			return entity.Message{}, fmt.Errorf("render translate prompt: %w", err)
		}
		text = rendered
	}
	return entity.Message{Role: entity.RoleSystem, Content: text}, nil
}

func (uc *UseCase) executeTool(ctx context.Context, tc entity.ToolCall) string {
	tool, ok := uc.tools.Get(entity.ToolName(tc.Name))
	if !ok {
		uc.logger.Warn("Unknown tool called", "name", tc.Name)
		return fmt.Sprintf("✗ unknown tool '%s'", tc.Name)
	}

	uc.logger.Info("Executing tool", "name", tc.Name, "args", tc.Arguments)

	result, err := tool.Execute(ctx, tc.Arguments, uc.cfg.OnProgress)
	if err != nil {
		uc.logger.Error("Tool execution failed", "name", tc.Name, "error", err)
		return "✗ " + err.Error()
	}

	if len(result) > maxObservationLen {
		result = result[:maxObservationLen] + "\n... (truncated)"
	}

	uc.logger.Debug("Tool completed", "name", tc.Name, "resultLen", len(result))
	return result
}
