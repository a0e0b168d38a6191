package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"cad-agent/internal/application/port/output"
	"cad-agent/internal/domain/entity"
	"cad-agent/internal/infrastructure/logger"
)

var _ output.LLMPort = (*Client)(nil)

// Client talks to the model service over its chat-completions and
// translation endpoints.
type Client struct {
	transport *transport
	model     string
	topP      float32
	logger    output.LoggerPort
	ledger    *TokenLedger
}

type Config struct {
	APIKey         string
	Model          string
	BaseURL        string
	TopP           float32
	MaxRetries     int
	RetryBaseDelay time.Duration
	HTTPClient     *http.Client
	Logger         output.LoggerPort
	Ledger         *TokenLedger
}

func DefaultConfig(apiKey, model string) Config {
	return Config{
		APIKey:         apiKey,
		Model:          model,
		BaseURL:        "https://api.deepseek.com/v1",
		MaxRetries:     3,
		RetryBaseDelay: time.Second,
	}
}

func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNop()
	}
	ledger := cfg.Ledger
	if ledger == nil {
		ledger = NewTokenLedger()
	}
	return &Client{
		transport: &transport{
			baseURL:    cfg.BaseURL,
			apiKey:     cfg.APIKey,
			httpClient: httpClient,
			logger:     cfg.Logger,
			maxRetries: cfg.MaxRetries,
			baseDelay:  cfg.RetryBaseDelay,
		},
		model:  cfg.Model,
		topP:   cfg.TopP,
		logger: cfg.Logger,
		ledger: ledger,
	}
}

func (c *Client) Ledger() *TokenLedger {
	return c.ledger
}

// ChatStream sends one chat request and consumes the streamed response to
// completion. The message list is validated first; a broken tool-call
// correlation is a caller bug and is never sent over the wire.
func (c *Client) ChatStream(ctx context.Context, req output.ChatRequest, handlers output.StreamHandlers) (*entity.CallResult, error) {
	if verr := entity.ValidateMessages(req.Messages); verr != nil {
		return nil, fmt.Errorf("refusing to send: %w", verr)
	}

	payload, err := json.Marshal(chatRequest{
		Model:         c.model,
		Messages:      toWireMessages(req.Messages),
		Tools:         toWireTools(req.Tools),
		ToolChoice:    toolChoice(req.Tools),
		Temperature:   req.Temperature,
		TopP:          c.topP,
		Stream:        true,
		StreamOptions: &streamOpts{IncludeUsage: true},
	})
	if err != nil {
		return nil, fmt.Errorf("encode chat request: %w", err)
	}

	c.logger.Debug("Creating chat completion stream",
		"model", c.model,
		"messagesCount", len(req.Messages),
		"toolsCount", len(req.Tools),
		"temperature", req.Temperature)

	resp, err := c.transport.do(ctx, http.MethodPost, "/chat/completions", payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	result, err := decodeStream(ctx, resp.Body, handlers, c.logger)
	if err != nil {
		return nil, err
	}

	c.ledger.Add(result.InputTokens, result.OutputTokens)
	c.logger.Debug("Stream completed",
		"contentLen", len(result.Content),
		"reasoningLen", len(result.ReasoningContent),
		"toolCalls", len(result.ToolCalls),
		"inputTokens", result.InputTokens,
		"outputTokens", result.OutputTokens)
	return result, nil
}

// Translate sends one text through the dedicated translation endpoint.
func (c *Client) Translate(ctx context.Context, req output.TranslateRequest) (string, error) {
	payload, err := json.Marshal(translateRequest{
		Model:      c.model,
		Text:       req.Text,
		SourceLang: req.SourceLang,
		TargetLang: req.TargetLang,
		Domain:     req.Domain,
		Terms:      req.Terms,
		Memory:     req.Memory,
	})
	if err != nil {
		return "", fmt.Errorf("encode translate request: %w", err)
	}

	resp, err := c.transport.do(ctx, http.MethodPost, "/translate", payload)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var decoded translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode translate response: %w", err)
	}
	if decoded.Usage != nil {
		c.ledger.Add(decoded.Usage.InputTokens, decoded.Usage.OutputTokens)
	}
	return decoded.TranslatedText, nil
}

func toolChoice(tools []entity.ToolDefinition) string {
	if len(tools) == 0 {
		return ""
	}
	return "auto"
}
