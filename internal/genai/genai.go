// Package genai provides the Answer Service client for free-form questions,
// backed by the OpenAI chat completions API.
//
// The core treats this as an unreliable remote dependency: every call is
// bounded by a timeout and any failure degrades to a static fallback message
// chosen by the caller.
package genai

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/baria-bot/baria/internal/models"
)

// Defaults for the Answer Service client.
const (
	// DefaultTimeout bounds each remote call.
	DefaultTimeout = 30 * time.Second
	// DefaultHistoryLimit caps how many recent conversation entries are
	// forwarded as context.
	DefaultHistoryLimit = 10
	// DefaultModel is the chat model used when none is configured.
	DefaultModel = openai.ChatModelGPT4oMini
)

// DefaultSystemPrompt frames the assistant for bariatric-surgery guidance and
// repeats the operator's hard restrictions.
const DefaultSystemPrompt = `Você é o assistente BarIA, especializado em informações gerais sobre ` +
	`cirurgia bariátrica. Responda em português, de forma acolhedora e breve. ` +
	`Nunca informe preços, durações exatas de procedimento ou detalhes de técnica ` +
	`cirúrgica; nesses casos, oriente a procurar a equipe médica. Sempre reforce ` +
	`que a avaliação final é de um profissional de saúde.`

// Request carries one free-form question plus optional context.
type Request struct {
	Question string
	History  []models.ConversationEntry
	Profile  *models.Profile
}

// Answerer is the narrow interface the dialogue engine depends on; tests
// substitute a mock.
type Answerer interface {
	Answer(ctx context.Context, req Request) (string, error)
}

// Client wraps the OpenAI chat completion service.
type Client struct {
	client       openai.Client
	model        openai.ChatModel
	timeout      time.Duration
	systemPrompt string
	historyLimit int
}

// Opts holds configuration options for the Answer Service client.
type Opts struct {
	APIKey       string
	Model        string
	Timeout      time.Duration
	SystemPrompt string
	HistoryLimit int
}

// Option defines a configuration option for the Answer Service client.
type Option func(*Opts)

// WithAPIKey sets the OpenAI API key (overrides $OPENAI_API_KEY).
func WithAPIKey(key string) Option {
	return func(o *Opts) { o.APIKey = key }
}

// WithModel sets the chat model.
func WithModel(model string) Option {
	return func(o *Opts) { o.Model = model }
}

// WithTimeout bounds each remote call.
func WithTimeout(d time.Duration) Option {
	return func(o *Opts) { o.Timeout = d }
}

// WithSystemPrompt overrides the default system instructions.
func WithSystemPrompt(prompt string) Option {
	return func(o *Opts) { o.SystemPrompt = prompt }
}

// WithHistoryLimit caps the forwarded conversation context.
func WithHistoryLimit(n int) Option {
	return func(o *Opts) { o.HistoryLimit = n }
}

// NewClient initializes the Answer Service client, falling back to the
// OPENAI_API_KEY environment variable when no key option is given.
func NewClient(opts ...Option) (*Client, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY not set")
	}
	c := &Client{
		client:       openai.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:        DefaultModel,
		timeout:      DefaultTimeout,
		systemPrompt: DefaultSystemPrompt,
		historyLimit: DefaultHistoryLimit,
	}
	if cfg.Model != "" {
		c.model = openai.ChatModel(cfg.Model)
	}
	if cfg.Timeout > 0 {
		c.timeout = cfg.Timeout
	}
	if cfg.SystemPrompt != "" {
		c.systemPrompt = cfg.SystemPrompt
	}
	if cfg.HistoryLimit > 0 {
		c.historyLimit = cfg.HistoryLimit
	}
	slog.Debug("genai.NewClient: client configured", "model", c.model, "timeout", c.timeout, "historyLimit", c.historyLimit)
	return c, nil
}

// Answer sends the question with bounded history and known profile fields and
// returns the generated text. The call is bounded by the configured timeout;
// errors and timeouts are returned to the caller for fallback handling.
func (c *Client) Answer(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: c.buildMessages(req),
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		slog.Error("genai.Answer: completion failed", "error", err)
		return "", fmt.Errorf("answer service call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		slog.Error("genai.Answer: no choices returned")
		return "", fmt.Errorf("answer service returned no choices")
	}
	answer := resp.Choices[0].Message.Content
	slog.Debug("genai.Answer: answer generated", "length", len(answer))
	return answer, nil
}

// buildMessages assembles system instructions, known profile context, the
// most recent history entries and the new question, in that order.
func (c *Client) buildMessages(req Request) []openai.ChatCompletionMessageParamUnion {
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(c.systemPrompt),
	}

	if ctxMsg := profileContext(req.Profile); ctxMsg != "" {
		messages = append(messages, openai.SystemMessage(ctxMsg))
	}

	history := req.History
	if len(history) > c.historyLimit {
		history = history[len(history)-c.historyLimit:]
	}
	for _, entry := range history {
		switch entry.Role {
		case "user":
			messages = append(messages, openai.UserMessage(entry.Text))
		case "assistant":
			messages = append(messages, openai.AssistantMessage(entry.Text))
		}
	}

	messages = append(messages, openai.UserMessage(req.Question))
	return messages
}

// profileContext renders the known profile fields as a system message, or ""
// when nothing useful is known yet.
func profileContext(p *models.Profile) string {
	if p == nil || p.Name == "" {
		return ""
	}
	msg := fmt.Sprintf("Dados conhecidos do usuário: nome %s", p.Name)
	if p.Age > 0 {
		msg += fmt.Sprintf(", idade %d", p.Age)
	}
	if p.Gender != "" {
		msg += fmt.Sprintf(", gênero %s", p.Gender)
	}
	if p.HeightCm > 0 && p.WeightKg > 0 {
		msg += fmt.Sprintf(", altura %.0f cm, peso %.1f kg", p.HeightCm, p.WeightKg)
	}
	return msg + "."
}
