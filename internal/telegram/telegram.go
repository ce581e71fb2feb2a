// Package telegram wraps the Telegram Bot API client for BarIA.
//
// It provides methods for sending messages (with optional quick-reply
// keyboards) and exposes the long-polling update channel.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/baria-bot/baria/internal/models"
)

// DefaultUpdateTimeout is the long-polling timeout in seconds.
const DefaultUpdateTimeout = 60

// Bot is the narrow interface the messaging layer depends on; tests
// substitute a mock.
type Bot interface {
	SendMessage(ctx context.Context, chatID int64, body string) error
	SendReply(ctx context.Context, chatID int64, reply models.Reply) error
	Updates() tgbotapi.UpdatesChannel
	Stop()
}

// Opts holds configuration options for the Telegram client.
type Opts struct {
	Token         string
	UpdateTimeout int
	Debug         bool
}

// Option defines a configuration option for the Telegram client.
type Option func(*Opts)

// WithToken sets the bot token (overrides $TELEGRAM_BOT_TOKEN).
func WithToken(token string) Option {
	return func(o *Opts) { o.Token = token }
}

// WithUpdateTimeout sets the long-polling timeout in seconds.
func WithUpdateTimeout(seconds int) Option {
	return func(o *Opts) { o.UpdateTimeout = seconds }
}

// WithDebug enables the Bot API library's request logging.
func WithDebug() Option {
	return func(o *Opts) { o.Debug = true }
}

// Client wraps the Telegram Bot API client for modular use.
type Client struct {
	bot           *tgbotapi.BotAPI
	updateTimeout int
}

// NewClient authorizes against the Telegram Bot API, falling back to the
// TELEGRAM_BOT_TOKEN environment variable when no token option is given.
func NewClient(opts ...Option) (*Client, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Token == "" {
		cfg.Token = os.Getenv("TELEGRAM_BOT_TOKEN")
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN not set")
	}
	if cfg.UpdateTimeout <= 0 {
		cfg.UpdateTimeout = DefaultUpdateTimeout
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		slog.Error("telegram.NewClient: authorization failed", "error", err)
		return nil, fmt.Errorf("failed to authorize Telegram bot: %w", err)
	}
	bot.Debug = cfg.Debug

	slog.Info("telegram.NewClient: bot authorized", "username", bot.Self.UserName)
	return &Client{bot: bot, updateTimeout: cfg.UpdateTimeout}, nil
}

// SendMessage sends a plain text message to the chat. The context parameter
// keeps the signature uniform with other transports; the underlying library
// does not support cancellation.
func (c *Client) SendMessage(ctx context.Context, chatID int64, body string) error {
	if body == "" {
		return fmt.Errorf("message body cannot be empty")
	}
	msg := tgbotapi.NewMessage(chatID, body)
	if _, err := c.bot.Send(msg); err != nil {
		slog.Error("telegram.Client.SendMessage: send failed", "error", err, "chatID", chatID)
		return fmt.Errorf("failed to send message to %d: %w", chatID, err)
	}
	return nil
}

// SendReply sends the reply text, attaching a one-time reply keyboard when
// the reply carries menu options.
func (c *Client) SendReply(ctx context.Context, chatID int64, reply models.Reply) error {
	if reply.Text == "" {
		return fmt.Errorf("reply text cannot be empty")
	}
	msg := tgbotapi.NewMessage(chatID, reply.Text)
	if len(reply.Menu) > 0 {
		msg.ReplyMarkup = menuKeyboard(reply.Menu)
	}
	if _, err := c.bot.Send(msg); err != nil {
		slog.Error("telegram.Client.SendReply: send failed", "error", err, "chatID", chatID)
		return fmt.Errorf("failed to send reply to %d: %w", chatID, err)
	}
	return nil
}

// menuKeyboard renders menu options as a one-time reply keyboard, one button
// per row.
func menuKeyboard(menu []string) tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(menu))
	for _, option := range menu {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(option)))
	}
	keyboard := tgbotapi.NewOneTimeReplyKeyboard(rows...)
	keyboard.ResizeKeyboard = true
	return keyboard
}

// Updates returns the long-polling update channel.
func (c *Client) Updates() tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = c.updateTimeout
	return c.bot.GetUpdatesChan(u)
}

// Stop stops the long-polling loop; the update channel is closed as a result.
func (c *Client) Stop() {
	c.bot.StopReceivingUpdates()
}

// MockBot implements Bot without network access (for tests). Updates are fed
// through the exported channel; sends are recorded.
type MockBot struct {
	UpdatesCh chan tgbotapi.Update
	Sent      []models.Reply
	SentTo    []int64
}

func NewMockBot() *MockBot {
	return &MockBot{UpdatesCh: make(chan tgbotapi.Update, 16)}
}

func (m *MockBot) SendMessage(ctx context.Context, chatID int64, body string) error {
	m.Sent = append(m.Sent, models.Reply{Text: body})
	m.SentTo = append(m.SentTo, chatID)
	return nil
}

func (m *MockBot) SendReply(ctx context.Context, chatID int64, reply models.Reply) error {
	m.Sent = append(m.Sent, reply)
	m.SentTo = append(m.SentTo, chatID)
	return nil
}

func (m *MockBot) Updates() tgbotapi.UpdatesChannel {
	return m.UpdatesCh
}

func (m *MockBot) Stop() {
	close(m.UpdatesCh)
}
