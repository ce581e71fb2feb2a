package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/baria-bot/baria/internal/models"
	"github.com/baria-bot/baria/internal/telegram"
)

// TelegramService implements Service over the Telegram Bot API long-polling
// channel. Recipients are chat IDs rendered as decimal strings. It also
// implements ReplySender, so quick-reply menus become keyboard buttons.
type TelegramService struct {
	bot       telegram.Bot
	receipts  chan models.Receipt
	responses chan models.Response
	done      chan struct{}
	mu        sync.RWMutex
	stopped   bool
}

// NewTelegramService creates a TelegramService wrapping the given bot.
func NewTelegramService(bot telegram.Bot) *TelegramService {
	return &TelegramService{
		bot:       bot,
		receipts:  make(chan models.Receipt, DefaultChannelBufferSize),
		responses: make(chan models.Response, DefaultChannelBufferSize),
		done:      make(chan struct{}),
	}
}

// ValidateAndCanonicalizeRecipient checks that the recipient parses as a
// Telegram chat ID.
func (s *TelegramService) ValidateAndCanonicalizeRecipient(recipient string) (string, error) {
	if recipient == "" {
		return "", fmt.Errorf("recipient cannot be empty")
	}
	id, err := strconv.ParseInt(recipient, 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid chat ID %q: %w", recipient, err)
	}
	return strconv.FormatInt(id, 10), nil
}

// Start launches the update-polling loop.
func (s *TelegramService) Start(ctx context.Context) error {
	go s.pollUpdates(ctx)
	return nil
}

// Stop stops polling and closes the event channels.
func (s *TelegramService) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return nil
	}
	s.stopped = true
	close(s.done)
	s.bot.Stop()

	go func() {
		time.Sleep(50 * time.Millisecond)
		close(s.receipts)
		close(s.responses)
	}()
	return nil
}

// SendMessage sends a plain text message and emits a sent receipt.
func (s *TelegramService) SendMessage(ctx context.Context, to string, body string) error {
	return s.send(ctx, to, func(chatID int64) error {
		return s.bot.SendMessage(ctx, chatID, body)
	})
}

// SendReply sends a structured reply, rendering menu options as a reply
// keyboard.
func (s *TelegramService) SendReply(ctx context.Context, to string, reply models.Reply) error {
	return s.send(ctx, to, func(chatID int64) error {
		return s.bot.SendReply(ctx, chatID, reply)
	})
}

// send validates the recipient, runs the delivery function and emits the
// receipt.
func (s *TelegramService) send(ctx context.Context, to string, deliver func(chatID int64) error) error {
	s.mu.RLock()
	if s.stopped {
		s.mu.RUnlock()
		return ErrServiceStopped
	}
	s.mu.RUnlock()

	canonical, err := s.ValidateAndCanonicalizeRecipient(to)
	if err != nil {
		slog.Error("TelegramService.send: validation error", "error", err, "to", to)
		return err
	}
	chatID, _ := strconv.ParseInt(canonical, 10, 64)
	if err := deliver(chatID); err != nil {
		return err
	}
	s.safeEmitReceipt(models.Receipt{To: canonical, Status: models.StatusTypeSent, Time: time.Now().Unix()})
	return nil
}

// Receipts returns the channel of sent message receipts.
func (s *TelegramService) Receipts() <-chan models.Receipt {
	return s.receipts
}

// Responses returns the channel of incoming user messages.
func (s *TelegramService) Responses() <-chan models.Response {
	return s.responses
}

// pollUpdates consumes the bot's update channel, forwarding text messages.
// Non-text updates (stickers, media, channel events) are skipped.
func (s *TelegramService) pollUpdates(ctx context.Context) {
	updates := s.bot.Updates()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			response := models.Response{
				From: strconv.FormatInt(update.Message.Chat.ID, 10),
				Body: update.Message.Text,
				Time: int64(update.Message.Date),
			}
			s.safeEmitResponse(response)
		}
	}
}

func (s *TelegramService) safeEmitReceipt(receipt models.Receipt) {
	s.mu.RLock()
	stopped := s.stopped
	s.mu.RUnlock()
	if stopped {
		return
	}
	select {
	case s.receipts <- receipt:
	case <-time.After(DefaultChannelTimeout):
		slog.Warn("TelegramService.safeEmitReceipt: receipts channel blocked, dropping receipt", "to", receipt.To)
	}
}

func (s *TelegramService) safeEmitResponse(response models.Response) {
	s.mu.RLock()
	stopped := s.stopped
	s.mu.RUnlock()
	if stopped {
		slog.Warn("TelegramService.safeEmitResponse: dropping inbound response, service stopped", "from", response.From)
		return
	}
	select {
	case s.responses <- response:
	case <-time.After(DefaultChannelTimeout):
		slog.Warn("TelegramService.safeEmitResponse: responses channel blocked, dropping message", "from", response.From)
	}
}
