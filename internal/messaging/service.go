// Package messaging defines the pluggable transport abstraction and the
// dispatcher that routes inbound messages to the dialogue engine.
package messaging

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/baria-bot/baria/internal/models"
)

// Constants for transport service configuration.
const (
	// DefaultChannelBufferSize defines the buffer size for receipt and response channels.
	DefaultChannelBufferSize = 100
	// DefaultChannelTimeout bounds non-blocking channel emits; events are
	// dropped rather than blocking the transport.
	DefaultChannelTimeout = 1 * time.Second
)

// ErrServiceStopped is returned when an operation is attempted on a stopped service.
var ErrServiceStopped = errors.New("messaging service stopped")

// phoneNumberRegex matches everything that is not a digit, for recipient
// canonicalization on phone-based transports.
var phoneNumberRegex = regexp.MustCompile(`\D`)

// Service defines a pluggable message delivery abstraction. It supports
// sending messages and provides channels for receipt and response events.
type Service interface {
	// ValidateAndCanonicalizeRecipient validates and canonicalizes a recipient
	// identifier. Each transport implements its own recipient rules.
	ValidateAndCanonicalizeRecipient(recipient string) (string, error)

	// SendMessage sends a plain text message to a recipient.
	SendMessage(ctx context.Context, to string, body string) error

	// Start begins any background processing (e.g., polling for events).
	Start(ctx context.Context) error

	// Stop stops background processing and cleans up resources.
	Stop() error

	// Receipts returns a channel of delivery status events.
	Receipts() <-chan models.Receipt

	// Responses returns a channel of incoming user messages.
	Responses() <-chan models.Response
}

// ReplySender is implemented by transports that can render structured replies
// (quick-reply menus). The dispatcher falls back to plain text otherwise.
type ReplySender interface {
	SendReply(ctx context.Context, to string, reply models.Reply) error
}
