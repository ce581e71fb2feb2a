package messaging

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/baria-bot/baria/internal/models"
)

// Engine is the conversation core the dispatcher feeds. HandleMessage must be
// safe for concurrent use.
type Engine interface {
	HandleMessage(ctx context.Context, userID, text string) models.Reply
}

// Dispatcher consumes a transport's inbound responses and routes each one to
// the dialogue engine on its own goroutine, so one slow conversation (e.g. an
// Answer Service call in flight) never stalls the others.
type Dispatcher struct {
	svc    Service
	engine Engine
	wg     sync.WaitGroup
}

// NewDispatcher creates a dispatcher wiring the transport to the engine.
func NewDispatcher(svc Service, engine Engine) *Dispatcher {
	return &Dispatcher{svc: svc, engine: engine}
}

// Run consumes responses and receipts until the context is cancelled or the
// transport closes its channels. It blocks; callers run it on a goroutine.
func (d *Dispatcher) Run(ctx context.Context) {
	slog.Info("Dispatcher.Run: dispatch loop started")
	responses := d.svc.Responses()
	receipts := d.svc.Receipts()
	for {
		select {
		case <-ctx.Done():
			slog.Info("Dispatcher.Run: context cancelled, stopping")
			return
		case resp, ok := <-responses:
			if !ok {
				slog.Info("Dispatcher.Run: responses channel closed, stopping")
				return
			}
			d.wg.Add(1)
			go func() {
				defer d.wg.Done()
				d.handle(ctx, resp)
			}()
		case receipt, ok := <-receipts:
			if !ok {
				receipts = nil
				continue
			}
			slog.Debug("Dispatcher.Run: receipt observed", "to", receipt.To, "status", receipt.Status)
		}
	}
}

// Wait blocks until all in-flight message handlers finish.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// handle processes one inbound message end to end: engine, then outbound send.
func (d *Dispatcher) handle(ctx context.Context, resp models.Response) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Dispatcher.handle: handler panicked", "from", resp.From, "panic", r)
		}
	}()

	reply := d.engine.HandleMessage(ctx, resp.From, resp.Body)

	var err error
	if rs, ok := d.svc.(ReplySender); ok {
		err = rs.SendReply(ctx, resp.From, reply)
	} else {
		err = d.svc.SendMessage(ctx, resp.From, RenderText(reply))
	}
	if err != nil {
		slog.Error("Dispatcher.handle: failed to send reply", "error", err, "to", resp.From)
	}
}

// RenderText flattens a structured reply for transports without quick-reply
// support: menu options become a trailing option list.
func RenderText(reply models.Reply) string {
	if len(reply.Menu) == 0 {
		return reply.Text
	}
	var b strings.Builder
	b.WriteString(reply.Text)
	b.WriteString("\n")
	for _, option := range reply.Menu {
		b.WriteString("\n")
		b.WriteString(option)
	}
	return b.String()
}
