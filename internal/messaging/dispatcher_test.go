package messaging

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/baria-bot/baria/internal/models"
)

// mockService is an in-memory Service for dispatcher tests.
type mockService struct {
	mu        sync.Mutex
	sent      []models.Reply
	sentTo    []string
	receipts  chan models.Receipt
	responses chan models.Response
}

func newMockService() *mockService {
	return &mockService{
		receipts:  make(chan models.Receipt, DefaultChannelBufferSize),
		responses: make(chan models.Response, DefaultChannelBufferSize),
	}
}

func (m *mockService) ValidateAndCanonicalizeRecipient(recipient string) (string, error) {
	return recipient, nil
}

func (m *mockService) SendMessage(ctx context.Context, to string, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, models.Reply{Text: body})
	m.sentTo = append(m.sentTo, to)
	return nil
}

func (m *mockService) Start(ctx context.Context) error { return nil }
func (m *mockService) Stop() error                     { return nil }

func (m *mockService) Receipts() <-chan models.Receipt   { return m.receipts }
func (m *mockService) Responses() <-chan models.Response { return m.responses }

func (m *mockService) sentMessages() []models.Reply {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Reply, len(m.sent))
	copy(out, m.sent)
	return out
}

// echoEngine replies with a fixed transformation of the inbound text.
type echoEngine struct {
	menu []string
}

func (e *echoEngine) HandleMessage(ctx context.Context, userID, text string) models.Reply {
	return models.Reply{Text: "echo: " + text, Menu: e.menu}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestDispatcherRoutesResponses(t *testing.T) {
	svc := newMockService()
	d := NewDispatcher(svc, &echoEngine{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	svc.responses <- models.Response{From: "user-1", Body: "olá", Time: time.Now().Unix()}

	waitFor(t, func() bool { return len(svc.sentMessages()) == 1 })
	if got := svc.sentMessages()[0].Text; got != "echo: olá" {
		t.Errorf("sent = %q, want echo reply", got)
	}

	cancel()
	d.Wait()
}

func TestDispatcherConcurrentUsers(t *testing.T) {
	svc := newMockService()
	d := NewDispatcher(svc, &echoEngine{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	for i := 0; i < 20; i++ {
		svc.responses <- models.Response{From: "user", Body: "m", Time: int64(i)}
	}
	waitFor(t, func() bool { return len(svc.sentMessages()) == 20 })

	cancel()
	d.Wait()
}

func TestDispatcherStopsWhenChannelCloses(t *testing.T) {
	svc := newMockService()
	d := NewDispatcher(svc, &echoEngine{})

	done := make(chan struct{})
	go func() {
		d.Run(context.Background())
		close(done)
	}()

	close(svc.responses)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatcher did not stop after responses channel closed")
	}
}

func TestRenderTextFlattensMenu(t *testing.T) {
	reply := models.Reply{Text: "Escolha uma opção:", Menu: []string{"A", "B"}}
	got := RenderText(reply)
	if !strings.Contains(got, "Escolha uma opção:") || !strings.Contains(got, "\nA") || !strings.Contains(got, "\nB") {
		t.Errorf("RenderText = %q", got)
	}

	plain := models.Reply{Text: "só texto"}
	if got := RenderText(plain); got != "só texto" {
		t.Errorf("RenderText without menu = %q", got)
	}
}
