package genai

import (
	"testing"
	"time"

	"github.com/baria-bot/baria/internal/models"
)

func TestNewClientRequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := NewClient(); err == nil {
		t.Error("NewClient without key should fail")
	}
	if _, err := NewClient(WithAPIKey("test-key")); err != nil {
		t.Errorf("NewClient with key option failed: %v", err)
	}
}

func TestBuildMessagesOrdering(t *testing.T) {
	c, err := NewClient(WithAPIKey("test-key"), WithHistoryLimit(2))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	req := Request{
		Question: "a cirurgia é segura?",
		History: []models.ConversationEntry{
			{Role: "user", Text: "primeira pergunta"},
			{Role: "assistant", Text: "primeira resposta"},
			{Role: "user", Text: "segunda pergunta"},
		},
		Profile: &models.Profile{Name: "Maria", Age: 45},
	}

	messages := c.buildMessages(req)
	// system prompt + profile context + 2 bounded history entries + question
	if len(messages) != 5 {
		t.Fatalf("got %d messages, want 5", len(messages))
	}
	if messages[0].OfSystem == nil || messages[1].OfSystem == nil {
		t.Error("first two messages should be system messages")
	}
	if messages[len(messages)-1].OfUser == nil {
		t.Error("last message should carry the new question")
	}
}

func TestBuildMessagesWithoutProfile(t *testing.T) {
	c, err := NewClient(WithAPIKey("test-key"))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	messages := c.buildMessages(Request{Question: "olá"})
	if len(messages) != 2 {
		t.Fatalf("got %d messages, want 2 (system + question)", len(messages))
	}
}

func TestProfileContext(t *testing.T) {
	if got := profileContext(nil); got != "" {
		t.Errorf("nil profile context = %q, want empty", got)
	}
	if got := profileContext(&models.Profile{}); got != "" {
		t.Errorf("empty profile context = %q, want empty", got)
	}
	got := profileContext(&models.Profile{Name: "Carlos", Age: 45, HeightCm: 180, WeightKg: 95})
	if got == "" {
		t.Fatal("expected non-empty context for a filled profile")
	}
}

func TestOptionsApplied(t *testing.T) {
	c, err := NewClient(
		WithAPIKey("test-key"),
		WithModel("gpt-4o"),
		WithTimeout(5*time.Second),
		WithSystemPrompt("custom"),
	)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if string(c.model) != "gpt-4o" {
		t.Errorf("model = %q, want gpt-4o", c.model)
	}
	if c.timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", c.timeout)
	}
	if c.systemPrompt != "custom" {
		t.Errorf("systemPrompt = %q, want custom", c.systemPrompt)
	}
}
