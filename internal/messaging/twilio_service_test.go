package messaging

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/baria-bot/baria/internal/twiliowhatsapp"
)

func TestTwilioServiceSendMessage(t *testing.T) {
	client := twiliowhatsapp.NewMockClient()
	svc := NewTwilioService(client)

	if err := svc.SendMessage(context.Background(), "+55 (11) 99999-0000", "olá"); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if len(client.SentMessages) != 1 {
		t.Fatalf("sent %d messages, want 1", len(client.SentMessages))
	}
	if got := client.SentMessages[0].To; got != "+5511999990000" {
		t.Errorf("recipient = %q, want canonicalized +5511999990000", got)
	}

	select {
	case receipt := <-svc.Receipts():
		if receipt.To != "5511999990000" {
			t.Errorf("receipt.To = %q", receipt.To)
		}
	case <-time.After(time.Second):
		t.Fatal("no sent receipt emitted")
	}
}

func TestTwilioServiceRecipientValidation(t *testing.T) {
	svc := NewTwilioService(twiliowhatsapp.NewMockClient())

	canonical, err := svc.ValidateAndCanonicalizeRecipient("+1 (234) 567-890")
	if err != nil {
		t.Fatalf("valid number rejected: %v", err)
	}
	if canonical != "1234567890" {
		t.Errorf("canonical = %q", canonical)
	}

	for _, bad := range []string{"", "abc", "12345"} {
		if _, err := svc.ValidateAndCanonicalizeRecipient(bad); err == nil {
			t.Errorf("ValidateAndCanonicalizeRecipient(%q) should fail", bad)
		}
	}
}

func TestTwilioWebhookEmitsResponse(t *testing.T) {
	svc := NewTwilioService(twiliowhatsapp.NewMockClient())

	form := url.Values{}
	form.Set("From", "whatsapp:+5511999990000")
	form.Set("Body", "oi")
	req := httptest.NewRequest(http.MethodPost, "/webhook/twilio", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	svc.WebhookHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	select {
	case resp := <-svc.Responses():
		if resp.From != "whatsapp:+5511999990000" || resp.Body != "oi" {
			t.Errorf("response = %+v", resp)
		}
	case <-time.After(time.Second):
		t.Fatal("no response emitted")
	}
}

func TestTwilioWebhookRejectsMissingFields(t *testing.T) {
	svc := NewTwilioService(twiliowhatsapp.NewMockClient())

	form := url.Values{}
	form.Set("From", "whatsapp:+5511999990000")
	req := httptest.NewRequest(http.MethodPost, "/webhook/twilio", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	svc.WebhookHandler(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
