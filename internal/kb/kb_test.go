package kb

import (
	"strings"
	"testing"
)

func TestLookupMatchesKeywords(t *testing.T) {
	answer, ok := Lookup("como funciona a cirurgia BARIÁTRICA?")
	if !ok {
		t.Fatal("expected a canned answer for a bariatric surgery question")
	}
	if !strings.Contains(answer, "IMC ≥ 40") {
		t.Errorf("bariatric answer should mention the BMI criterion, got %q", answer)
	}

	if _, ok := Lookup("o que é IMC?"); !ok {
		t.Error("expected a canned answer for an IMC question")
	}
}

func TestLookupMiss(t *testing.T) {
	for _, q := range []string{"qual a previsão do tempo?", "", "me conta uma piada"} {
		if answer, ok := Lookup(q); ok {
			t.Errorf("Lookup(%q) unexpectedly matched: %q", q, answer)
		}
	}
}

func TestCommandAnswersNonEmpty(t *testing.T) {
	for name, text := range map[string]string{
		"Criteria":  Criteria,
		"Documents": Documents,
		"Pathways":  Pathways,
		"Guidance":  Guidance,
	} {
		if strings.TrimSpace(text) == "" {
			t.Errorf("%s canned answer is empty", name)
		}
	}
}
