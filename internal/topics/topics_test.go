package topics

import "testing"

func TestRestricted(t *testing.T) {
	f := NewDefaultFilter()

	restricted := []string{
		"qual o preço da cirurgia?",
		"Qual o PREÇO?",
		"quanto custa o procedimento",
		"a cirurgia é por laparoscopia?",
		"me explica o bypass gástrico",
		"não quero saber o preço", // mentions alone are enough, negation is not handled
		"quanto tempo dura a operação",
	}
	for _, in := range restricted {
		if !f.Restricted(in) {
			t.Errorf("Restricted(%q) = false, want true", in)
		}
	}

	allowed := []string{
		"quais os critérios para a cirurgia?",
		"olá, tudo bem?",
		"qual o meu IMC?",
		"",
		"quero fazer o cadastro",
	}
	for _, in := range allowed {
		if f.Restricted(in) {
			t.Errorf("Restricted(%q) = true, want false", in)
		}
	}
}

func TestCustomTermList(t *testing.T) {
	f := NewFilter([]string{"Segredo"})
	if !f.Restricted("isso é um SEGREDO bem guardado") {
		t.Error("custom term should match case-insensitively")
	}
	if f.Restricted("nada a ver") {
		t.Error("unrelated text should not match")
	}
}
