package intent

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		in   string
		want Intent
	}{
		{"sim", Affirmative},
		{"SIM", Affirmative},
		{"Sim!", Affirmative},
		{" claro ", Affirmative},
		{"não", Negative},
		{"nao", Negative},
		{"não quero", Negative},
		{"oi", Greeting},
		{"Bom dia", Greeting},
		{"/start", Greeting},
		{"talvez", Unknown},
		{"", Unknown},
		{"sim, mas depois", Unknown}, // compound answers re-prompt, never guess
	}
	for _, c := range cases {
		if got := Default.Classify(c.in); got != c.want {
			t.Errorf("Classify(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestPredicates(t *testing.T) {
	if !Default.IsAffirmative("sim") {
		t.Error("IsAffirmative(sim) should be true")
	}
	if !Default.IsNegative("não") {
		t.Error("IsNegative(não) should be true")
	}
	if !Default.IsGreeting("olá") {
		t.Error("IsGreeting(olá) should be true")
	}
	if Default.IsAffirmative("não") || Default.IsNegative("sim") {
		t.Error("predicates must not overlap")
	}
}

func TestCustomLists(t *testing.T) {
	c := NewClassifier([]string{"yes"}, []string{"no"}, []string{"hello"})
	if c.Classify("yes") != Affirmative || c.Classify("no") != Negative || c.Classify("hello") != Greeting {
		t.Error("custom word lists not honored")
	}
	if c.Classify("sim") != Unknown {
		t.Error("default words must not leak into custom classifier")
	}
}
