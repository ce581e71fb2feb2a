// Package intent classifies short free-text answers into coarse intents
// (affirmative, negative, greeting) using configurable word lists.
//
// Keyword matching has no completeness guarantee, so callers must treat
// Unknown as "re-prompt", never guess.
package intent

import "strings"

// Intent is the coarse classification of a short answer.
type Intent int

const (
	Unknown Intent = iota
	Affirmative
	Negative
	Greeting
)

// Default word lists (Portuguese, as deployed).
var (
	AffirmativeWords = []string{
		"sim", "s", "claro", "pode", "quero", "ok", "okay", "aceito",
		"vamos", "bora", "com certeza", "certamente", "isso", "positivo",
	}
	NegativeWords = []string{
		"não", "nao", "n", "negativo", "nunca", "jamais", "agora não",
		"agora nao", "depois", "não quero", "nao quero",
	}
	GreetingWords = []string{
		"oi", "olá", "ola", "bom dia", "boa tarde", "boa noite",
		"e aí", "e ai", "opa", "/start", "start", "começar", "comecar",
	}
)

// Classifier holds the word lists used for matching. The zero value is not
// usable; construct with NewClassifier or use the package-level Default.
type Classifier struct {
	affirmative map[string]bool
	negative    map[string]bool
	greeting    map[string]bool
}

// NewClassifier builds a classifier from explicit word lists.
func NewClassifier(affirmative, negative, greeting []string) *Classifier {
	return &Classifier{
		affirmative: toSet(affirmative),
		negative:    toSet(negative),
		greeting:    toSet(greeting),
	}
}

// Default is the classifier over the default Portuguese word lists.
var Default = NewClassifier(AffirmativeWords, NegativeWords, GreetingWords)

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = true
	}
	return set
}

// normalize lowers, trims and strips trailing punctuation from an answer.
func normalize(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	return strings.TrimRight(s, ".!?,;")
}

// Classify maps a short answer to its intent. Negative wins over affirmative
// when both lists match ("não quero" contains "quero"): answers are matched
// as whole normalized strings, not substrings, precisely to avoid that trap.
func (c *Classifier) Classify(text string) Intent {
	key := normalize(text)
	switch {
	case c.negative[key]:
		return Negative
	case c.affirmative[key]:
		return Affirmative
	case c.greeting[key]:
		return Greeting
	default:
		return Unknown
	}
}

// IsAffirmative reports whether the answer is a recognized "yes".
func (c *Classifier) IsAffirmative(text string) bool {
	return c.Classify(text) == Affirmative
}

// IsNegative reports whether the answer is a recognized "no".
func (c *Classifier) IsNegative(text string) bool {
	return c.Classify(text) == Negative
}

// IsGreeting reports whether the text is a recognized greeting token.
func (c *Classifier) IsGreeting(text string) bool {
	return c.Classify(text) == Greeting
}
