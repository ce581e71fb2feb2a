// Package topics implements the restricted-topic filter.
//
// The filter is a case-insensitive substring match against a fixed term list.
// It is deliberately high-recall: a message merely mentioning a restricted
// word is refused. False positives are acceptable, leaking restricted content
// is not.
package topics

import "strings"

// Default restricted terms, grouped by the subject the operator refuses to
// answer automatically.
var (
	// CostTerms cover pricing and payment questions.
	CostTerms = []string{
		"preço", "preco", "valor", "custo", "custa", "quanto fica",
		"pagamento", "parcel", "orçamento", "orcamento",
	}
	// TimingTerms cover exact procedure and recovery durations.
	TimingTerms = []string{
		"quanto tempo dura", "duração da cirurgia", "duracao da cirurgia",
		"tempo de cirurgia", "tempo de internação", "tempo de internacao",
		"quantas horas",
	}
	// TechniqueTerms cover operative technique detail.
	TechniqueTerms = []string{
		"laparoscopia", "laparoscópica", "laparoscopica", "bypass",
		"sleeve", "anastomose", "grampeamento", "grampeador",
		"técnica cirúrgica", "tecnica cirurgica", "incisão", "incisao",
	}
)

// Filter reports whether free text touches a restricted subject.
type Filter struct {
	terms []string
}

// NewFilter builds a filter over the given term lists. Terms are lowered once
// at construction.
func NewFilter(termLists ...[]string) *Filter {
	var terms []string
	for _, list := range termLists {
		for _, t := range list {
			terms = append(terms, strings.ToLower(t))
		}
	}
	return &Filter{terms: terms}
}

// NewDefaultFilter builds a filter over the operator's default restricted
// term lists (cost, timing, technique).
func NewDefaultFilter() *Filter {
	return NewFilter(CostTerms, TimingTerms, TechniqueTerms)
}

// Restricted returns true if any listed term occurs anywhere in the lowered
// input. No stemming, no negation handling.
func (f *Filter) Restricted(text string) bool {
	lowered := strings.ToLower(text)
	for _, term := range f.terms {
		if strings.Contains(lowered, term) {
			return true
		}
	}
	return false
}
