// Package kb holds the canned knowledge base: fixed answers for the explicit
// information commands and keyword-matched answers for common free-form
// questions. Content is static data; questions with no canned match fall
// through to the Answer Service.
package kb

import "strings"

// Canned command answers.
const (
	Criteria = `🎯 Critérios básicos para cirurgia bariátrica:

• IMC ≥ 40 kg/m², ou
• IMC ≥ 35 kg/m² com comorbidades (diabetes tipo 2, hipertensão, apneia do sono, entre outras)
• Idade entre 16 e 65 anos (acima de 65 com avaliação individualizada)
• Acompanhamento prévio com equipe multidisciplinar

⚠️ A indicação final é sempre do cirurgião e da equipe médica.`

	Documents = `📄 Documentos e exames geralmente solicitados:

• Documento de identidade e comprovante de residência
• Exames laboratoriais recentes (hemograma, glicemia, perfil lipídico)
• Endoscopia digestiva alta
• Avaliação cardiológica e anestésica
• Relatórios de acompanhamento com endocrinologista e nutricionista

📋 A lista exata varia conforme o serviço; confirme com a equipe que vai acompanhar você.`

	Pathways = `🏥 Caminhos de atendimento:

• SUS: encaminhamento pela unidade básica de saúde para um centro de referência em obesidade
• Convênio: verifique a cobertura de cirurgia bariátrica no seu plano e os prazos de carência
• Particular: avaliação direta com cirurgião do aparelho digestivo

💙 Em todos os casos o acompanhamento multidisciplinar é obrigatório.`

	Guidance = `💙 Orientações gerais:

• A cirurgia bariátrica é um tratamento, não um atalho: exige preparo e acompanhamento por toda a vida
• Procure sempre profissionais habilitados: cirurgião bariátrico, endocrinologista, nutricionista e psicólogo
• Mudanças de hábito antes da cirurgia melhoram muito os resultados

📱 Use o bot para calcular seu IMC e entender os critérios básicos.`
)

// cannedAnswer pairs trigger keywords with a fixed answer.
type cannedAnswer struct {
	keywords []string
	answer   string
}

// canned holds the keyword-matched general answers, checked in order.
var canned = []cannedAnswer{
	{
		keywords: []string{"bariátrica", "bariatrica", "cirurgia", "operação", "operacao"},
		answer: `🏥 Sobre a cirurgia bariátrica:

É indicada para IMC ≥ 40 kg/m², ou IMC ≥ 35 kg/m² com comorbidades.

Benefícios esperados:
• Perda de peso significativa e sustentada
• Melhora do diabetes tipo 2 e da pressão arterial
• Melhora da qualidade de vida

⚠️ Sempre consulte um cirurgião especialista para avaliação completa!`,
	},
	{
		keywords: []string{"imc", "índice de massa", "indice de massa"},
		answer: `🧮 O IMC (índice de massa corporal) é o peso em quilogramas dividido pelo quadrado da altura em metros.

Posso calcular o seu agora: envie "calcular imc" ou faça o cadastro completo.`,
	},
	{
		keywords: []string{"nutricionista", "dieta", "alimentação", "alimentacao"},
		answer: `🥗 Alimentação e acompanhamento nutricional:

O acompanhamento com nutricionista é obrigatório antes e depois da cirurgia bariátrica. Mudanças de hábito alimentar fazem parte do tratamento em qualquer cenário.

💙 Procure um nutricionista para um plano individualizado.`,
	},
}

// Lookup returns the canned answer matching the question, if any. Matching is
// a case-insensitive keyword scan; the first matching entry wins.
func Lookup(question string) (string, bool) {
	lowered := strings.ToLower(question)
	for _, c := range canned {
		for _, kw := range c.keywords {
			if strings.Contains(lowered, kw) {
				return c.answer, true
			}
		}
	}
	return "", false
}
