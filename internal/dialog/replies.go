package dialog

import (
	"fmt"
	"strings"

	"github.com/baria-bot/baria/internal/bmi"
	"github.com/baria-bot/baria/internal/models"
)

// MainMenu lists the quick-reply options offered on greetings and after
// completed flows. Payloads are the same tokens users could type.
var MainMenu = []string{
	"📝 Cadastro Completo",
	"🧮 Calcular IMC",
	"❓ Fazer Pergunta",
	"📊 Meus Dados",
}

// genderMenu offers the three canonical choices when a gender answer is not
// recognized.
var genderMenu = []string{"Masculino", "Feminino", "Outro"}

// Canned dialogue texts. Wording follows the deployed Portuguese bot.
const (
	replyWelcome = `🤖 Olá! Eu sou o BarIA, seu assistente para informações sobre cirurgia bariátrica.

💙 Posso fazer um cadastro guiado com orientações personalizadas, calcular seu IMC ou responder dúvidas gerais.

Quer começar o cadastro guiado agora? (sim/não)`

	replyConsentDeclined = `Sem problemas! 💙 Fique à vontade para fazer perguntas sobre cirurgia bariátrica ou usar o menu abaixo quando quiser.`

	replyConsentClarify = `Desculpe, não entendi. Quer começar o cadastro guiado? Responda "sim" ou "não".`

	replyAskName = `1️⃣ Vamos começar! Qual é o seu nome?`

	replyNameRejected = `⚠️ Nome deve ter entre 2 e 50 letras. Tente novamente:`

	replyAskPatient = `A cirurgia bariátrica seria para você mesmo(a)? (sim/não)`

	replyPatientClarify = `Desculpe, não entendi. O cadastro é para você mesmo(a)? Responda "sim" ou "não".`

	replyAskAge = `2️⃣ Qual é a sua idade?`

	replyAgeNotNumeric = `Por favor, digite apenas números para a idade:`

	replyAgeOutOfRange = `⚠️ Idade inválida. Digite sua idade (16-100 anos):`

	replyAgeCaution = `⚠️ Acima de 65 anos a indicação cirúrgica exige avaliação individualizada com a equipe médica, mas podemos continuar o cadastro normalmente.`

	replyAskGender = `3️⃣ Qual é o seu gênero? (masculino / feminino / outro)`

	replyGenderClarify = `Desculpe, não reconheci. Escolha uma das opções: masculino, feminino ou outro.`

	replyAskHeight = `4️⃣ Qual é a sua altura em centímetros? (exemplo: 170)`

	replyHeightNotNumeric = `Por favor, digite apenas números para a altura (exemplo: 170)`

	replyHeightOutOfRange = `⚠️ Altura inválida. Digite a altura em centímetros (exemplo: 170)`

	replyAskWeight = `5️⃣ E qual é o seu peso atual em quilogramas? (exemplo: 85)`

	replyWeightNotNumeric = `Por favor, digite apenas números para o peso (exemplo: 85)`

	replyWeightOutOfRange = `⚠️ Peso inválido. Digite o peso em quilogramas (exemplo: 85)`

	replyAskRelationship = `Entendi! 💙 Qual é a sua relação com a pessoa que está considerando a cirurgia? (exemplo: mãe, irmã, amigo)`

	replyRelationshipClarify = `Pode me dizer qual é a sua relação com a pessoa? (exemplo: mãe, irmã, amigo)`

	replyQuickBMIAskHeight = `1️⃣ Digite sua altura em centímetros (exemplo: 170):`

	replyQuickBMIAskWeight = `2️⃣ Agora digite seu peso em quilogramas (exemplo: 85):`

	replyRestricted = `⚠️ Este assunto envolve informações que só a equipe médica pode passar com segurança (valores, tempos exatos de procedimento e detalhes de técnica cirúrgica).

🏥 Converse diretamente com o cirurgião e a equipe multidisciplinar.

💙 Posso ajudar com informações gerais sobre cirurgia bariátrica!`

	replyAnswerUnavailable = `Ops! Não consegui buscar uma resposta agora. 🙏 Pode tentar novamente em instantes?`

	replyGeneralPrompt = `💬 Faça sua pergunta sobre cirurgia bariátrica:`

	replyNoProfile = `📝 Você ainda não fez seu cadastro completo. Use "📝 Cadastro Completo" para começar!`

	replyIntakeAlreadyDone = `✅ Seu cadastro já está concluído. Envie "recomeçar" se quiser refazer do zero.`

	replyRestarted = `🔄 Tudo limpo! Vamos recomeçar.

Quer fazer o cadastro guiado agora? (sim/não)`

	replyInternalError = `Ops! Algo deu errado por aqui. 🙏 Envie "recomeçar" para voltarmos do início.`

	replyBMIUnavailable = `⚠️ Não consegui calcular o IMC com esses valores. Vamos tentar de novo?`
)

// helperClosing builds the support-oriented closing message for the helper
// branch. It deliberately contains no BMI figure.
func helperClosing(name, relationship string) string {
	return fmt.Sprintf(`💙 Obrigado, %s! Apoiar alguém nessa jornada faz toda a diferença.

Como %s, você pode ajudar:
• Incentivando o acompanhamento com a equipe multidisciplinar
• Participando das consultas quando possível
• Apoiando as mudanças de hábito em casa

❓ Fique à vontade para perguntar sobre critérios, documentos e caminhos de atendimento. Informações de saúde da pessoa (como IMC) só podem ser avaliadas diretamente com ela.`, name, relationship)
}

// tierNarrative selects the advisory eligibility text for a BMI tier.
func tierNarrative(tier bmi.Tier) string {
	switch tier {
	case bmi.TierEligible:
		return `🎯 Orientação:
Você atende ao critério de IMC ≥ 40 kg/m² para cirurgia bariátrica. Recomendo consultar um cirurgião especialista para avaliação completa!`
	case bmi.TierComorbidities:
		return `🎯 Orientação:
Você tem IMC ≥ 35 kg/m². Para cirurgia bariátrica, seria necessário também ter comorbidades (diabetes, hipertensão, apneia do sono, etc.). Consulte um médico especialista!`
	default:
		return `🎯 Orientação:
Seu IMC não está na faixa de indicação cirúrgica (≥ 35 kg/m² com comorbidades ou ≥ 40 kg/m²). Um nutricionista ou endocrinologista pode orientar o melhor caminho!`
	}
}

// completedReport renders the final patient report: profile summary, BMI,
// category and the eligibility narrative.
func completedReport(p *models.Profile, r bmi.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ Perfil completo, %s!\n\n📊 Seus dados:\n", p.Name)
	fmt.Fprintf(&b, "• Idade: %d anos\n", p.Age)
	fmt.Fprintf(&b, "• Gênero: %s\n", p.Gender)
	fmt.Fprintf(&b, "• Altura: %.0f cm\n", p.HeightCm)
	fmt.Fprintf(&b, "• Peso: %.1f kg\n", p.WeightKg)
	fmt.Fprintf(&b, "• IMC: %.2f kg/m²\n", r.BMI)
	fmt.Fprintf(&b, "• Classificação: %s\n\n", r.Category)
	b.WriteString(tierNarrative(r.Tier))
	return b.String()
}

// quickBMIReport renders the one-off BMI result.
func quickBMIReport(heightCm, weightKg float64, r bmi.Result) string {
	var b strings.Builder
	b.WriteString("🧮 Resultado do IMC:\n\n")
	fmt.Fprintf(&b, "• Altura: %.0f cm\n", heightCm)
	fmt.Fprintf(&b, "• Peso: %.1f kg\n", weightKg)
	fmt.Fprintf(&b, "• IMC: %.2f kg/m²\n", r.BMI)
	fmt.Fprintf(&b, "• Classificação: %s\n\n", r.Category)
	b.WriteString(tierNarrative(r.Tier))
	return b.String()
}

// profileSummary renders the stored profile for the show-profile command.
func profileSummary(p *models.Profile) string {
	if p.PatientStatus == models.PatientHelper {
		return fmt.Sprintf("📊 Cadastro de acompanhante:\n\n• Nome: %s\n• Relação: %s", p.Name, p.Relationship)
	}
	var b strings.Builder
	b.WriteString("📊 Seus dados salvos:\n\n")
	fmt.Fprintf(&b, "• Nome: %s\n", p.Name)
	fmt.Fprintf(&b, "• Idade: %d anos\n", p.Age)
	fmt.Fprintf(&b, "• Gênero: %s\n", p.Gender)
	fmt.Fprintf(&b, "• Altura: %.0f cm\n", p.HeightCm)
	fmt.Fprintf(&b, "• Peso: %.1f kg\n", p.WeightKg)
	if r := bmi.Classify(p.WeightKg, p.HeightCm); r.Available {
		fmt.Fprintf(&b, "• IMC: %.2f kg/m²\n• Classificação: %s\n", r.BMI, r.Category)
	}
	return b.String()
}
