package dialog

import (
	"strings"
	"unicode"

	"github.com/baria-bot/baria/internal/models"
)

// commandAliases maps normalized user inputs to commands. Menu button labels
// and typed Portuguese variants resolve to the same command.
var commandAliases = map[string]models.Command{
	"restart":   models.CommandRestart,
	"/restart":  models.CommandRestart,
	"recomeçar": models.CommandRestart,
	"recomecar": models.CommandRestart,
	"reiniciar": models.CommandRestart,

	"show-profile": models.CommandShowProfile,
	"meus dados":   models.CommandShowProfile,

	"show-criteria": models.CommandShowCriteria,
	"critérios":     models.CommandShowCriteria,
	"criterios":     models.CommandShowCriteria,

	"show-documents": models.CommandShowDocuments,
	"documentos":     models.CommandShowDocuments,

	"show-pathways":           models.CommandShowPathways,
	"caminhos":                models.CommandShowPathways,
	"caminhos de atendimento": models.CommandShowPathways,

	"show-general-guidance": models.CommandShowGuidance,
	"orientações":           models.CommandShowGuidance,
	"orientacoes":           models.CommandShowGuidance,
	"orientações gerais":    models.CommandShowGuidance,
	"orientacoes gerais":    models.CommandShowGuidance,

	"start-intake":      models.CommandStartIntake,
	"cadastro":          models.CommandStartIntake,
	"cadastro completo": models.CommandStartIntake,
	"fazer cadastro":    models.CommandStartIntake,

	"quick-bmi":    models.CommandQuickBMI,
	"calcular imc": models.CommandQuickBMI,
	"imc rápido":   models.CommandQuickBMI,
	"imc rapido":   models.CommandQuickBMI,

	"ask-question":   models.CommandAskQuestion,
	"fazer pergunta": models.CommandAskQuestion,
	"pergunta":       models.CommandAskQuestion,
}

// ParseCommand resolves a message to an explicit command, stripping menu
// emoji and punctuation first. ok is false for free text.
func ParseCommand(text string) (models.Command, bool) {
	cmd, ok := commandAliases[normalizeCommand(text)]
	return cmd, ok
}

// normalizeCommand lowers the text and drops everything that is not a letter,
// digit, space, slash or hyphen, so "📝 Cadastro Completo" and "cadastro
// completo" normalize identically.
func normalizeCommand(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ' || r == '/' || r == '-':
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
