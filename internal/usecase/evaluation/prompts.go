package evaluation

import (
	_ "embed"
	"encoding/json"
	"strings"
	"unicode/utf8"
)

var (
	//go:embed prompts/classificacao.txt
	classificationPrompt string

	//go:embed prompts/spin_generico.txt
	genericSpinPrompt string

	//go:embed prompts/formato_saida.txt
	outputSchemaPrompt string
)

// maxClassificationRunes keeps the classification call cheap on very long calls
const maxClassificationRunes = 6000

func buildClassificationPrompt(transcricao string) (system, user string) {
	return classificationPrompt, "Transcrição da ligação:\n\n" + truncateRunes(transcricao, maxClassificationRunes)
}

// buildEvaluationPrompt prepends the context document to the transcript.
// The output schema is always appended so the parser contract holds even
// when a deployed document omits it.
func buildEvaluationPrompt(contextDoc, transcricao string, extra map[string]interface{}) (system, user string) {
	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(contextDoc))
	sb.WriteString("\n\n")
	sb.WriteString(outputSchemaPrompt)
	system = sb.String()

	var ub strings.Builder
	if len(extra) > 0 {
		if b, err := json.Marshal(extra); err == nil {
			ub.WriteString("Contexto adicional (CRM):\n")
			ub.Write(b)
			ub.WriteString("\n\n")
		}
	}
	ub.WriteString("Transcrição da ligação:\n\n")
	ub.WriteString(transcricao)
	return system, ub.String()
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
