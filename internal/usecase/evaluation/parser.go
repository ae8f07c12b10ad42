package evaluation

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/johnquangdev/call-insight/internal/domain/entities"
)

const defaultConfidence = 0.5

// defaultMotivo fills an empty rationale
const defaultMotivo = "Não informado"

// classificationReply is the Stage A answer after defaults are applied
type classificationReply struct {
	Tag         entities.CallTag
	Motivo      string
	Confianca   float64
	DeveAvaliar bool
}

// parseClassification reads the Stage A JSON. Unknown tags become outros.
func parseClassification(content map[string]interface{}) classificationReply {
	raw := stringField(content, "classificacao", "classificacao_ligacao", "tag")
	tag := entities.CallTag(strings.ToLower(strings.TrimSpace(raw)))
	if !tag.IsValid() {
		tag = entities.TagOutros
	}

	reply := classificationReply{
		Tag:       tag,
		Motivo:    strings.TrimSpace(stringField(content, "motivo", "motivo_classificacao")),
		Confianca: defaultConfidence,
	}
	if reply.Motivo == "" {
		reply.Motivo = defaultMotivo
	}
	if c, ok := numberField(content, "confianca", "confianca_classificacao"); ok && c >= 0 && c <= 1 {
		reply.Confianca = c
	}

	reply.DeveAvaliar = tag == entities.TagVenda
	if v, ok := content["deve_avaliar"].(bool); ok && tag == entities.TagVenda {
		reply.DeveAvaliar = v
	}
	return reply
}

// parseSpinEvaluation validates the Stage B document against the result schema
func parseSpinEvaluation(doc map[string]interface{}) (entities.SpinEvaluation, error) {
	var spin entities.SpinEvaluation

	normalizeScore(doc, "avaliacao_vendedor", "nota_final_0_100")
	normalizeScore(doc, "avaliacao_lead", "lead_score_0_100")

	b, err := json.Marshal(doc)
	if err != nil {
		return spin, fmt.Errorf("failed to encode evaluation: %w", err)
	}
	if err := json.Unmarshal(b, &spin); err != nil {
		return spin, fmt.Errorf("evaluation does not match schema: %w", err)
	}
	if spin.AvaliacaoVendedor.NotaFinal == nil {
		return spin, fmt.Errorf("missing avaliacao_vendedor.nota_final_0_100")
	}
	return spin, nil
}

// normalizeScore turns "78" or "78/100" into 78 so a stringly model answer
// still decodes
func normalizeScore(doc map[string]interface{}, section, field string) {
	sec, ok := doc[section].(map[string]interface{})
	if !ok {
		return
	}
	s, ok := sec[field].(string)
	if !ok {
		return
	}
	s = strings.TrimSpace(strings.SplitN(s, "/", 2)[0])
	if f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64); err == nil {
		sec[field] = f
	} else {
		delete(sec, field)
	}
}

// graftClassification writes the final classification into the document
func graftClassification(doc map[string]interface{}, c entities.Classification) {
	doc["classificacao_ligacao"] = string(c.Tag)
	doc["motivo_classificacao"] = c.Motivo
	doc["confianca_classificacao"] = c.Confianca
}

func stringField(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func numberField(m map[string]interface{}, keys ...string) (float64, bool) {
	for _, k := range keys {
		switch v := m[k].(type) {
		case float64:
			return v, true
		case string:
			if f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(v), ",", "."), 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}
