package evaluation

import "encoding/json"

// PreviewRequest evaluates a transcript without persisting the result
type PreviewRequest struct {
	Transcricao       string                 `json:"transcricao" validate:"required"`
	ContextoAdicional map[string]interface{} `json:"contexto_adicional,omitempty"`
}

// EvaluationResponse is the flattened view of an evaluation result
type EvaluationResponse struct {
	ClassificacaoLigacao   string          `json:"classificacao_ligacao"`
	MotivoClassificacao    string          `json:"motivo_classificacao"`
	ConfiancaClassificacao float64         `json:"confianca_classificacao"`
	NotaVendedor           int             `json:"nota_vendedor"`
	LeadScore              int             `json:"lead_score"`
	LeadClassificacao      string          `json:"lead_classificacao"`
	ConcursoArea           string          `json:"concurso_area"`
	ProdutoRecomendado     string          `json:"produto_recomendado"`
	TokensUsados           int             `json:"tokens_usados"`
	Aviso                  string          `json:"aviso,omitempty"`
	Erro                   string          `json:"erro,omitempty"`
	AvaliacaoCompleta      json.RawMessage `json:"avaliacao_completa" swaggertype:"object"`
}
