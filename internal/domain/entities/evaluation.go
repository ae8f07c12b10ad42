package entities

import (
	"encoding/json"
	"math"
	"strings"
)

// Display defaults for calls without a SPIN evaluation
const (
	DefaultLeadClassification = "D"
	DefaultContestArea        = "Não identificado"
	DefaultProduct            = "N/A"
)

// EvaluationResult is the outcome of evaluating one transcript. It is one of
// *SalesEvaluation, *ClassificationOnly or *ErrorResult, discriminated by
// the classificacao_ligacao tag.
type EvaluationResult interface {
	// Classification returns the final tag with its rationale
	Classification() Classification
	// TokensUsed is the sum of tokens of every LLM call made
	TokensUsed() int
	// NotaVendedor is the seller score persisted as ai_evaluation
	NotaVendedor() int
	LeadScore() int
	LeadClassificacao() string
	ConcursoArea() string
	ProdutoRecomendado() string
	// AvaliacaoCompleta is the JSON document persisted as ai_insight
	AvaliacaoCompleta() string

	isEvaluationResult()
}

// Classification holds the classification fields shared by every variant
type Classification struct {
	Tag       CallTag `json:"classificacao_ligacao"`
	Motivo    string  `json:"motivo_classificacao"`
	Confianca float64 `json:"confianca_classificacao"`
}

// SalesEvaluation is the result for calls classified as venda
type SalesEvaluation struct {
	Class      Classification
	Evaluation SpinEvaluation
	// Document is the LLM JSON with the classification fields grafted on
	Document map[string]interface{}
	Tokens   int
	// Aviso carries a degradation warning, e.g. missing context document
	Aviso string
}

// ClassificationOnly is the result for calls that skip the SPIN evaluation
type ClassificationOnly struct {
	Class  Classification
	Tokens int
}

// ErrorResult is returned when a transcript could not be evaluated
type ErrorResult struct {
	Motivo string
	// Kind is one of the ErrorKind values
	Kind   ErrorKind
	Tokens int
}

// ErrorKind classifies evaluation failures
type ErrorKind string

const (
	ErrorKindInput         ErrorKind = "input"
	ErrorKindProvider      ErrorKind = "provider"
	ErrorKindSchema        ErrorKind = "schema"
	ErrorKindConfiguration ErrorKind = "configuration"
	// batch-only kinds: the store rejected the write, or the record broke
	// outside the pipeline (panic, shutdown)
	ErrorKindPersistence   ErrorKind = "persistence"
	ErrorKindInternal      ErrorKind = "internal"
)

// SpinEvaluation is the typed view of the Stage B document
type SpinEvaluation struct {
	AvaliacaoVendedor SellerAssessment    `json:"avaliacao_vendedor"`
	AvaliacaoLead     LeadAssessment      `json:"avaliacao_lead"`
	Extracao          Extraction          `json:"extracao"`
	RecomendacaoFinal FinalRecommendation `json:"recomendacao_final"`
}

type SellerAssessment struct {
	NotaFinal    *float64      `json:"nota_final_0_100"`
	PontosFortes []Strength    `json:"pontos_fortes"`
	Melhorias    []Improvement `json:"melhorias"`
	ErroMaisCaro CostlyMistake `json:"erro_mais_caro"`
}

type Strength struct {
	Ponto     string `json:"ponto"`
	Evidencia string `json:"evidencia"`
}

type Improvement struct {
	Melhoria       string `json:"melhoria"`
	ComoFazer      string `json:"como_fazer"`
	EvidenciaDoGap string `json:"evidencia_do_gap"`
}

type CostlyMistake struct {
	Descricao string `json:"descricao"`
}

type LeadAssessment struct {
	LeadScore     *float64 `json:"lead_score_0_100"`
	Classificacao string   `json:"classificacao"`
}

type Extraction struct {
	ConcursoArea    string   `json:"concurso_area"`
	DoresPrincipais []string `json:"dores_principais"`
	Restricoes      []string `json:"restricoes"`
}

type FinalRecommendation struct {
	ProdutoPrincipal MainProduct `json:"produto_principal"`
}

type MainProduct struct {
	Produto string `json:"produto"`
}

func (*SalesEvaluation) isEvaluationResult()    {}
func (*ClassificationOnly) isEvaluationResult() {}
func (*ErrorResult) isEvaluationResult()        {}

func (s *SalesEvaluation) Classification() Classification { return s.Class }
func (s *SalesEvaluation) TokensUsed() int                { return s.Tokens }

func (s *SalesEvaluation) NotaVendedor() int {
	return ClampScore(s.Evaluation.AvaliacaoVendedor.NotaFinal)
}

func (s *SalesEvaluation) LeadScore() int {
	return ClampScore(s.Evaluation.AvaliacaoLead.LeadScore)
}

func (s *SalesEvaluation) LeadClassificacao() string {
	return NormalizeLeadClass(s.Evaluation.AvaliacaoLead.Classificacao)
}

func (s *SalesEvaluation) ConcursoArea() string {
	if area := strings.TrimSpace(s.Evaluation.Extracao.ConcursoArea); area != "" {
		return area
	}
	return DefaultContestArea
}

func (s *SalesEvaluation) ProdutoRecomendado() string {
	if p := strings.TrimSpace(s.Evaluation.RecomendacaoFinal.ProdutoPrincipal.Produto); p != "" {
		return p
	}
	return DefaultProduct
}

func (s *SalesEvaluation) AvaliacaoCompleta() string {
	b, err := json.Marshal(s.Document)
	if err != nil {
		return classificationJSON(s.Class)
	}
	return string(b)
}

func (c *ClassificationOnly) Classification() Classification { return c.Class }
func (c *ClassificationOnly) TokensUsed() int                { return c.Tokens }
func (c *ClassificationOnly) NotaVendedor() int              { return 0 }
func (c *ClassificationOnly) LeadScore() int                 { return 0 }
func (c *ClassificationOnly) LeadClassificacao() string      { return DefaultLeadClassification }
func (c *ClassificationOnly) ConcursoArea() string           { return DefaultContestArea }
func (c *ClassificationOnly) ProdutoRecomendado() string     { return DefaultProduct }
func (c *ClassificationOnly) AvaliacaoCompleta() string      { return classificationJSON(c.Class) }

func (e *ErrorResult) Classification() Classification {
	return Classification{Tag: TagErro, Motivo: e.Motivo}
}
func (e *ErrorResult) TokensUsed() int            { return e.Tokens }
func (e *ErrorResult) NotaVendedor() int          { return 0 }
func (e *ErrorResult) LeadScore() int             { return 0 }
func (e *ErrorResult) LeadClassificacao() string  { return DefaultLeadClassification }
func (e *ErrorResult) ConcursoArea() string       { return DefaultContestArea }
func (e *ErrorResult) ProdutoRecomendado() string { return DefaultProduct }
func (e *ErrorResult) AvaliacaoCompleta() string  { return classificationJSON(e.Classification()) }

// Error lets an ErrorResult travel as an error value
func (e *ErrorResult) Error() string {
	return string(e.Kind) + ": " + e.Motivo
}

// IsError reports whether the result is an *ErrorResult
func IsError(r EvaluationResult) bool {
	_, ok := r.(*ErrorResult)
	return ok
}

// ClampScore rounds a 0–100 score, treating nil as 0
func ClampScore(v *float64) int {
	if v == nil || math.IsNaN(*v) {
		return 0
	}
	score := int(math.Round(*v))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// NormalizeLeadClass maps anything outside A–D to D
func NormalizeLeadClass(c string) string {
	switch c = strings.ToUpper(strings.TrimSpace(c)); c {
	case "A", "B", "C", "D":
		return c
	}
	return DefaultLeadClassification
}

func classificationJSON(c Classification) string {
	b, _ := json.Marshal(c)
	return string(b)
}
