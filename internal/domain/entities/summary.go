package entities

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// PersistedSummary is one evaluation row, keyed by transcription_id
type PersistedSummary struct {
	TranscriptionID      int64                      `json:"transcription_id" gorm:"column:transcription_id;primaryKey;autoIncrement:false"`
	UUID                 string                     `json:"uuid" gorm:"column:uuid;type:text;not null"`
	AIInsight            string                     `json:"ai_insight" gorm:"column:ai_insight;type:text"`
	AIEvaluation         int16                      `json:"ai_evaluation" gorm:"column:ai_evaluation;type:smallint"`
	LeadScore            int                        `json:"lead_score" gorm:"column:lead_score"`
	LeadClassification   string                     `json:"lead_classification" gorm:"column:lead_classification;type:varchar(1)"`
	Strengths            datatypes.JSONSlice[string] `json:"strengths" gorm:"column:strengths"`
	Improvements         datatypes.JSONSlice[string] `json:"improvements" gorm:"column:improvements"`
	MostExpensiveMistake string                     `json:"most_expensive_mistake" gorm:"column:most_expensive_mistake;type:text"`
	MainPainPoints       datatypes.JSONSlice[string] `json:"main_pain_points" gorm:"column:main_pain_points"`
	Restrictions         datatypes.JSONSlice[string] `json:"restrictions" gorm:"column:restrictions"`
	ContestArea          string                     `json:"contest_area" gorm:"column:contest_area;type:text"`
	MainProduct          string                     `json:"main_product" gorm:"column:main_product;type:text"`
	CreatedAt            time.Time                  `json:"created_at" gorm:"column:created_at;type:timestamp;not null"`
	UpdatedAt            time.Time                  `json:"updated_at" gorm:"column:updated_at;type:timestamp;not null"`
}

// TableName specifies the table name for GORM
func (PersistedSummary) TableName() string {
	return "call_transcription_summaries"
}

// Denormalize fills the flat columns from an insight document. Documents
// without a SPIN evaluation produce empty lists and display defaults.
func (s *PersistedSummary) Denormalize(insight string) error {
	var doc SpinEvaluation
	if err := json.Unmarshal([]byte(insight), &doc); err != nil {
		return fmt.Errorf("insight is not a JSON object: %w", err)
	}

	s.LeadScore = ClampScore(doc.AvaliacaoLead.LeadScore)
	s.LeadClassification = NormalizeLeadClass(doc.AvaliacaoLead.Classificacao)
	s.MostExpensiveMistake = doc.AvaliacaoVendedor.ErroMaisCaro.Descricao

	s.Strengths = make(datatypes.JSONSlice[string], 0, len(doc.AvaliacaoVendedor.PontosFortes))
	for _, p := range doc.AvaliacaoVendedor.PontosFortes {
		s.Strengths = append(s.Strengths, p.Ponto)
	}
	s.Improvements = make(datatypes.JSONSlice[string], 0, len(doc.AvaliacaoVendedor.Melhorias))
	for _, m := range doc.AvaliacaoVendedor.Melhorias {
		s.Improvements = append(s.Improvements, m.Melhoria)
	}
	s.MainPainPoints = append(datatypes.JSONSlice[string]{}, doc.Extracao.DoresPrincipais...)
	s.Restrictions = append(datatypes.JSONSlice[string]{}, doc.Extracao.Restricoes...)

	s.ContestArea = doc.Extracao.ConcursoArea
	if s.ContestArea == "" {
		s.ContestArea = DefaultContestArea
	}
	s.MainProduct = doc.RecomendacaoFinal.ProdutoPrincipal.Produto
	if s.MainProduct == "" {
		s.MainProduct = DefaultProduct
	}
	return nil
}
