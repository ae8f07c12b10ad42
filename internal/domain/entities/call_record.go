package entities

import (
	"strings"
	"time"
)

// UnknownAgent is displayed when a call has no seller attached
const UnknownAgent = "Não identificado"

// CallRecord is a transcribed call as read from the operational store,
// joined with its evaluation summary when one exists.
type CallRecord struct {
	TranscriptionID int64     `json:"transcription_id"`
	OpportunityID   *string   `json:"opportunity_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	Empresa         string    `json:"empresa"`
	LeadName        string    `json:"lead_name"`
	LeadPhone       string    `json:"lead_phone"`
	LeadEmail       string    `json:"lead_email"`
	Etapa           string    `json:"etapa"`
	Modalidade      string    `json:"modalidade"`
	Origem          string    `json:"origem"`
	Tipo            string    `json:"tipo"`
	Duracao         *int      `json:"duracao,omitempty"`
	Agente          string    `json:"agente"`
	Transcricao     string    `json:"transcricao"`
	InsightIA       *string   `json:"insight_ia,omitempty"`
	EvaluationIA    *int      `json:"evaluation_ia,omitempty"`
}

// AgentDisplay returns the seller identifier or the placeholder for empty ones
func (r CallRecord) AgentDisplay() string {
	if strings.TrimSpace(r.Agente) == "" {
		return UnknownAgent
	}
	return r.Agente
}

// IsEvaluated reports whether a summary with a non-empty insight exists
func (r CallRecord) IsEvaluated() bool {
	return r.InsightIA != nil && strings.TrimSpace(*r.InsightIA) != ""
}

// CRMContext returns the CRM fields handed to the evaluation as extra context
func (r CallRecord) CRMContext() map[string]interface{} {
	ctx := map[string]interface{}{
		"etapa":      r.Etapa,
		"modalidade": r.Modalidade,
		"origem":     r.Origem,
		"tipo":       r.Tipo,
		"agente":     r.AgentDisplay(),
	}
	if r.Duracao != nil {
		ctx["duracao_segundos"] = *r.Duracao
	}
	return ctx
}
