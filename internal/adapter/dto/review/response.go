package review

import (
	"encoding/json"

	"github.com/johnquangdev/call-insight/internal/adapter/dto/common"
	reviewUsecase "github.com/johnquangdev/call-insight/internal/usecase/review"
)

// SessionResponse carries the reviewer token
type SessionResponse struct {
	ReviewerID string `json:"reviewer_id"`
	Token      string `json:"token"`
	TokenType  string `json:"token_type"`
	ExpiresAt  string `json:"expires_at"`
}

// RecordResponse is one row of the review table
type RecordResponse struct {
	TranscriptionID int64           `json:"transcription_id"`
	OpportunityID   *string         `json:"opportunity_id,omitempty"`
	CreatedAt       string          `json:"created_at"`
	Empresa         string          `json:"empresa"`
	LeadName        string          `json:"lead_name"`
	LeadPhone       string          `json:"lead_phone"`
	LeadEmail       string          `json:"lead_email"`
	Etapa           string          `json:"etapa"`
	Modalidade      string          `json:"modalidade"`
	Origem          string          `json:"origem"`
	Tipo            string          `json:"tipo"`
	Duracao         *int            `json:"duracao,omitempty"`
	Agente          string          `json:"agente"`
	Avaliavel       bool            `json:"avaliavel"`
	Avaliada        bool            `json:"avaliada"`
	Selected        bool            `json:"selected"`
	Expanded        bool            `json:"expanded"`
	Status          string          `json:"status"`
	LastError       string          `json:"last_error,omitempty"`
	EvaluationIA    *int            `json:"evaluation_ia,omitempty"`
	Transcricao     string          `json:"transcricao,omitempty"`
	InsightIA       json.RawMessage `json:"insight_ia,omitempty" swaggertype:"object"`
}

// PageResponse is the current page of the filtered view
type PageResponse struct {
	Records    []RecordResponse          `json:"records"`
	Pagination common.PaginationResponse `json:"pagination"`
	Loaded     int                       `json:"loaded"`
	Selected   int                       `json:"selected"`
	Bucket     reviewUsecase.Bucket      `json:"bucket"`
}

// SelectionItem is one selected record in selection order
type SelectionItem struct {
	TranscriptionID int64  `json:"transcription_id"`
	LeadName        string `json:"lead_name"`
}

// SelectionResponse lists the selection
type SelectionResponse struct {
	Count   int             `json:"count"`
	Records []SelectionItem `json:"records"`
}

// ToggleResponse reports the state of a toggled record
type ToggleResponse struct {
	TranscriptionID int64 `json:"transcription_id"`
	Selected        bool  `json:"selected"`
	SelectedCount   int   `json:"selected_count"`
}

// ExpandResponse reports the expand state of a record
type ExpandResponse struct {
	TranscriptionID int64 `json:"transcription_id"`
	Expanded        bool  `json:"expanded"`
}

// BatchStartResponse identifies a started batch
type BatchStartResponse struct {
	BatchID string `json:"batch_id"`
	Total   int    `json:"total"`
}

// CountResponse carries count_evaluated
type CountResponse struct {
	Evaluated int64 `json:"evaluated"`
}
