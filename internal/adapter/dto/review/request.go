package review

import (
	reviewUsecase "github.com/johnquangdev/call-insight/internal/usecase/review"
)

// CreateSessionRequest opens a review session for a reviewer
type CreateSessionRequest struct {
	Reviewer string `json:"reviewer" validate:"required,min=2,max=120"`
}

// RecordsQuery holds the candidate filters. Dates are YYYY-MM-DD in
// America/Sao_Paulo; repeated parameters select several values.
type RecordsQuery struct {
	Empresa     string   `query:"empresa" validate:"omitempty,max=120"`
	From        string   `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To          string   `query:"to" validate:"omitempty,datetime=2006-01-02"`
	Etapas      []string `query:"etapa"`
	Modalidades []string `query:"modalidade"`
	Origens     []string `query:"origem"`
	Tipos       []string `query:"tipo"`
	Agentes     []string `query:"agente"`
}

// PageRequest moves the view to another page
type PageRequest struct {
	Page     int `json:"page" validate:"min=1"`
	PageSize int `json:"page_size" validate:"page_size"`
}

// BucketRequest sets the two filter toggles
type BucketRequest struct {
	Eligibility reviewUsecase.EligibilityBucket `json:"eligibility" validate:"required,bucket"`
	Status      reviewUsecase.StatusBucket      `json:"status" validate:"required,bucket"`
}

// ToggleRequest flips the selection of one record
type ToggleRequest struct {
	TranscriptionID int64 `json:"transcription_id" validate:"required,gt=0"`
}
