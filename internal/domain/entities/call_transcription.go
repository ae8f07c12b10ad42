package entities

import "time"

// CallTranscription mirrors the operational transcripts table. The console
// only reads it; the model exists for local schemas and fixtures.
type CallTranscription struct {
	TranscriptionID int64     `gorm:"column:transcription_id;primaryKey;autoIncrement:false"`
	OpportunityID   *string   `gorm:"column:opportunity_id;type:text"`
	CreatedAt       time.Time `gorm:"column:created_at;type:timestamp;not null;index"`
	Empresa         *string   `gorm:"column:empresa;type:text;index"`
	LeadName        *string   `gorm:"column:lead_name;type:text"`
	LeadPhone       *string   `gorm:"column:lead_phone;type:text"`
	LeadEmail       *string   `gorm:"column:lead_email;type:text"`
	Etapa           *string   `gorm:"column:etapa;type:text"`
	Modalidade      *string   `gorm:"column:modalidade;type:text"`
	Origem          *string   `gorm:"column:origem;type:text"`
	Tipo            *string   `gorm:"column:tipo;type:text"`
	Duracao         *int      `gorm:"column:duracao"`
	Agente          *string   `gorm:"column:agente;type:text"`
	Transcricao     *string   `gorm:"column:transcricao;type:text"`
}

// TableName specifies the table name for GORM
func (CallTranscription) TableName() string {
	return "call_transcriptions"
}
