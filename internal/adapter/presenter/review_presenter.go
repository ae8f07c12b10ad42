package presenter

import (
	"encoding/json"
	"time"

	"github.com/johnquangdev/call-insight/internal/adapter/dto/common"
	reviewDTO "github.com/johnquangdev/call-insight/internal/adapter/dto/review"
	"github.com/johnquangdev/call-insight/internal/domain/entities"
	"github.com/johnquangdev/call-insight/internal/usecase/review"
	"github.com/johnquangdev/call-insight/pkg/localtime"
)

const displayTimeLayout = "2006-01-02 15:04"

// ToPageResponse converts a review page to its DTO. Transcript and insight
// are only sent for expanded rows.
func ToPageResponse(p review.Page) *reviewDTO.PageResponse {
	records := make([]reviewDTO.RecordResponse, 0, len(p.Records))
	for _, r := range p.Records {
		records = append(records, ToRecordResponse(r))
	}
	return &reviewDTO.PageResponse{
		Records: records,
		Pagination: common.PaginationResponse{
			Page:       p.Page,
			PageSize:   p.PageSize,
			TotalPages: p.TotalPages,
			TotalItems: p.Total,
		},
		Loaded:   p.Loaded,
		Selected: p.Selected,
		Bucket:   p.Bucket,
	}
}

// ToRecordResponse converts one annotated record
func ToRecordResponse(r review.RecordView) reviewDTO.RecordResponse {
	resp := reviewDTO.RecordResponse{
		TranscriptionID: r.TranscriptionID,
		OpportunityID:   r.OpportunityID,
		CreatedAt:       formatTime(r.CreatedAt),
		Empresa:         r.Empresa,
		LeadName:        r.LeadName,
		LeadPhone:       r.LeadPhone,
		LeadEmail:       r.LeadEmail,
		Etapa:           r.Etapa,
		Modalidade:      r.Modalidade,
		Origem:          r.Origem,
		Tipo:            r.Tipo,
		Duracao:         r.Duracao,
		Agente:          r.AgenteDisplay,
		Avaliavel:       r.Avaliavel,
		Avaliada:        r.Avaliada,
		Selected:        r.Selected,
		Expanded:        r.Expanded,
		Status:          string(r.Status),
		LastError:       r.LastError,
		EvaluationIA:    r.EvaluationIA,
	}
	if r.Expanded {
		resp.Transcricao = r.Transcricao
		if r.IsEvaluated() && json.Valid([]byte(*r.InsightIA)) {
			resp.InsightIA = json.RawMessage(*r.InsightIA)
		}
	}
	return resp
}

// ToSelectionResponse lists the selection in selection order
func ToSelectionResponse(records []entities.CallRecord) *reviewDTO.SelectionResponse {
	items := make([]reviewDTO.SelectionItem, 0, len(records))
	for _, r := range records {
		items = append(items, reviewDTO.SelectionItem{TranscriptionID: r.TranscriptionID, LeadName: r.LeadName})
	}
	return &reviewDTO.SelectionResponse{Count: len(items), Records: items}
}

// ToSessionResponse builds the token response
func ToSessionResponse(reviewerID, token string, expiresAt time.Time) *reviewDTO.SessionResponse {
	return &reviewDTO.SessionResponse{
		ReviewerID: reviewerID,
		Token:      token,
		TokenType:  "Bearer",
		ExpiresAt:  expiresAt.In(localtime.Location()).Format(time.RFC3339),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(localtime.Location()).Format(displayTimeLayout)
}
