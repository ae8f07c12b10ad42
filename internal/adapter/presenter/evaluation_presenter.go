package presenter

import (
	"encoding/json"

	evaluationDTO "github.com/johnquangdev/call-insight/internal/adapter/dto/evaluation"
	"github.com/johnquangdev/call-insight/internal/domain/entities"
)

// ToEvaluationResponse flattens an evaluation result for display
func ToEvaluationResponse(res entities.EvaluationResult) *evaluationDTO.EvaluationResponse {
	class := res.Classification()
	resp := &evaluationDTO.EvaluationResponse{
		ClassificacaoLigacao:   string(class.Tag),
		MotivoClassificacao:    class.Motivo,
		ConfiancaClassificacao: class.Confianca,
		NotaVendedor:           res.NotaVendedor(),
		LeadScore:              res.LeadScore(),
		LeadClassificacao:      res.LeadClassificacao(),
		ConcursoArea:           res.ConcursoArea(),
		ProdutoRecomendado:     res.ProdutoRecomendado(),
		TokensUsados:           res.TokensUsed(),
		AvaliacaoCompleta:      json.RawMessage(res.AvaliacaoCompleta()),
	}
	switch r := res.(type) {
	case *entities.SalesEvaluation:
		resp.Aviso = r.Aviso
	case *entities.ErrorResult:
		resp.Erro = string(r.Kind)
	}
	return resp
}
