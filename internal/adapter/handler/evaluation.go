package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	evaluationDTO "github.com/johnquangdev/call-insight/internal/adapter/dto/evaluation"
	"github.com/johnquangdev/call-insight/internal/adapter/presenter"
	"github.com/johnquangdev/call-insight/internal/domain/entities"
	"github.com/johnquangdev/call-insight/internal/usecase/evaluation"
)

// Evaluation runs the engine on ad-hoc transcripts
type Evaluation struct {
	engine evaluation.Evaluator
	logger *zap.Logger
}

// NewEvaluationHandler creates a new evaluation handler
func NewEvaluationHandler(engine evaluation.Evaluator, logger *zap.Logger) *Evaluation {
	return &Evaluation{engine: engine, logger: logger}
}

// Preview handles POST /evaluations/preview
// @Summary      Evaluate a transcript
// @Description  Classifies and, for sales calls, evaluates a transcript without persisting. A failed evaluation returns the taxonomy error with motivo and tokens_usados in details.
// @Tags         Evaluations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      evaluationDTO.PreviewRequest  true  "Transcript"
// @Success      200      {object}  common.SuccessResponse{data=evaluationDTO.EvaluationResponse}
// @Failure      400      {object}  common.ErrorResponse
// @Failure      422      {object}  common.ErrorResponse  "Transcript too short"
// @Failure      502      {object}  common.ErrorResponse  "Provider or schema failure"
// @Failure      503      {object}  common.ErrorResponse  "LLM not configured"
// @Router       /evaluations/preview [post]
func (h *Evaluation) Preview(c echo.Context) error {
	var req evaluationDTO.PreviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	res := h.engine.Evaluate(c.Request().Context(), req.Transcricao, req.ContextoAdicional)
	if er, ok := res.(*entities.ErrorResult); ok {
		appErr := evaluationError(er.Kind, 0, er.Motivo).
			WithDetail("tokens_usados", strconv.Itoa(er.TokensUsed()))
		return HandleError(h.logger, c, appErr)
	}
	return HandleSuccess(h.logger, c, presenter.ToEvaluationResponse(res))
}
