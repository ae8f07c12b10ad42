// Package evaluation runs the two-stage pipeline that turns a transcript into
// an EvaluationResult: classification first, SPIN evaluation for sales only.
package evaluation

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/johnquangdev/call-insight/internal/domain/entities"
	"github.com/johnquangdev/call-insight/internal/usecase/eligibility"
	"github.com/johnquangdev/call-insight/pkg/llm"
)

const minTranscriptLength = 10

// Motivos surfaced on degraded results
const (
	MotivoTooShort          = "Transcrição vazia ou muito curta para avaliação"
	MotivoMissingAPIKey     = "LLM_API_KEY não configurada; classificação por IA indisponível"
	MotivoSpinFieldsMissing = "Avaliação SPIN sem campos obrigatórios"
	MotivoReclassified      = "Reclassificada: diálogo entre vendedor e cliente após mensagem automática"
	MotivoSaleWithoutDialog = "Venda sem diálogo identificado entre vendedor e cliente; avaliação SPIN não aplicável"
	AvisoGenericPrompt      = "Documento de contexto ausente; prompt genérico utilizado"
)

// Completer is the LLM boundary used by the engine
type Completer interface {
	Complete(ctx context.Context, system, user string, maxTokens int, temperature float64) (*llm.Completion, error)
}

// Evaluator is what callers of the engine depend on
type Evaluator interface {
	Evaluate(ctx context.Context, transcricao string, contextoAdicional map[string]interface{}) entities.EvaluationResult
}

// Options tunes both LLM stages
type Options struct {
	ClassifyMaxTokens   int
	ClassifyTemperature float64
	EvalMaxTokens       int
	EvalTemperature     float64
	// ContextDocument is the deployed SPIN rubric; empty falls back to the
	// embedded generic prompt
	ContextDocument string
}

// Engine orchestrates the eligibility classifier and the LLM calls.
// It never returns an error: failures become *entities.ErrorResult.
type Engine struct {
	classifier *eligibility.Classifier
	completer  Completer
	opts       Options
	logger     *zap.Logger
}

// NewEngine creates an engine. completer may be nil when no API key is
// configured; heuristic verdicts still work in that case.
func NewEngine(classifier *eligibility.Classifier, completer Completer, opts Options, logger *zap.Logger) *Engine {
	if opts.ClassifyMaxTokens <= 0 {
		opts.ClassifyMaxTokens = 300
	}
	if opts.EvalMaxTokens <= 0 {
		opts.EvalMaxTokens = 4000
	}
	return &Engine{
		classifier: classifier,
		completer:  completer,
		opts:       opts,
		logger:     logger,
	}
}

// UsesGenericPrompt reports whether no context document was provided
func (e *Engine) UsesGenericPrompt() bool {
	return strings.TrimSpace(e.opts.ContextDocument) == ""
}

// Evaluate classifies and, for sales calls, evaluates a transcript
func (e *Engine) Evaluate(ctx context.Context, transcricao string, contextoAdicional map[string]interface{}) entities.EvaluationResult {
	if eligibility.NormalizedLength(transcricao) < minTranscriptLength {
		return &entities.ErrorResult{Motivo: MotivoTooShort, Kind: entities.ErrorKindInput}
	}

	// Stage A: heuristics, then the LLM
	if verdict := e.classifier.Classify(transcricao); verdict != nil {
		if e.logger != nil {
			e.logger.Info("🔎 Heuristic classification",
				zap.String("tag", verdict.Tag.String()),
				zap.Float64("confianca", verdict.Confianca))
		}
		return &entities.ClassificationOnly{Class: entities.Classification{
			Tag:       verdict.Tag,
			Motivo:    verdict.Motivo,
			Confianca: verdict.Confianca,
		}}
	}

	if e.completer == nil {
		return &entities.ErrorResult{Motivo: MotivoMissingAPIKey, Kind: entities.ErrorKindConfiguration}
	}

	system, user := buildClassificationPrompt(transcricao)
	completion, err := e.completer.Complete(ctx, system, user, e.opts.ClassifyMaxTokens, e.opts.ClassifyTemperature)
	if err != nil {
		return e.failure("classification", err, 0)
	}
	tokens := completion.TokensTotal

	reply := parseClassification(completion.Content)
	overridden := e.applyIVROverride(&reply, transcricao)
	class := entities.Classification{Tag: reply.Tag, Motivo: reply.Motivo, Confianca: reply.Confianca}

	if e.logger != nil {
		e.logger.Info("🤖 LLM classification",
			zap.String("tag", class.Tag.String()),
			zap.Bool("override", overridden),
			zap.Bool("deve_avaliar", reply.DeveAvaliar),
			zap.Int("tokens", tokens))
	}

	if class.Tag != entities.TagVenda {
		return &entities.ClassificationOnly{Class: class, Tokens: tokens}
	}
	// a sale without a marked dialogue has nothing to score, so it never
	// leaves Stage A tagged venda
	if !e.classifier.HasDialogueStructure(transcricao) {
		class.Tag, class.Motivo = entities.TagOutros, MotivoSaleWithoutDialog
		return &entities.ClassificationOnly{Class: class, Tokens: tokens}
	}

	return e.evaluateSale(ctx, transcricao, contextoAdicional, class, tokens)
}

// applyIVROverride repairs the known failure where an IVR preamble makes the
// model answer ura for a real conversation. It reports whether the call was
// rescued as a sale.
func (e *Engine) applyIVROverride(reply *classificationReply, transcricao string) bool {
	if reply.Tag != entities.TagURA {
		return false
	}
	if !e.classifier.HasDialogueStructure(transcricao) {
		return false
	}

	if e.classifier.HasSalesIntent(transcricao) {
		reply.Tag = entities.TagVenda
	} else {
		reply.Tag = entities.TagOutros
	}
	reply.Motivo = MotivoReclassified
	reply.DeveAvaliar = reply.Tag == entities.TagVenda
	return reply.DeveAvaliar
}

// evaluateSale is Stage B plus the assembly of the sales result
func (e *Engine) evaluateSale(ctx context.Context, transcricao string, extra map[string]interface{}, class entities.Classification, tokens int) entities.EvaluationResult {
	contextDoc, aviso := e.opts.ContextDocument, ""
	if e.UsesGenericPrompt() {
		contextDoc, aviso = genericSpinPrompt, AvisoGenericPrompt
	}

	system, user := buildEvaluationPrompt(contextDoc, transcricao, extra)
	completion, err := e.completer.Complete(ctx, system, user, e.opts.EvalMaxTokens, e.opts.EvalTemperature)
	if err != nil {
		return e.failure("evaluation", err, tokens)
	}
	tokens += completion.TokensTotal

	spin, err := parseSpinEvaluation(completion.Content)
	if err != nil {
		if e.logger != nil {
			e.logger.Warn("⚠️ SPIN evaluation rejected",
				zap.Error(err),
				zap.Int("tokens", tokens))
		}
		return &entities.ClassificationOnly{
			Class: entities.Classification{
				Tag:       entities.TagOutros,
				Motivo:    MotivoSpinFieldsMissing,
				Confianca: class.Confianca,
			},
			Tokens: tokens,
		}
	}

	graftClassification(completion.Content, class)
	if aviso != "" {
		completion.Content["aviso"] = aviso
	}

	if e.logger != nil {
		e.logger.Info("✅ SPIN evaluation completed",
			zap.Int("nota_final", entities.ClampScore(spin.AvaliacaoVendedor.NotaFinal)),
			zap.Int("tokens", tokens))
	}

	return &entities.SalesEvaluation{
		Class:      class,
		Evaluation: spin,
		Document:   completion.Content,
		Tokens:     tokens,
		Aviso:      aviso,
	}
}

func (e *Engine) failure(stage string, err error, tokens int) *entities.ErrorResult {
	kind := entities.ErrorKindProvider
	var llmErr *llm.Error
	if errors.As(err, &llmErr) {
		tokens += llmErr.Tokens
		switch llmErr.Kind {
		case llm.KindSchema:
			kind = entities.ErrorKindSchema
		case llm.KindConfiguration:
			kind = entities.ErrorKindConfiguration
		}
	}

	if e.logger != nil {
		e.logger.Error("❌ LLM stage failed",
			zap.String("stage", stage),
			zap.String("kind", string(kind)),
			zap.Error(err))
	}
	return &entities.ErrorResult{
		Motivo: "Falha na etapa de " + stageLabel(stage) + ": " + err.Error(),
		Kind:   kind,
		Tokens: tokens,
	}
}

func stageLabel(stage string) string {
	if stage == "classification" {
		return "classificação"
	}
	return "avaliação"
}
