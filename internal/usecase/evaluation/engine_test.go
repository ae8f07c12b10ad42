package evaluation

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/johnquangdev/call-insight/internal/domain/entities"
	"github.com/johnquangdev/call-insight/internal/usecase/eligibility"
	"github.com/johnquangdev/call-insight/pkg/llm"
)

type fakeCall struct {
	system      string
	user        string
	maxTokens   int
	temperature float64
}

type fakeReply struct {
	content map[string]interface{}
	tokens  int
	err     error
}

// fakeCompleter answers in order and records every call
type fakeCompleter struct {
	replies []fakeReply
	calls   []fakeCall
}

func (f *fakeCompleter) Complete(ctx context.Context, system, user string, maxTokens int, temperature float64) (*llm.Completion, error) {
	f.calls = append(f.calls, fakeCall{system, user, maxTokens, temperature})
	if len(f.calls) > len(f.replies) {
		return nil, &llm.Error{Kind: llm.KindProvider, Err: errors.New("unexpected call")}
	}
	r := f.replies[len(f.calls)-1]
	if r.err != nil {
		return nil, r.err
	}
	return &llm.Completion{Content: r.content, TokensTotal: r.tokens, Model: "fake"}, nil
}

func obj(t *testing.T, s string) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return m
}

const spinJSON = `{
  "avaliacao_vendedor": {
    "nota_final_0_100": 78,
    "pontos_fortes": [{"ponto": "Rapport inicial", "evidencia": "chamou o cliente pelo nome"}],
    "melhorias": [{"melhoria": "Explorar implicação", "como_fazer": "perguntar o impacto de reprovar", "evidencia_do_gap": "pulou para o preço"}],
    "erro_mais_caro": {"descricao": "Não agendou próximo contato"}
  },
  "avaliacao_lead": {"lead_score_0_100": 65, "classificacao": "B"},
  "extracao": {"concurso_area": "Policial", "dores_principais": ["falta de tempo"], "restricoes": ["orçamento apertado"]},
  "recomendacao_final": {"produto_principal": {"produto": "Assinatura Anual"}}
}`

func newEngine(t *testing.T, c Completer, doc string) *Engine {
	t.Helper()
	classifier, err := eligibility.NewDefault()
	if err != nil {
		t.Fatalf("classifier: %v", err)
	}
	return NewEngine(classifier, c, Options{
		ClassifyMaxTokens:   300,
		ClassifyTemperature: 0.2,
		EvalMaxTokens:       4000,
		EvalTemperature:     0.3,
		ContextDocument:     doc,
	}, nil)
}

// saleDialogue is a marked dialogue of roughly 1200 characters
func saleDialogue() string {
	turns := []string{
		"Vendedor: Boa tarde, aqui é o Marcos da Degrau Cultural, falo com a Juliana?",
		"Cliente: Sim, sou eu. Eu tinha preenchido um formulário sobre o curso para a polícia civil.",
		"Vendedor: Isso mesmo! Me conta, você já está estudando ou vai começar agora?",
		"Cliente: Estudo sozinha faz uns seis meses, mas sinto que não estou rendendo, trabalho o dia todo.",
		"Vendedor: Entendo. E o que acontece se o edital sair e você ainda não tiver fechado o conteúdo?",
		"Cliente: Aí eu perco mais um ano, né. Isso me preocupa bastante.",
		"Vendedor: Nossa assinatura tem cronograma para quem tem pouco tempo, e hoje consigo um desconto na matrícula.",
		"Cliente: Qual seria o valor? Preciso que caiba no orçamento, parcelado se possível.",
		"Vendedor: Fica em doze parcelas sem juros. Posso te mandar a proposta por whatsapp agora mesmo?",
		"Cliente: Pode mandar sim, vou olhar com calma hoje à noite e te dou um retorno amanhã.",
		"Vendedor: Combinado, Juliana. Vou deixar separado o desconto até amanhã no fim do dia.",
		"Cliente: Obrigada, Marcos. Vou conversar com meu marido sobre o investimento e te respondo.",
		"Vendedor: Perfeito. Qualquer dúvida sobre o cronograma ou sobre as aulas ao vivo, me chama por aqui.",
	}
	return strings.Join(turns, "\n")
}

func TestHeuristicVerdictsMakeNoLLMCall(t *testing.T) {
	cases := []struct {
		name string
		text string
		want entities.CallTag
	}{
		{"voicemail", "URA: Você ligou para a Degrau. Deixe sua mensagem após o sinal.", entities.TagURA},
		{"cancellation", "Cliente: quero cancelar minha matrícula e pedir reembolso.", entities.TagCancelamento},
		{"too short for rules", "Alô, bom dia?", entities.TagDadosInsuficientes},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fake := &fakeCompleter{}
			res := newEngine(t, fake, "").Evaluate(context.Background(), tc.text, nil)

			if len(fake.calls) != 0 {
				t.Fatalf("expected zero LLM calls, got %d", len(fake.calls))
			}
			if res.Classification().Tag != tc.want {
				t.Fatalf("expected %s got %s", tc.want, res.Classification().Tag)
			}
			if res.NotaVendedor() != 0 || res.LeadClassificacao() != "D" || res.TokensUsed() != 0 {
				t.Fatalf("unexpected scores on classification-only result")
			}
			var doc map[string]interface{}
			if err := json.Unmarshal([]byte(res.AvaliacaoCompleta()), &doc); err != nil || len(doc) != 3 {
				t.Fatalf("expected 3-field insight, got %s", res.AvaliacaoCompleta())
			}
		})
	}
}

func TestTooShortTranscriptIsInputError(t *testing.T) {
	fake := &fakeCompleter{}
	for _, text := range []string{"", "   ", "Alô? Oi?"} {
		res := newEngine(t, fake, "").Evaluate(context.Background(), text, nil)
		er, ok := res.(*entities.ErrorResult)
		if !ok || er.Kind != entities.ErrorKindInput || res.Classification().Tag != entities.TagErro {
			t.Fatalf("expected input error for %q got %+v", text, res)
		}
	}
	if len(fake.calls) != 0 {
		t.Fatalf("no LLM call expected")
	}
}

func TestHappyPathSale(t *testing.T) {
	fake := &fakeCompleter{replies: []fakeReply{
		{content: obj(t, `{"classificacao":"venda","motivo":"oferta de curso","confianca":0.92,"deve_avaliar":true}`), tokens: 410},
		{content: obj(t, spinJSON), tokens: 2950},
	}}
	text := saleDialogue()
	if eligibility.NormalizedLength(text) < 1000 {
		t.Fatalf("fixture too short: %d", eligibility.NormalizedLength(text))
	}
	extra := map[string]interface{}{"etapa": "Negociação", "agente": "marcos"}

	res := newEngine(t, fake, "RUBRICA DEGRAU SPIN").Evaluate(context.Background(), text, extra)

	sale, ok := res.(*entities.SalesEvaluation)
	if !ok {
		t.Fatalf("expected sales evaluation got %T %+v", res, res)
	}
	if sale.NotaVendedor() != 78 || sale.LeadScore() != 65 || sale.LeadClassificacao() != "B" {
		t.Fatalf("unexpected scores %d %d %s", sale.NotaVendedor(), sale.LeadScore(), sale.LeadClassificacao())
	}
	if sale.ConcursoArea() != "Policial" || sale.ProdutoRecomendado() != "Assinatura Anual" {
		t.Fatalf("unexpected extraction %s / %s", sale.ConcursoArea(), sale.ProdutoRecomendado())
	}
	if sale.TokensUsed() != 410+2950 {
		t.Fatalf("tokens must be summed across calls, got %d", sale.TokensUsed())
	}
	if sale.Aviso != "" {
		t.Fatalf("no warning expected with a context document")
	}

	if len(fake.calls) != 2 {
		t.Fatalf("expected 2 LLM calls got %d", len(fake.calls))
	}
	if fake.calls[0].maxTokens != 300 || fake.calls[0].temperature != 0.2 {
		t.Fatalf("unexpected classification params %+v", fake.calls[0])
	}
	eval := fake.calls[1]
	if eval.maxTokens != 4000 || eval.temperature != 0.3 {
		t.Fatalf("unexpected evaluation params %+v", eval)
	}
	if !strings.HasPrefix(eval.system, "RUBRICA DEGRAU SPIN") || !strings.Contains(eval.system, "nota_final_0_100") {
		t.Fatalf("context document and schema must lead the system prompt")
	}
	if !strings.Contains(eval.user, `"etapa":"Negociação"`) || !strings.Contains(eval.user, "Juliana") {
		t.Fatalf("CRM context and transcript must be sent, got %q", eval.user)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(sale.AvaliacaoCompleta()), &doc); err != nil {
		t.Fatalf("avaliacao_completa is not JSON: %v", err)
	}
	if doc["classificacao_ligacao"] != "venda" || doc["motivo_classificacao"] != "oferta de curso" {
		t.Fatalf("classification not grafted: %v", doc)
	}
	if _, ok := doc["avaliacao_vendedor"]; !ok {
		t.Fatalf("full LLM document must be kept")
	}
}

func TestIVRMislabelIsOverridden(t *testing.T) {
	fake := &fakeCompleter{replies: []fakeReply{
		{content: obj(t, `{"classificacao":"ura","motivo":"mensagem automática","confianca":0.7}`), tokens: 300},
		{content: obj(t, spinJSON), tokens: 1000},
	}}
	text := ivrThenSale()
	if n := eligibility.NormalizedLength(text); n < 255 {
		t.Fatalf("fixture too short: %d", n)
	}

	res := newEngine(t, fake, "").Evaluate(context.Background(), text, nil)

	if len(fake.calls) != 2 {
		t.Fatalf("override must let Stage B run, got %d calls", len(fake.calls))
	}
	sale, ok := res.(*entities.SalesEvaluation)
	if !ok {
		t.Fatalf("expected sales evaluation got %T", res)
	}
	if sale.Classification().Tag != entities.TagVenda || sale.Classification().Motivo != MotivoReclassified {
		t.Fatalf("unexpected classification %+v", sale.Classification())
	}
	if sale.Aviso != AvisoGenericPrompt || !strings.Contains(fake.calls[1].system, "SPIN Selling") {
		t.Fatalf("generic prompt must be used without a context document")
	}
	if sale.TokensUsed() != 1300 {
		t.Fatalf("expected 1300 tokens got %d", sale.TokensUsed())
	}
}

func TestIVRMislabelWithoutSalesIntentBecomesOutros(t *testing.T) {
	fake := &fakeCompleter{replies: []fakeReply{
		{content: obj(t, `{"classificacao":"ura","confianca":0.6}`), tokens: 200},
	}}
	text := "URA: Olá, você ligou para a Degrau, aguarde. " +
		strings.Repeat("Vendedor: Oi, tudo bem com você hoje? Cliente: Tudo certo, e com você? ", 5)

	res := newEngine(t, fake, "").Evaluate(context.Background(), text, nil)
	if len(fake.calls) != 1 {
		t.Fatalf("Stage B must not run for outros")
	}
	if res.Classification().Tag != entities.TagOutros || res.NotaVendedor() != 0 {
		t.Fatalf("expected outros without scores, got %+v", res.Classification())
	}
}

func TestClassificationDefaultsAndUnknownTag(t *testing.T) {
	fake := &fakeCompleter{replies: []fakeReply{
		{content: obj(t, `{"classificacao":"spam"}`), tokens: 120},
	}}
	res := newEngine(t, fake, "").Evaluate(context.Background(), saleDialogue(), nil)

	c := res.Classification()
	if c.Tag != entities.TagOutros || c.Motivo != "Não informado" || c.Confianca != 0.5 {
		t.Fatalf("unexpected defaults %+v", c)
	}
	if len(fake.calls) != 1 || res.TokensUsed() != 120 {
		t.Fatalf("unknown tag must not reach Stage B")
	}
}

func TestSaleWithoutDialogueSkipsStageB(t *testing.T) {
	fake := &fakeCompleter{replies: []fakeReply{
		{content: obj(t, `{"classificacao":"venda","motivo":"oferta"}`), tokens: 90},
	}}
	// long enough for the LLM, but without speaker markers
	text := strings.Repeat("oi tudo bem eu queria saber sobre o curso de concursos ", 3)

	res := newEngine(t, fake, "").Evaluate(context.Background(), text, nil)
	if len(fake.calls) != 1 {
		t.Fatalf("Stage B must never run without a marked dialogue, got %d calls", len(fake.calls))
	}
	only, ok := res.(*entities.ClassificationOnly)
	if !ok || res.NotaVendedor() != 0 {
		t.Fatalf("expected classification only got %T", res)
	}
	if only.Class.Tag != entities.TagOutros || only.Class.Motivo != MotivoSaleWithoutDialog {
		t.Fatalf("unscored result must not be tagged venda, got %+v", only.Class)
	}
	if strings.Contains(res.AvaliacaoCompleta(), `"venda"`) {
		t.Fatalf("persisted insight still says venda: %s", res.AvaliacaoCompleta())
	}
}

// ivrThenSale is a recorded greeting followed by a marked sales conversation
func ivrThenSale() string {
	return "URA: Olá, você ligou para a Degrau. Para falar com um consultor, digite a opção 1. " +
		"Vendedor: Oi Pedro, tudo bem? Aqui é a Ana, vi que você se interessou pelo curso de tribunais. " +
		"Cliente: Oi Ana, tudo sim. Queria entender como funciona, estou começando agora. " +
		"Vendedor: Perfeito, o curso tem videoaulas, questões comentadas e um cronograma semanal. " +
		"Cliente: E dá para estudar pelo celular? Eu passo muito tempo no ônibus indo trabalhar. " +
		"Vendedor: Dá sim, tem aplicativo com download das aulas para assistir sem internet."
}

func TestIVRPreambleSaleIsEvaluatedWhateverTheModelSays(t *testing.T) {
	for _, label := range []string{"ura", "venda"} {
		t.Run(label, func(t *testing.T) {
			fake := &fakeCompleter{replies: []fakeReply{
				{content: obj(t, `{"classificacao":"`+label+`","confianca":0.7}`), tokens: 300},
				{content: obj(t, spinJSON), tokens: 1000},
			}}
			e := newEngine(t, fake, "")
			if e.classifier.IsEvaluable(ivrThenSale()) {
				t.Fatalf("fixture must carry an IVR hit")
			}

			res := e.Evaluate(context.Background(), ivrThenSale(), nil)

			if len(fake.calls) != 2 {
				t.Fatalf("expected Stage B to run, got %d calls", len(fake.calls))
			}
			sale, ok := res.(*entities.SalesEvaluation)
			if !ok {
				t.Fatalf("expected sales evaluation got %T", res)
			}
			if sale.Classification().Tag != entities.TagVenda || sale.NotaVendedor() != 78 {
				t.Fatalf("unexpected result tag=%s nota=%d", sale.Classification().Tag, sale.NotaVendedor())
			}
		})
	}
}

func TestNonJSONClassificationIsErrorResult(t *testing.T) {
	fake := &fakeCompleter{replies: []fakeReply{
		{err: &llm.Error{Kind: llm.KindSchema, Err: errors.New("failed to parse JSON response"), Tokens: 40}},
	}}
	res := newEngine(t, fake, "").Evaluate(context.Background(), saleDialogue(), nil)

	er, ok := res.(*entities.ErrorResult)
	if !ok || er.Kind != entities.ErrorKindSchema {
		t.Fatalf("expected schema error got %+v", res)
	}
	if er.TokensUsed() != 40 || res.Classification().Tag != entities.TagErro {
		t.Fatalf("unexpected error result %+v", er)
	}
}

func TestProviderFailureDuringEvaluation(t *testing.T) {
	fake := &fakeCompleter{replies: []fakeReply{
		{content: obj(t, `{"classificacao":"venda"}`), tokens: 100},
		{err: &llm.Error{Kind: llm.KindProvider, Err: errors.New("status 503")}},
	}}
	res := newEngine(t, fake, "").Evaluate(context.Background(), saleDialogue(), nil)

	er, ok := res.(*entities.ErrorResult)
	if !ok || er.Kind != entities.ErrorKindProvider || er.TokensUsed() != 100 {
		t.Fatalf("expected provider error keeping Stage A tokens, got %+v", res)
	}
}

func TestSpinWithoutRequiredFieldsFallsBack(t *testing.T) {
	fake := &fakeCompleter{replies: []fakeReply{
		{content: obj(t, `{"classificacao":"venda","confianca":0.8}`), tokens: 100},
		{content: obj(t, `{"avaliacao_lead":{"classificacao":"A"}}`), tokens: 500},
	}}
	res := newEngine(t, fake, "").Evaluate(context.Background(), saleDialogue(), nil)

	only, ok := res.(*entities.ClassificationOnly)
	if !ok {
		t.Fatalf("expected classification-only fallback got %T", res)
	}
	if only.Class.Tag != entities.TagOutros || only.Class.Motivo != MotivoSpinFieldsMissing {
		t.Fatalf("unexpected fallback %+v", only.Class)
	}
	if only.TokensUsed() != 600 || only.LeadClassificacao() != "D" {
		t.Fatalf("unexpected fallback values")
	}
}

func TestStringScoresAreAccepted(t *testing.T) {
	doc := obj(t, `{"avaliacao_vendedor":{"nota_final_0_100":"82/100"},"avaliacao_lead":{"lead_score_0_100":"abc"}}`)
	spin, err := parseSpinEvaluation(doc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if entities.ClampScore(spin.AvaliacaoVendedor.NotaFinal) != 82 || spin.AvaliacaoLead.LeadScore != nil {
		t.Fatalf("unexpected scores %+v", spin)
	}
}

func TestMissingAPIKeyShortCircuits(t *testing.T) {
	e := newEngine(t, nil, "")

	res := e.Evaluate(context.Background(), saleDialogue(), nil)
	er, ok := res.(*entities.ErrorResult)
	if !ok || er.Kind != entities.ErrorKindConfiguration || er.Motivo != MotivoMissingAPIKey {
		t.Fatalf("expected configuration error got %+v", res)
	}

	// heuristics keep working
	res = e.Evaluate(context.Background(), "URA: Você ligou para a Degrau. Deixe sua mensagem após o sinal.", nil)
	if res.Classification().Tag != entities.TagURA {
		t.Fatalf("expected ura without an API key, got %s", res.Classification().Tag)
	}
}
