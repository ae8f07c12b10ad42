package eligibility

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/johnquangdev/call-insight/internal/domain/entities"
)

func newClassifier(t *testing.T) *Classifier {
	t.Helper()
	c, err := NewDefault()
	if err != nil {
		t.Fatalf("default classifier: %v", err)
	}
	return c
}

// salesDialogue builds a marked dialogue of at least n characters
func salesDialogue(n int) string {
	var b strings.Builder
	b.WriteString("Vendedor: Bom dia, aqui é a Carla da Degrau, tudo bem? ")
	b.WriteString("Cliente: Tudo sim, estou estudando para o concurso da polícia. ")
	for b.Len() < n {
		b.WriteString("Vendedor: Posso te mandar uma proposta com desconto na matrícula? ")
		b.WriteString("Cliente: Pode sim, quero entender a parcela do curso. ")
	}
	return b.String()
}

func TestClassifyRules(t *testing.T) {
	c := newClassifier(t)

	cases := []struct {
		name string
		text string
		want entities.CallTag
		conf float64
	}{
		{"empty", "", entities.TagDadosInsuficientes, 0.95},
		{"too short", "Alô? Oi?", entities.TagDadosInsuficientes, 0.95},
		{"whitespace padding does not count", "   Alô?      \n\n   Oi?    ", entities.TagDadosInsuficientes, 0.95},
		{"cancellation", "Cliente: quero cancelar minha matrícula e pedir reembolso.", entities.TagCancelamento, 0.9},
		{"voicemail", "URA: Você ligou para a Degrau. Deixe sua mensagem após o sinal.", entities.TagURA, 0.9},
		{"voicemail without accents", "URA: voce ligou para a Degrau. Deixe sua mensagem apos o sinal.", entities.TagURA, 0.9},
		{"busy without sales intent", "Vendedor: Oi, tudo bem? Cliente: Estou ocupado agora, pode ligar mais tarde por favor? Obrigado.", entities.TagDialogoIncompleto, 0.8},
		{"short dialogue", "Vendedor: Bom dia, falo com a Ana? Cliente: Sim, sou eu.", entities.TagDialogoIncompleto, 0.7},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := c.Classify(tc.text)
			if v == nil {
				t.Fatalf("expected verdict %s got nil", tc.want)
			}
			if v.Tag != tc.want || v.Confianca != tc.conf {
				t.Fatalf("expected %s/%.2f got %s/%.2f", tc.want, tc.conf, v.Tag, v.Confianca)
			}
			if v.Avaliavel {
				t.Fatalf("heuristic verdicts are never evaluable")
			}
			if v.Motivo == "" {
				t.Fatalf("expected a motivo")
			}
		})
	}
}

func TestClassifyIVRWithMarkersGoesToLLM(t *testing.T) {
	c := newClassifier(t)
	text := "URA: Deixe sua mensagem após o sinal. " + salesDialogue(400)
	if v := c.Classify(text); v != nil {
		t.Fatalf("marked dialogue after an IVR preamble must reach the LLM, got %+v", v)
	}
}

func TestClassifyBusyWithSalesIntentFallsThrough(t *testing.T) {
	c := newClassifier(t)
	text := "Vendedor: Oi! Cliente: estou ocupado, mas me manda a proposta com desconto da matrícula por whatsapp que eu vejo depois, obrigado pela atenção."
	if v := c.Classify(text); v != nil {
		t.Fatalf("sales intent should veto the busy rule, got %+v", v)
	}
}

func TestClassifyLongSaleReturnsNil(t *testing.T) {
	c := newClassifier(t)
	if v := c.Classify(salesDialogue(1200)); v != nil {
		t.Fatalf("expected nil for a real sales dialogue got %+v", v)
	}
}

func TestShortTextsAlwaysInsufficient(t *testing.T) {
	c := newClassifier(t)
	// even lexicon hits lose to the length rule
	for _, text := range []string{"reembolso", "caixa postal", "a b c d e f g", "cancelamento!"} {
		if NormalizedLength(text) >= 15 {
			t.Fatalf("fixture %q is not short", text)
		}
		if v := c.Classify(text); v == nil || v.Tag != entities.TagDadosInsuficientes {
			t.Fatalf("expected dados_insuficientes for %q got %+v", text, v)
		}
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	c := newClassifier(t)
	text := "URA: Você ligou para a Degrau. Deixe sua mensagem após o sinal."
	first := c.Classify(text)
	for i := 0; i < 10; i++ {
		if got := c.Classify(text); *got != *first {
			t.Fatalf("classification changed between calls: %+v vs %+v", first, got)
		}
	}
}

func TestIsEvaluable(t *testing.T) {
	c := newClassifier(t)

	if !c.IsEvaluable(salesDialogue(400)) {
		t.Fatalf("long marked dialogue should be evaluable")
	}
	if c.IsEvaluable("Vendedor: oi. Cliente: oi.") {
		t.Fatalf("short dialogue should not be evaluable")
	}
	if c.IsEvaluable(strings.Repeat("Vendedor: fala comigo sobre o curso. ", 20)) {
		t.Fatalf("a single speaker should not be evaluable")
	}
	if c.IsEvaluable("URA: grave seu recado. " + salesDialogue(400)) {
		t.Fatalf("an IVR hit should not be evaluable")
	}

	base := "Vendedor: oi. Cliente: oi. "
	exact := base + strings.Repeat("x", 255-len(base))
	if NormalizedLength(exact) != 255 {
		t.Fatalf("fixture has length %d", NormalizedLength(exact))
	}
	if c.IsEvaluable(exact) {
		t.Fatalf("length must be strictly greater than 255")
	}
	if !c.IsEvaluable(exact + "x") {
		t.Fatalf("256 characters with both speakers should be evaluable")
	}
}

func TestMarkerHelpers(t *testing.T) {
	c := newClassifier(t)
	long := strings.Repeat("x", 260)
	if !c.HasDialogueStructure("VENDEDOR: oi\nCLIENTE: oi " + long) {
		t.Fatalf("markers should match case-insensitively")
	}
	if c.HasDialogueStructure("Vendedor: oi " + long) {
		t.Fatalf("one marker is not enough")
	}
	if c.HasDialogueStructure("Vendedor: oi Cliente: oi") {
		t.Fatalf("short dialogue has no structure")
	}
	ivr := "Deixe sua mensagem após o sinal. Vendedor: oi Cliente: oi " + long
	if c.IsEvaluable(ivr) || !c.HasDialogueStructure(ivr) {
		t.Fatalf("IVR hit must only affect IsEvaluable")
	}
	if !c.HasSalesIntent("tenho interesse no Curso") || c.HasSalesIntent("bom dia") {
		t.Fatalf("unexpected sales intent detection")
	}
}

func TestLengthHelpers(t *testing.T) {
	if got := NormalizedLength("  a   b\n\tc  "); got != 5 {
		t.Fatalf("expected 5 got %d", got)
	}
	if got := NonSpaceLength(" a b \n c "); got != 3 {
		t.Fatalf("expected 3 got %d", got)
	}
	if got := NormalizedLength("Alô? Oi?"); got != 8 {
		t.Fatalf("accented runes count once, got %d", got)
	}
}

func TestLoadLexiconFromFile(t *testing.T) {
	yml := `
locale: en-US
seller_markers: ["agent:"]
client_markers: ["customer:"]
evaluable_min_length: 100
ivr_lexicon: voicemail
sales_intent_lexicon: intent
lexicons:
  voicemail: ["leave a message", "after the tone"]
  intent: ["discount", "enroll"]
rules:
  - tag: dados_insuficientes
    motivo: too short
    confidence: 0.95
    max_length: 15
  - tag: ura
    motivo: voicemail
    confidence: 0.9
    match: voicemail
    without_speaker_markers: true
`
	path := filepath.Join(t.TempDir(), "en.yaml")
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	lex, err := LoadLexicon(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	c, err := New(lex)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if c.Locale() != "en-US" {
		t.Fatalf("unexpected locale %s", c.Locale())
	}
	v := c.Classify("Hi, you reached Degrau. Please leave a message after the tone.")
	if v == nil || v.Tag != entities.TagURA {
		t.Fatalf("expected ura from the en-US table got %+v", v)
	}
}

func TestLexiconValidation(t *testing.T) {
	bad := []string{
		"locale: x\nrules: []",
		`locale: x
seller_markers: ["a:"]
client_markers: ["b:"]
evaluable_min_length: 10
ivr_lexicon: ivr
sales_intent_lexicon: ivr
lexicons: {ivr: ["x"]}
rules:
  - tag: spam
    confidence: 0.5
    max_length: 10`,
		`locale: x
seller_markers: ["a:"]
client_markers: ["b:"]
evaluable_min_length: 10
ivr_lexicon: ivr
sales_intent_lexicon: ivr
lexicons: {ivr: ["x"]}
rules:
  - tag: ura
    confidence: 0.5
    match: missing`,
	}
	for i, y := range bad {
		if _, err := ParseLexicon([]byte(y)); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}
