// Package eligibility rejects transcripts that are obviously not worth an
// LLM call. Classification is a pure function of the text and the lexicon.
package eligibility

import (
	"github.com/johnquangdev/call-insight/internal/domain/entities"
)

// Classifier applies a compiled Lexicon. It is immutable and safe for
// concurrent use.
type Classifier struct {
	locale        string
	sellerMarkers []string
	clientMarkers []string
	ivr           []string
	salesIntent   []string
	minEvaluable  int
	rules         []compiledRule
}

type compiledRule struct {
	Rule
	terms []string
}

// New compiles a lexicon into a classifier
func New(lex *Lexicon) (*Classifier, error) {
	if err := lex.Validate(); err != nil {
		return nil, err
	}

	c := &Classifier{
		locale:        lex.Locale,
		sellerMarkers: foldAll(lex.SellerMarkers),
		clientMarkers: foldAll(lex.ClientMarkers),
		ivr:           foldAll(lex.Lexicons[lex.IVRLexicon]),
		salesIntent:   foldAll(lex.Lexicons[lex.SalesIntentLexicon]),
		minEvaluable:  lex.EvaluableMinLength,
	}
	for _, r := range lex.Rules {
		cr := compiledRule{Rule: r}
		if r.Match != "" {
			cr.terms = foldAll(lex.Lexicons[r.Match])
		}
		c.rules = append(c.rules, cr)
	}
	return c, nil
}

// NewDefault returns a classifier over the embedded pt-BR lexicon
func NewDefault() (*Classifier, error) {
	lex, err := DefaultLexicon()
	if err != nil {
		return nil, err
	}
	return New(lex)
}

// Locale returns the locale of the loaded lexicon
func (c *Classifier) Locale() string {
	return c.locale
}

// Classify returns the verdict of the first rule that fires, or nil when the
// transcript must be classified by the LLM.
func (c *Classifier) Classify(text string) *entities.EligibilityVerdict {
	length := NormalizedLength(text)
	folded := fold(text)

	for _, r := range c.rules {
		if !c.fires(r, length, folded) {
			continue
		}
		return &entities.EligibilityVerdict{
			Tag:       r.Tag,
			Avaliavel: r.Tag == entities.TagVenda,
			Motivo:    r.Motivo,
			Confianca: r.Confidence,
		}
	}
	return nil
}

func (c *Classifier) fires(r compiledRule, length int, folded string) bool {
	if r.MaxLength > 0 && length >= r.MaxLength {
		return false
	}
	if r.Match != "" && !containsAny(folded, r.terms) {
		return false
	}
	if r.WithoutSpeakerMarkers && c.hasBothMarkers(folded) {
		return false
	}
	if r.WithoutSalesIntent && containsAny(folded, c.salesIntent) {
		return false
	}
	return true
}

// IsEvaluable is the coarse gate behind the "avaliável" badge: long enough,
// both speakers present and no IVR hit.
func (c *Classifier) IsEvaluable(text string) bool {
	if NormalizedLength(text) <= c.minEvaluable {
		return false
	}
	folded := fold(text)
	return c.hasBothMarkers(folded) && !containsAny(folded, c.ivr)
}

// HasDialogueStructure reports whether both speakers are marked and the
// normalised text reaches the evaluable length. Unlike IsEvaluable it ignores
// IVR hits, so a recorded greeting ahead of a real conversation still counts.
func (c *Classifier) HasDialogueStructure(text string) bool {
	return NormalizedLength(text) >= c.minEvaluable && c.hasBothMarkers(fold(text))
}

// HasSalesIntent reports whether any sales-intent marker occurs
func (c *Classifier) HasSalesIntent(text string) bool {
	return containsAny(fold(text), c.salesIntent)
}

func (c *Classifier) hasBothMarkers(folded string) bool {
	return containsAny(folded, c.sellerMarkers) && containsAny(folded, c.clientMarkers)
}
