package eligibility

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/johnquangdev/call-insight/internal/domain/entities"
)

//go:embed lexicon_pt_br.yaml
var defaultLexicon []byte

// Lexicon is the localisation table driving the classifier: named term
// lists plus an ordered rule table.
type Lexicon struct {
	Locale             string              `yaml:"locale"`
	SellerMarkers      []string            `yaml:"seller_markers"`
	ClientMarkers      []string            `yaml:"client_markers"`
	EvaluableMinLength int                 `yaml:"evaluable_min_length"`
	IVRLexicon         string              `yaml:"ivr_lexicon"`
	SalesIntentLexicon string              `yaml:"sales_intent_lexicon"`
	Lexicons           map[string][]string `yaml:"lexicons"`
	Rules              []Rule              `yaml:"rules"`
}

// Rule fires when every condition it declares holds
type Rule struct {
	Tag        entities.CallTag `yaml:"tag"`
	Motivo     string           `yaml:"motivo"`
	Confidence float64          `yaml:"confidence"`
	// MaxLength fires on normalised length strictly below the value
	MaxLength int `yaml:"max_length"`
	// Match names a lexicon that must have at least one hit
	Match                 string `yaml:"match"`
	WithoutSpeakerMarkers bool   `yaml:"without_speaker_markers"`
	WithoutSalesIntent    bool   `yaml:"without_sales_intent"`
}

// DefaultLexicon returns the embedded pt-BR table
func DefaultLexicon() (*Lexicon, error) {
	return ParseLexicon(defaultLexicon)
}

// LoadLexicon reads a table from path, or the embedded one when path is empty
func LoadLexicon(path string) (*Lexicon, error) {
	if path == "" {
		return DefaultLexicon()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon %s: %w", path, err)
	}
	return ParseLexicon(data)
}

// ParseLexicon decodes and validates a YAML table
func ParseLexicon(data []byte) (*Lexicon, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon: %w", err)
	}
	if err := lex.Validate(); err != nil {
		return nil, err
	}
	return &lex, nil
}

// Validate checks that the rule table is usable
func (l *Lexicon) Validate() error {
	if len(l.SellerMarkers) == 0 || len(l.ClientMarkers) == 0 {
		return fmt.Errorf("lexicon %s: seller and client markers are required", l.Locale)
	}
	if l.EvaluableMinLength <= 0 {
		return fmt.Errorf("lexicon %s: evaluable_min_length must be positive", l.Locale)
	}
	if _, ok := l.Lexicons[l.IVRLexicon]; !ok {
		return fmt.Errorf("lexicon %s: ivr_lexicon %q is not defined", l.Locale, l.IVRLexicon)
	}
	if _, ok := l.Lexicons[l.SalesIntentLexicon]; !ok {
		return fmt.Errorf("lexicon %s: sales_intent_lexicon %q is not defined", l.Locale, l.SalesIntentLexicon)
	}
	if len(l.Rules) == 0 {
		return fmt.Errorf("lexicon %s: no rules", l.Locale)
	}
	for i, r := range l.Rules {
		if !r.Tag.IsValid() {
			return fmt.Errorf("lexicon %s: rule %d has unknown tag %q", l.Locale, i, r.Tag)
		}
		if r.Confidence < 0 || r.Confidence > 1 {
			return fmt.Errorf("lexicon %s: rule %d confidence %v out of [0,1]", l.Locale, i, r.Confidence)
		}
		if r.Match != "" {
			if _, ok := l.Lexicons[r.Match]; !ok {
				return fmt.Errorf("lexicon %s: rule %d matches undefined lexicon %q", l.Locale, i, r.Match)
			}
		}
		if r.MaxLength <= 0 && r.Match == "" {
			return fmt.Errorf("lexicon %s: rule %d has no length or lexicon condition", l.Locale, i)
		}
	}
	return nil
}
