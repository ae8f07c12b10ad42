package entities

// CallTag is the classification of a call
type CallTag string

const (
	TagURA                CallTag = "ura"
	TagDialogoIncompleto  CallTag = "dialogo_incompleto"
	TagDadosInsuficientes CallTag = "dados_insuficientes"
	TagCancelamento       CallTag = "cancelamento"
	TagSuporte            CallTag = "suporte"
	TagLigacaoInterna     CallTag = "ligacao_interna"
	TagChamadaErrada      CallTag = "chamada_errada"
	TagVenda              CallTag = "venda"
	TagOutros             CallTag = "outros"

	// TagErro marks a failed evaluation; never produced by a classifier
	TagErro CallTag = "erro"
)

// CallTags is the closed vocabulary accepted from classifiers, in prompt order
var CallTags = []CallTag{
	TagVenda,
	TagURA,
	TagDialogoIncompleto,
	TagDadosInsuficientes,
	TagCancelamento,
	TagSuporte,
	TagLigacaoInterna,
	TagChamadaErrada,
	TagOutros,
}

// IsValid reports whether the tag belongs to the closed vocabulary
func (t CallTag) IsValid() bool {
	for _, tag := range CallTags {
		if t == tag {
			return true
		}
	}
	return false
}

func (t CallTag) String() string {
	return string(t)
}
