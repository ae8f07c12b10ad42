package entities

// EligibilityVerdict is the outcome of the deterministic pre-classification
type EligibilityVerdict struct {
	Tag       CallTag `json:"tag"`
	Avaliavel bool    `json:"avaliavel"`
	Motivo    string  `json:"motivo"`
	Confianca float64 `json:"confianca"`
}
