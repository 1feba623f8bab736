package dto

// ScoreRulesResponse maps action tags to their base score deltas.
type ScoreRulesResponse struct {
	Rules map[string]float64 `json:"rules"`
}

// ScoreRulesUpdateRequest replaces the stored score rules.
type ScoreRulesUpdateRequest struct {
	Rules map[string]float64 `json:"rules" validate:"required,min=1"`
}

// ProbabilityResponse reports the bonus probability as a decimal string.
type ProbabilityResponse struct {
	Probability string `json:"probability"`
}

// ProbabilityUpdateRequest replaces the bonus probability.
type ProbabilityUpdateRequest struct {
	Probability *float64 `json:"probability" validate:"required,gte=0,lte=1"`
}
