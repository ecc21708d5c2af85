package domain

// ComboRecommendation is one qualifying item pair with its association
// statistics and the suggested bundle pricing.
type ComboRecommendation struct {
	ItemA               string  `json:"item_a"`
	ItemB               string  `json:"item_b"`
	Support             float64 `json:"support"`
	ConfidenceAToB      float64 `json:"confidence_a_to_b"`
	ConfidenceBToA      float64 `json:"confidence_b_to_a"`
	Lift                float64 `json:"lift"`
	BasketCount         int     `json:"basket_count"`
	AvgComboRevenue     float64 `json:"avg_combo_revenue"`
	PriceA              float64 `json:"price_a"`
	PriceB              float64 `json:"price_b"`
	IndividualTotal     float64 `json:"individual_total"`
	SuggestedComboPrice float64 `json:"suggested_combo_price"`
	Savings             float64 `json:"savings"`
}

// ComboResult is the full response of the basket-association engine.
type ComboResult struct {
	Branch           string                `json:"branch"`
	TotalBaskets     int                   `json:"total_baskets"`
	IncludeModifiers bool                  `json:"include_modifiers"`
	Recommendations  []ComboRecommendation `json:"recommendations"`
	Explanation      string                `json:"explanation"`
}

// MLComboRecommendation is one item pair ranked by the cosine-similarity
// variant, with its similarity and training-set support.
type MLComboRecommendation struct {
	ItemA      string  `json:"item_a"`
	ItemB      string  `json:"item_b"`
	Similarity float64 `json:"similarity"`
	Support    float64 `json:"support"`
}

// ComboComparison runs both combo engines side by side. MLPrecisionAtK is
// nil when held-out evaluation is undefined (no candidates or no true test
// pairs).
type ComboComparison struct {
	Branch               string                  `json:"branch"`
	ModelName            string                  `json:"model_name"`
	NonAIAnswerLine      string                  `json:"non_ai_answer_line"`
	MLAnswerLine         string                  `json:"ml_answer_line"`
	NonAIRecommendations []ComboRecommendation   `json:"non_ai_recommendations"`
	MLRecommendations    []MLComboRecommendation `json:"ml_recommendations"`
	MLPrecisionAtK       *float64                `json:"ml_precision_at_k"`
	Explanation          string                  `json:"explanation"`
}
