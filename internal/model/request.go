package model

// Answers maps a question ID to the option codes the user selected.
type Answers map[string][]string

// Profile is optional requester context passed through to the reasoning
// service unmodified.
type Profile struct {
	Age         *int   `json:"age,omitempty"`
	Gender      string `json:"gender,omitempty"`
	DailyAmount *int   `json:"dailyAmount,omitempty"`
}

// RecommendationSource records which path produced a recommendation.
type RecommendationSource string

const (
	SourceAI       RecommendationSource = "ai"
	SourceFallback RecommendationSource = "fallback"
)
