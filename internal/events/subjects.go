package events

// Subjects follow "ecoselect.<entity>.<action>".
const (
	SubjectRecommendServed = "ecoselect.recommend.served"
	SubjectMaterialViewed  = "ecoselect.material.viewed"
)

// RecommendServedEvent records one answered recommendation request.
type RecommendServedEvent struct {
	Category        string   `json:"category,omitempty"`
	RequiredMetrics []string `json:"required_metrics"`
	Count           int      `json:"count"`
}

// MaterialViewedEvent records one material detail lookup.
type MaterialViewedEvent struct {
	MaterialID int64 `json:"material_id"`
}
