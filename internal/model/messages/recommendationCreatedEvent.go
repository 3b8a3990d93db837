package messages

import "time"

// RecommendationCreatedEvent is published by the recommendation service after a scoring request is stored.
type RecommendationCreatedEvent struct {
	RecommendationID string    `json:"recommendation_id"`
	UserID           string    `json:"user_id"`
	Region           string    `json:"region"` // "" when the location did not resolve
	Path             string    `json:"path"`   // rules | fallback
	TopCrop          string    `json:"top_crop"`
	TopConfidence    float64   `json:"top_confidence"`
	Crops            int       `json:"crops"`
	Timestamp        time.Time `json:"timestamp"`
}
