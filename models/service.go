package models

// Service is a bookable offering of a provider.
type Service struct {
	ID              string  `bson:"id" json:"id"`
	ProviderID      string  `bson:"provider_id" json:"providerId"`
	Name            string  `bson:"name" json:"name"`
	BasePrice       float64 `bson:"base_price" json:"basePrice"`
	Currency        string  `bson:"currency" json:"currency"`
	DurationMinutes int     `bson:"duration_minutes" json:"durationMinutes"`
	MaxCapacity     int     `bson:"max_capacity" json:"maxCapacity"`
	IsActive        bool    `bson:"is_active" json:"isActive"`
}
