package domain

import "time"

// Plan is a subscription price point offered by a gym: a name, a duration
// in months and a price in cents.
type Plan struct {
	ID             string
	AdminID        string
	Name           string
	DurationMonths int
	PriceCents     int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
