package domain

import "time"

// Payment records money received for a member's subscription renewal.
type Payment struct {
	ID          string
	AdminID     string
	MemberID    string
	PlanID      string
	AmountCents int64
	PaidAt      time.Time
	CreatedAt   time.Time
}

// MonthlyRevenue is one row of the yearly revenue report.
type MonthlyRevenue struct {
	Month      int   `json:"month"`
	TotalCents int64 `json:"total_cents"`
	Payments   int   `json:"payments"`
}
