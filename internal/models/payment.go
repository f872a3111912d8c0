package models

import "time"

type PaymentStatus string

// Only successful payments count towards revenue.
const PaymentStatusSuccessful PaymentStatus = "SUCCESSFUL"

type Payment struct {
	ID        string        `json:"id"`
	Amount    float64       `json:"amount"`
	Status    PaymentStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

func (p *Payment) IsSuccessful() bool {
	return p.Status == PaymentStatusSuccessful
}
