package events

import "time"

const PaymentBatchCreatedTopic = "treasury.payment.batch.created.v1"

type PaymentBatchCreatedEvent struct {
	EventType      string    `json:"event_type"`
	BatchID        string    `json:"batch_id"`
	OrganizationID string    `json:"organization_id"`
	PaymentMethod  string    `json:"payment_method"`
	Reference      string    `json:"reference"`
	LineCount      int       `json:"line_count"`
	TotalAmount    string    `json:"total_amount"`
	OccurredAt     time.Time `json:"occurred_at"`
}
