package models

// IngestRequest is the payload for submitting a listing URL for extraction
type IngestRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// SubmissionRequest captures an operator's form payload against a payment
// session before the payment is confirmed.
type SubmissionRequest struct {
	PaymentSessionID string              `json:"payment_session_id" validate:"required"`
	Payload          *ExtractedJobRecord `json:"payload" validate:"required"`
}

// PaymentEvent is the payment-confirmed webhook delivery. The processor
// guarantees at-least-once delivery, so the same event may arrive more than
// once. The payload is optional; when absent the pending submission captured
// earlier under the same session id is used.
type PaymentEvent struct {
	PaymentSessionID string              `json:"payment_session_id" validate:"required"`
	EventType        string              `json:"event_type,omitempty"`
	Payload          *ExtractedJobRecord `json:"payload,omitempty"`
}
