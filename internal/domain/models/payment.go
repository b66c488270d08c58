// internal/domain/models/payment.go
package models

// Payment statuses reported by the admissions API.
const (
	PaymentPending    = "pending"
	PaymentSuccessful = "successful"
	PaymentFailed     = "failed"
)

// Payment is one fee payment (application form, acceptance, screening).
// Amount stays numeric here; it is formatted only when a page is rendered.
type Payment struct {
	ID                ID     `json:"id"`
	Reference         string `json:"reference"`
	PayerName         string `json:"payer_name"`
	ApplicationNumber string `json:"application_number"`
	PaymentType       string `json:"payment_type"`
	Amount            Amount `json:"amount"`
	Currency          string `json:"currency,omitempty"`
	Status            string `json:"status"`
	PaidAt            string `json:"paid_at,omitempty"`
}
