// internal/domain/models/batch.go
package models

// Batch is a screening / examination sitting that attendance is taken for.
type Batch struct {
	ID       ID     `json:"id"`
	Name     string `json:"name"`
	Date     string `json:"date,omitempty"`
	IsActive Flag   `json:"is_active"`
}
