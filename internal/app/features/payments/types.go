// internal/app/features/payments/types.go
package payments

import (
	"github.com/dalemusser/nursinghub/internal/app/features/shared/views"
	"github.com/dalemusser/nursinghub/internal/app/system/listctl"
	"github.com/dalemusser/nursinghub/internal/app/system/money"
	"github.com/dalemusser/nursinghub/internal/app/system/viewdata"
	"github.com/dalemusser/nursinghub/internal/domain/models"
)

var statuses = []string{models.PaymentPending, models.PaymentSuccessful, models.PaymentFailed}

func validStatus(s string) bool {
	for _, v := range statuses {
		if v == s {
			return true
		}
	}
	return false
}

// paymentRow is a payment with its amount formatted for display.
type paymentRow struct {
	models.Payment
	AmountText string
	Receipt    bool // receipts exist only for successful payments
}

type listData struct {
	viewdata.BaseVM

	Q        string
	Status   string
	Statuses []string

	List  listctl.State[models.Payment]
	Rows  []paymentRow
	Pager views.PagerVM

	OwnOnly bool
}

func rowsFrom(items []models.Payment) []paymentRow {
	rows := make([]paymentRow, 0, len(items))
	for _, p := range items {
		rows = append(rows, paymentRow{
			Payment:    p,
			AmountText: money.Naira(p.Amount),
			Receipt:    p.Status == models.PaymentSuccessful,
		})
	}
	return rows
}
