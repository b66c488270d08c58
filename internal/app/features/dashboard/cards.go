// internal/app/features/dashboard/cards.go
package dashboard

import (
	"net/url"

	"github.com/dalemusser/nursinghub/internal/domain/models"
)

// summary is one count shown on the dashboard, read from the total of a
// one-row list request.
type summary struct {
	Label string
	Path  string
	Query url.Values
	Href  string
}

// summariesFor lists the cards for role, in display order.
func summariesFor(role string) []summary {
	halls := summary{"Active halls", "/halls", url.Values{"is_active": {"1"}}, "/halls?is_active=1"}
	unverified := summary{"Certificates awaiting verification", "/certificates", url.Values{"is_verified": {"0"}}, "/certificates?is_verified=0"}
	pending := summary{"Pending payments", "/payments", url.Values{"status": {models.PaymentPending}}, "/payments?status=pending"}

	switch role {
	case models.RoleAdmin:
		return []summary{
			halls,
			unverified,
			pending,
			{"Successful payments", "/payments", url.Values{"status": {models.PaymentSuccessful}}, "/payments?status=successful"},
		}
	case models.RoleStaff:
		return []summary{halls, {"Certificates", "/certificates", nil, "/certificates"}}
	case models.RoleVerification:
		return []summary{unverified, {"Verified certificates", "/certificates", url.Values{"is_verified": {"1"}}, "/certificates?is_verified=1"}}
	case models.RoleStudent:
		return []summary{
			{"My certificates", "/certificates", nil, "/certificates"},
			{"My pending payments", "/payments", url.Values{"status": {models.PaymentPending}}, "/payments?status=pending"},
			{"O'Level results", "/profile/results", nil, "/profile"},
		}
	}
	return nil
}

// card is a rendered summary.
type card struct {
	Label string
	Value string
	Href  string
	Err   bool
}
