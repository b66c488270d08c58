// internal/app/features/auditlog/types.go
package auditlog

import (
	"time"

	"github.com/dalemusser/nursinghub/internal/app/features/shared/views"
	"github.com/dalemusser/nursinghub/internal/app/store/audit"
	"github.com/dalemusser/nursinghub/internal/app/system/viewdata"
)

// listItem represents a single audit event row for display.
type listItem struct {
	ID        string
	Timestamp time.Time
	Category  string
	EventType string
	UserID    string
	Role      string
	Resource  string
	RecordID  string
	IP        string
	Success   bool
	Reason    string
	Details   map[string]string
}

// listData is the view model for the audit log list page.
type listData struct {
	viewdata.BaseVM

	Items []listItem

	// Filters
	Category  string
	EventType string
	Resource  string
	UserID    string
	StartDate string
	EndDate   string

	// Filter options
	Categories []option
	EventTypes []string
	Resources  []string

	Pager views.PagerVM
	Total int64
}

// option is a value/label pair for a filter dropdown.
type option struct {
	Value string
	Label string
}

func allCategories() []option {
	return []option{
		{Value: audit.CategoryAuth, Label: "Authentication"},
		{Value: audit.CategoryAdmin, Label: "Record changes"},
	}
}

// resources lists the record kinds mutations are logged under.
var resources = []string{"halls", "attendance", "certificates", "payments", "profile_results"}

// eventTypesForCategory returns the event types for a given category.
// If category is empty, returns all event types.
func eventTypesForCategory(category string) []string {
	authEvents := []string{
		audit.EventLoginSuccess,
		audit.EventLoginFailed,
		audit.EventLoginFailedRateLimit,
		audit.EventLogout,
		audit.EventSessionExpired,
		audit.EventRegistered,
	}
	adminEvents := []string{
		audit.EventRecordCreated,
		audit.EventRecordUpdated,
		audit.EventRecordDeleted,
		audit.EventRecordStatusChanged,
		audit.EventProfileUpdated,
		audit.EventExportDownloaded,
	}

	switch category {
	case audit.CategoryAuth:
		return authEvents
	case audit.CategoryAdmin:
		return adminEvents
	case "":
		all := make([]string, 0, len(authEvents)+len(adminEvents))
		all = append(all, authEvents...)
		return append(all, adminEvents...)
	default:
		return nil
	}
}

func itemFrom(e audit.Event) listItem {
	return listItem{
		ID:        e.ID.Hex(),
		Timestamp: e.Timestamp,
		Category:  e.Category,
		EventType: e.EventType,
		UserID:    e.UserID,
		Role:      e.Role,
		Resource:  e.Resource,
		RecordID:  e.RecordID,
		IP:        e.IP,
		Success:   e.Success,
		Reason:    e.FailureReason,
		Details:   e.Details,
	}
}
