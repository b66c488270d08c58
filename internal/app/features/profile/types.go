// internal/app/features/profile/types.go
package profile

import (
	"github.com/dalemusser/nursinghub/internal/app/features/shared/views"
	"github.com/dalemusser/nursinghub/internal/app/system/formutil"
	"github.com/dalemusser/nursinghub/internal/app/system/listctl"
	"github.com/dalemusser/nursinghub/internal/domain/models"
)

var examTypes = []string{"WAEC", "NECO", "NABTEB", "GCE"}

var grades = []string{"A1", "B2", "B3", "C4", "C5", "C6", "D7", "E8", "F9"}

type pageData struct {
	formutil.Base

	Profile models.Profile
	Draft   models.ProfileDraft

	ShowResults bool
	List        listctl.State[models.ProfileResult]
	Pager       views.PagerVM
}

type resultFormData struct {
	formutil.Base

	ID     string
	Action string
	Draft  models.ProfileResultDraft
	Exams  []string
	Grades []string
}

// IsEdit reports whether the form edits an existing result.
func (d resultFormData) IsEdit() bool { return d.ID != "" }
