// internal/app/features/attendance/types.go
package attendance

import (
	"github.com/dalemusser/nursinghub/internal/app/features/shared/views"
	"github.com/dalemusser/nursinghub/internal/app/system/formutil"
	"github.com/dalemusser/nursinghub/internal/app/system/listctl"
	"github.com/dalemusser/nursinghub/internal/app/system/viewdata"
	"github.com/dalemusser/nursinghub/internal/domain/models"
)

// options are the choices of the batch and hall selects.
type options struct {
	Batches []models.Batch
	Halls   []models.Hall
	Err     string // the selects could not be loaded
}

// listData is the view model for the attendance page and its table snippet.
type listData struct {
	viewdata.BaseVM
	options

	Batch string
	Hall  string
	Q     string

	List  listctl.State[models.AttendanceRecord]
	Pager views.PagerVM

	CanManage bool
	CanExport bool // both filters chosen and rows present
}

// formData is the view model for the mark and edit forms.
type formData struct {
	formutil.Base
	options

	ID     string
	Action string
	Draft  models.AttendanceDraft
}

// IsEdit reports whether the form edits an existing record.
func (d formData) IsEdit() bool { return d.ID != "" }

// Statuses lists the values of the status select.
func (d formData) Statuses() []string {
	return []string{models.AttendancePresent, models.AttendanceAbsent}
}
