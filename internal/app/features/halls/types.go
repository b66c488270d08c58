// internal/app/features/halls/types.go
package halls

import (
	"github.com/dalemusser/nursinghub/internal/app/features/shared/views"
	"github.com/dalemusser/nursinghub/internal/app/store/audit"
	"github.com/dalemusser/nursinghub/internal/app/system/formutil"
	"github.com/dalemusser/nursinghub/internal/app/system/listctl"
	"github.com/dalemusser/nursinghub/internal/app/system/viewdata"
	"github.com/dalemusser/nursinghub/internal/domain/models"
)

// listData is the view model for the halls list page and its table snippet.
type listData struct {
	viewdata.BaseVM

	Q      string
	Active string // "", "1", "0"

	List  listctl.State[models.Hall]
	Pager views.PagerVM

	CanManage bool
	CanToggle bool
}

// formData is the view model for the new and edit forms.
type formData struct {
	formutil.Base

	ID     string // empty for new
	Action string
	Draft  models.HallDraft

	History []audit.Event // edit only
}

// IsEdit reports whether the form edits an existing hall.
func (d formData) IsEdit() bool { return d.ID != "" }
