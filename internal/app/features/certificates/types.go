// internal/app/features/certificates/types.go
package certificates

import (
	"github.com/dalemusser/nursinghub/internal/app/features/shared/views"
	"github.com/dalemusser/nursinghub/internal/app/store/audit"
	"github.com/dalemusser/nursinghub/internal/app/system/formutil"
	"github.com/dalemusser/nursinghub/internal/app/system/listctl"
	"github.com/dalemusser/nursinghub/internal/app/system/viewdata"
	"github.com/dalemusser/nursinghub/internal/domain/models"
)

// certificateTypes fills the type select.
var certificateTypes = []string{"O'Level Result", "Birth Certificate", "Admission Letter", "Local Government Identification"}

type listData struct {
	viewdata.BaseVM

	Q        string
	Verified string // "", "1", "0"

	List  listctl.State[models.Certificate]
	Pager views.PagerVM

	CanManage bool
	CanToggle bool
	OwnOnly   bool // students see their own certificates
}

type formData struct {
	formutil.Base

	ID     string
	Action string
	Draft  models.CertificateDraft
	Types  []string

	History []audit.Event // edit only
}

// IsEdit reports whether the form edits an existing certificate.
func (d formData) IsEdit() bool { return d.ID != "" }
