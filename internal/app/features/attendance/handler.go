// internal/app/features/attendance/handler.go
package attendance

import (
	"github.com/dalemusser/nursinghub/internal/app/features/shared/views"
	"github.com/dalemusser/nursinghub/internal/app/system/auth"
	"github.com/dalemusser/nursinghub/internal/app/system/authz"
	"github.com/dalemusser/nursinghub/internal/app/system/listctl"
	"github.com/dalemusser/nursinghub/internal/domain/models"
)

const basePath = "/attendance"

// Handler serves attendance taking for a batch and hall.
type Handler struct {
	views.Deps
}

// NewHandler constructs an attendance Handler.
func NewHandler(deps views.Deps) *Handler {
	return &Handler{Deps: deps}
}

type attendanceController = listctl.Controller[models.AttendanceRecord, models.AttendanceDraft]

// requiredFilters must both be chosen before any attendance is requested.
var requiredFilters = []listctl.FilterSpec{
	{Key: "batch", Label: "Batch"},
	{Key: "hall", Label: "Hall"},
}

func (h *Handler) controller(u *auth.Session) *attendanceController {
	return listctl.Get(h.Registry, u.ID, authz.SectionAttendance, func() *attendanceController {
		backend := &listctl.REST[models.AttendanceRecord, models.AttendanceDraft]{
			Client: h.Client(u),
			Path:   basePath,
		}
		return listctl.New[models.AttendanceRecord, models.AttendanceDraft](backend, listctl.Options[models.AttendanceRecord]{
			Name:            "attendance records",
			PageSize:        h.PageSize,
			RequiredFilters: requiredFilters,
			ID:              func(a models.AttendanceRecord) string { return a.ID.String() },
			Fallback:        "Unable to load attendance. Please try again.",
			Logger:          h.Log,
		})
	})
}
