// internal/domain/models/attendance.go
package models

// Attendance statuses recorded for a screening / examination sitting.
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
)

// AttendanceRecord is one candidate's attendance in a hall for a batch.
type AttendanceRecord struct {
	ID                ID     `json:"id"`
	ApplicationNumber string `json:"application_number"`
	FullName          string `json:"full_name"`
	Batch             string `json:"batch"`
	Hall              string `json:"hall"`
	Status            string `json:"status"`
	CheckedInAt       string `json:"checked_in_at,omitempty"`
}

// Present reports whether the candidate was marked present.
func (a AttendanceRecord) Present() bool { return a.Status == AttendancePresent }

// AttendanceDraft is the mark/edit form for an attendance record.
type AttendanceDraft struct {
	ApplicationNumber string `json:"application_number" validate:"required,max=40" label:"Application number"`
	Batch             string `json:"batch" validate:"required" label:"Batch"`
	Hall              string `json:"hall" validate:"required" label:"Hall"`
	Status            string `json:"status" validate:"required,oneof=present absent" label:"Status"`
}
