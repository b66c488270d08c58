// internal/domain/models/profile.go
package models

// Profile is the signed-in user's own record.
type Profile struct {
	ID                ID     `json:"id"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	OtherNames        string `json:"other_names,omitempty"`
	Email             string `json:"email"`
	Phone             string `json:"phone,omitempty"`
	ApplicationNumber string `json:"application_number,omitempty"`
	ApplicationType   string `json:"application_type,omitempty"`
	StateOfOrigin     string `json:"state_of_origin,omitempty"`
	Address           string `json:"address,omitempty"`
	IsActive          Flag   `json:"is_active"`
}

// ProfileDraft is the editable part of a profile.
type ProfileDraft struct {
	FirstName     string `json:"first_name" validate:"required,max=80" label:"First name"`
	LastName      string `json:"last_name" validate:"required,max=80" label:"Last name"`
	OtherNames    string `json:"other_names,omitempty" validate:"max=80" label:"Other names"`
	Phone         string `json:"phone,omitempty" validate:"omitempty,phone" label:"Phone number"`
	StateOfOrigin string `json:"state_of_origin,omitempty" validate:"max=60" label:"State of origin"`
	Address       string `json:"address,omitempty" validate:"max=300" label:"Address"`
}

// ProfileResult is one O'Level subject grade on an applicant's profile.
type ProfileResult struct {
	ID       ID     `json:"id"`
	ExamType string `json:"exam_type"`
	ExamYear int    `json:"exam_year"`
	Subject  string `json:"subject"`
	Grade    string `json:"grade"`
}

// ProfileResultDraft is the add/edit form for an O'Level result.
type ProfileResultDraft struct {
	ExamType string `json:"exam_type" validate:"required,oneof=WAEC NECO NABTEB GCE" label:"Exam type"`
	ExamYear int    `json:"exam_year" validate:"gte=1980,lte=2100" label:"Exam year"`
	Subject  string `json:"subject" validate:"required,max=60" label:"Subject"`
	Grade    string `json:"grade" validate:"required,olevelgrade" label:"Grade"`
}
