// internal/domain/models/jamb.go
package models

// JambValidation is the API's answer for a JAMB registration number lookup.
type JambValidation struct {
	RegNumber     string        `json:"jamb_reg_number"`
	CandidateName string        `json:"candidate_name"`
	Score         int           `json:"score"`
	Course        string        `json:"course,omitempty"`
	Subjects      []JambSubject `json:"subjects,omitempty"`
	IsValid       Flag          `json:"is_valid"`
}

// JambSubject is one UTME subject score.
type JambSubject struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// JambQuery is the lookup form.
type JambQuery struct {
	RegNumber string `json:"jamb_reg_number" validate:"required,jambreg" label:"JAMB registration number"`
}
