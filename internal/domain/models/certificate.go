// internal/domain/models/certificate.go
package models

// Certificate is an applicant's uploaded or issued credential
// (O'Level result, birth certificate, admission letter).
type Certificate struct {
	ID                ID     `json:"id"`
	ApplicantName     string `json:"applicant_name"`
	ApplicationNumber string `json:"application_number"`
	CertificateType   string `json:"certificate_type"`
	CertificateNumber string `json:"certificate_number"`
	IssuedOn          string `json:"issued_on,omitempty"`
	IsVerified        Flag   `json:"is_verified"`
}

// CertificateDraft is the issue/edit form for a certificate.
type CertificateDraft struct {
	ApplicationNumber string `json:"application_number" validate:"required,max=40" label:"Application number"`
	CertificateType   string `json:"certificate_type" validate:"required,max=60" label:"Certificate type"`
	CertificateNumber string `json:"certificate_number" validate:"required,max=60" label:"Certificate number"`
	IssuedOn          string `json:"issued_on,omitempty" validate:"omitempty,datetime=2006-01-02" label:"Issue date"`
}
