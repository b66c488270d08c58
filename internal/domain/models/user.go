// internal/domain/models/user.go
package models

// Roles as the admissions API spells them.
const (
	RoleAdmin        = "ADMIN"
	RoleStaff        = "STAFF"
	RoleStudent      = "STUDENT"
	RoleVerification = "VERIFICATION"
)

// User is the identity block returned by the login endpoint.
type User struct {
	ID              ID     `json:"id"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	OtherNames      string `json:"other_names,omitempty"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	ApplicationType string `json:"application_type,omitempty"`
}

// LoginRequest is posted to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" label:"Email address"`
	Password string `json:"password" validate:"required" label:"Password"`
}

// LoginResponse is the login endpoint's success body.
type LoginResponse struct {
	User        User   `json:"user"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	ExpiresIn   int    `json:"expires_in,omitempty"`
}

// Registration is posted to the applicant registration endpoint.
type Registration struct {
	FirstName       string `json:"first_name" validate:"required,max=80" label:"First name"`
	LastName        string `json:"last_name" validate:"required,max=80" label:"Last name"`
	OtherNames      string `json:"other_names,omitempty" validate:"max=80" label:"Other names"`
	Email           string `json:"email" validate:"required,email" label:"Email address"`
	Phone           string `json:"phone" validate:"required,phone" label:"Phone number"`
	ApplicationType string `json:"application_type" validate:"required,oneof=BNSC PBN RN" label:"Application type"`
	Password        string `json:"password" validate:"required,min=8" label:"Password"`
	Confirm         string `json:"password_confirmation" validate:"required,eqfield=Password" label:"Password confirmation"`
}
