package auth

import (
	"strings"
	"time"

	"github.com/dalemusser/nursinghub/internal/domain/models"
	"github.com/google/uuid"
)

// Session is the signed-in user's identity and API credential. It is stored
// wholesale in the session cookie under one key and replaced only by SignIn
// and SignOut.
type Session struct {
	ID              string    `json:"id"` // per-login identity (uuid)
	UserID          string    `json:"user_id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	OtherNames      string    `json:"other_names,omitempty"`
	Email           string    `json:"email"`
	Role            string    `json:"role"`
	ApplicationType string    `json:"application_type,omitempty"`
	AccessToken     string    `json:"access_token"`
	ExpiresAt       time.Time `json:"expires_at"`
	LoginAt         time.Time `json:"login_at"`
}

// DisplayName joins first, other and last names, skipping blanks.
// Falls back to the email address when every name part is empty.
func (s *Session) DisplayName() string {
	if s == nil {
		return ""
	}
	parts := make([]string, 0, 3)
	for _, p := range []string{s.FirstName, s.OtherNames, s.LastName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return strings.TrimSpace(s.Email)
	}
	return strings.Join(parts, " ")
}

// RoleName returns the role upper-cased and trimmed ("ADMIN", "STAFF", ...).
func (s *Session) RoleName() string {
	if s == nil {
		return ""
	}
	return strings.ToUpper(strings.TrimSpace(s.Role))
}

// AppType returns the applicant's programme (BNSC, PBN, RN) or "".
func (s *Session) AppType() string {
	if s == nil {
		return ""
	}
	return strings.ToUpper(strings.TrimSpace(s.ApplicationType))
}

// HasRole reports whether the session role matches any of roles, ignoring case.
func (s *Session) HasRole(roles ...string) bool {
	if s == nil {
		return false
	}
	mine := s.RoleName()
	for _, r := range roles {
		if strings.EqualFold(strings.TrimSpace(r), mine) {
			return true
		}
	}
	return false
}

// Expired reports whether the access token has passed its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// valid reports whether the record carries the minimum a signed-in user needs.
func (s *Session) valid() bool {
	return s != nil && strings.TrimSpace(s.Role) != "" && strings.TrimSpace(s.AccessToken) != ""
}

// NewSession builds the record stored at login from the API's login reply.
// Expiry comes from the token's exp claim, or now+fallback for opaque tokens.
func NewSession(resp models.LoginResponse, now time.Time, fallback time.Duration) *Session {
	u := resp.User
	return &Session{
		ID:              uuid.NewString(),
		UserID:          u.ID.String(),
		FirstName:       strings.TrimSpace(u.FirstName),
		LastName:        strings.TrimSpace(u.LastName),
		OtherNames:      strings.TrimSpace(u.OtherNames),
		Email:           strings.TrimSpace(u.Email),
		Role:            strings.ToUpper(strings.TrimSpace(u.Role)),
		ApplicationType: strings.ToUpper(strings.TrimSpace(u.ApplicationType)),
		AccessToken:     resp.AccessToken,
		ExpiresAt:       TokenExpiry(resp.AccessToken, resp.ExpiresIn, now, fallback),
		LoginAt:         now.UTC(),
	}
}
