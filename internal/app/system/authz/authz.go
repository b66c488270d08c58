// Package authz is the single source of truth for who may see and change
// each section of the dashboard. Route guards and the navigation menu both
// read from it.
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/nursinghub/internal/app/system/auth"
	"github.com/dalemusser/nursinghub/internal/domain/models"
)

// Section identifiers.
const (
	SectionDashboard    = "dashboard"
	SectionHalls        = "halls"
	SectionAttendance   = "attendance"
	SectionCertificates = "certificates"
	SectionPayments     = "payments"
	SectionProfile      = "profile"
	SectionJamb         = "jamb"
	SectionAudit        = "audit"
	SectionActivity     = "activity"
)

// Action is what a role wants to do inside a section.
type Action int

const (
	View   Action = iota
	Manage        // create, edit, delete
	Toggle        // flip the active/verified status
)

// Section describes one navigable area and the roles allowed per action.
type Section struct {
	ID    string
	Label string
	Icon  string
	Href  string
	roles map[Action][]string
}

var signedIn = []string{models.RoleAdmin, models.RoleStaff, models.RoleStudent, models.RoleVerification}

var sections = map[string]Section{
	SectionDashboard: {
		ID: SectionDashboard, Label: "Dashboard", Icon: "home", Href: "/dashboard",
		roles: map[Action][]string{View: signedIn},
	},
	SectionHalls: {
		ID: SectionHalls, Label: "Halls", Icon: "building", Href: "/halls",
		roles: map[Action][]string{
			View:   {models.RoleAdmin, models.RoleStaff},
			Manage: {models.RoleAdmin},
			Toggle: {models.RoleAdmin},
		},
	},
	SectionAttendance: {
		ID: SectionAttendance, Label: "Attendance", Icon: "clipboard-check", Href: "/attendance",
		roles: map[Action][]string{
			View:   {models.RoleAdmin, models.RoleStaff},
			Manage: {models.RoleAdmin, models.RoleStaff},
		},
	},
	SectionCertificates: {
		ID: SectionCertificates, Label: "Certificates", Icon: "award", Href: "/certificates",
		roles: map[Action][]string{
			View:   {models.RoleAdmin, models.RoleStaff, models.RoleVerification, models.RoleStudent},
			Manage: {models.RoleAdmin, models.RoleStaff},
			Toggle: {models.RoleAdmin, models.RoleVerification},
		},
	},
	SectionPayments: {
		ID: SectionPayments, Label: "Payments", Icon: "credit-card", Href: "/payments",
		roles: map[Action][]string{
			View: {models.RoleAdmin, models.RoleStudent},
		},
	},
	SectionProfile: {
		ID: SectionProfile, Label: "My Profile", Icon: "user", Href: "/profile",
		roles: map[Action][]string{
			View:   signedIn,
			Manage: signedIn,
		},
	},
	SectionJamb: {
		ID: SectionJamb, Label: "JAMB Validation", Icon: "check-circle", Href: "/jamb",
		roles: map[Action][]string{
			View: {models.RoleAdmin, models.RoleVerification},
		},
	},
	SectionActivity: {
		ID: SectionActivity, Label: "Who's Online", Icon: "activity", Href: "/activity",
		roles: map[Action][]string{
			View: {models.RoleAdmin},
		},
	},
	SectionAudit: {
		ID: SectionAudit, Label: "Audit Log", Icon: "list", Href: "/audit",
		roles: map[Action][]string{
			View: {models.RoleAdmin},
		},
	},
}

// Lookup returns the section with id.
func Lookup(id string) (Section, bool) {
	s, ok := sections[id]
	return s, ok
}

// RolesFor lists the roles allowed to perform action in section id.
// Unknown sections and actions yield nil, which no guard accepts.
func RolesFor(id string, action Action) []string {
	s, ok := sections[id]
	if !ok {
		return nil
	}
	return append([]string(nil), s.roles[action]...)
}

// Allowed reports whether role may perform action in section id.
func Allowed(role, id string, action Action) bool {
	role = strings.ToUpper(strings.TrimSpace(role))
	if role == "" {
		return false
	}
	for _, r := range RolesFor(id, action) {
		if r == role {
			return true
		}
	}
	return false
}

// CanSee is Allowed(role, id, View).
func CanSee(role, id string) bool { return Allowed(role, id, View) }

// UserCtx returns the user's role (upper-cased), display name and a found flag.
// Without a user it returns "VISITOR", "", false.
func UserCtx(r *http.Request) (role string, name string, ok bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return "VISITOR", "", false
	}
	return u.RoleName(), u.DisplayName(), true
}

// Can reports whether the current request's user may perform action in section id.
func Can(r *http.Request, id string, action Action) bool {
	role, _, ok := UserCtx(r)
	return ok && Allowed(role, id, action)
}

// HasAnyRole reports whether the current request's user has any of roles.
func HasAnyRole(r *http.Request, roles ...string) bool {
	u, ok := auth.CurrentUser(r)
	return ok && u.HasRole(roles...)
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool { return HasAnyRole(r, models.RoleAdmin) }

// IsStudent reports whether the current request's user is an applicant.
func IsStudent(r *http.Request) bool { return HasAnyRole(r, models.RoleStudent) }
