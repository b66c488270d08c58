package navigation

import (
	"strings"

	"github.com/dalemusser/nursinghub/internal/app/system/authz"
	"github.com/dalemusser/nursinghub/internal/domain/models"
)

// Kind distinguishes section headers from clickable items.
type Kind int

const (
	Item Kind = iota
	Header
)

// Entry is one line of the side menu.
type Entry struct {
	Kind  Kind
	ID    string
	Label string
	Icon  string
	Href  string
}

// IsHeader is a template convenience.
func (e Entry) IsHeader() bool { return e.Kind == Header }

// State is what the menu should show while the role is being resolved.
type State int

const (
	Unknown   State = iota // role not known yet: show a loading placeholder
	Empty                  // role known, nothing to show: "No menu items available"
	Populated              // entries ready
)

// Menu is the resolved navigation for one request.
type Menu struct {
	State   State
	Entries []Entry
}

func (m Menu) Loading() bool { return m.State == Unknown }
func (m Menu) IsEmpty() bool { return m.State == Empty }

// layout lists, per role, the headers and section ids in display order.
// A section listed here still has to pass authz.CanSee to be shown.
type group struct {
	header   string
	sections []string
}

var layouts = map[string][]group{
	models.RoleAdmin: {
		{sections: []string{authz.SectionDashboard}},
		{header: "Admissions", sections: []string{
			authz.SectionHalls, authz.SectionAttendance, authz.SectionPayments,
			authz.SectionCertificates, authz.SectionJamb,
		}},
		{header: "System", sections: []string{authz.SectionActivity, authz.SectionAudit}},
		{header: "Account", sections: []string{authz.SectionProfile}},
	},
	models.RoleStaff: {
		{sections: []string{authz.SectionDashboard}},
		{header: "Admissions", sections: []string{
			authz.SectionAttendance, authz.SectionCertificates, authz.SectionHalls,
		}},
		{header: "Account", sections: []string{authz.SectionProfile}},
	},
	models.RoleStudent: {
		{sections: []string{authz.SectionDashboard}},
		{header: "My Application", sections: []string{
			authz.SectionProfile, authz.SectionPayments, authz.SectionCertificates,
		}},
	},
	models.RoleVerification: {
		{sections: []string{authz.SectionDashboard}},
		{header: "Verification", sections: []string{
			authz.SectionJamb, authz.SectionCertificates,
		}},
	},
}

// Resolve returns the ordered menu entries for role. Unknown or empty roles
// yield an empty, non-nil slice. Headers with no visible items are dropped.
func Resolve(role string) []Entry {
	role = strings.ToUpper(strings.TrimSpace(role))
	out := []Entry{}

	for _, g := range layouts[role] {
		items := make([]Entry, 0, len(g.sections))
		for _, id := range g.sections {
			if !authz.CanSee(role, id) {
				continue
			}
			s, ok := authz.Lookup(id)
			if !ok {
				continue
			}
			items = append(items, Entry{Kind: Item, ID: s.ID, Label: s.Label, Icon: s.Icon, Href: s.Href})
		}
		if len(items) == 0 {
			continue
		}
		if g.header != "" {
			out = append(out, Entry{Kind: Header, ID: headerID(g.header), Label: g.header})
		}
		out = append(out, items...)
	}
	return out
}

// Build wraps Resolve with the three display states.
func Build(role string, known bool) Menu {
	if !known {
		return Menu{State: Unknown}
	}
	entries := Resolve(role)
	if len(entries) == 0 {
		return Menu{State: Empty, Entries: entries}
	}
	return Menu{State: Populated, Entries: entries}
}

func headerID(label string) string {
	return "hdr-" + strings.ReplaceAll(strings.ToLower(label), " ", "-")
}
