// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"html/template"
	"net/http"

	"github.com/dalemusser/nursinghub/internal/app/system/auth"
	"github.com/dalemusser/nursinghub/internal/app/system/authz"
	"github.com/dalemusser/nursinghub/internal/app/system/navigation"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
)

// SiteName is shown in the page title and header.
const SiteName = "NursingHub Admissions"

// BaseVM contains the page chrome every template needs. Embed it in
// feature view models:
//
//	type hallsPageData struct {
//	    viewdata.BaseVM
//	    List listctl.State[models.Hall]
//	}
type BaseVM struct {
	SiteName string

	// User context (from auth middleware)
	IsLoggedIn      bool
	Role            string
	UserName        string
	ApplicationType string

	// Sidebar
	Menu navigation.Menu

	// Page context
	Title       string
	BackURL     string
	CurrentPath string
	Section     string // authz section id of the current page, for highlighting

	// CSRF protection
	CSRFToken string
	CSRFField template.HTML

	// One-shot notice shown above the content ("Hall created.")
	Notice string
}

// NewBaseVM creates a populated BaseVM for a page.
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	role, name, signedIn := authz.UserCtx(r)

	vm := BaseVM{
		SiteName:    SiteName,
		IsLoggedIn:  signedIn,
		Role:        role,
		UserName:    name,
		Menu:        navigation.Build(role, signedIn),
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
		CSRFField:   csrf.TemplateField(r),
		Notice:      r.URL.Query().Get("notice"),
	}
	if u, ok := auth.CurrentUser(r); ok {
		vm.ApplicationType = u.AppType()
	}
	return vm
}

// InSection returns vm with Section set, for menu highlighting.
func (vm BaseVM) InSection(id string) BaseVM {
	vm.Section = id
	return vm
}

// Active reports whether the menu entry id is the current section.
func (vm BaseVM) Active(id string) bool { return vm.Section == id }
