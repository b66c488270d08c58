// internal/app/features/register/handler.go
package register

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/nursinghub/internal/app/features/shared/views"
	"github.com/dalemusser/nursinghub/internal/app/system/auth"
	"github.com/dalemusser/nursinghub/internal/app/system/formutil"
	"github.com/dalemusser/nursinghub/internal/app/system/inputval"
	"github.com/dalemusser/nursinghub/internal/app/system/normalize"
	"github.com/dalemusser/nursinghub/internal/app/system/timeouts"
	"github.com/dalemusser/nursinghub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// applicationTypes are the programmes an applicant can register for.
var applicationTypes = []struct{ Code, Label string }{
	{"BNSC", "Bachelor of Nursing Science"},
	{"PBN", "Post-Basic Nursing"},
	{"RN", "Registered Nursing (General)"},
}

// Handler serves applicant self-registration.
type Handler struct {
	views.Deps
}

func NewHandler(deps views.Deps) *Handler {
	return &Handler{Deps: deps}
}

type formData struct {
	formutil.Base

	Draft models.Registration
	Types []struct{ Code, Label string }
}

func draftFromForm(r *http.Request) models.Registration {
	return models.Registration{
		FirstName:       normalize.Name(r.FormValue("first_name")),
		LastName:        normalize.Name(r.FormValue("last_name")),
		OtherNames:      normalize.Name(r.FormValue("other_names")),
		Email:           normalize.Email(r.FormValue("email")),
		Phone:           strings.TrimSpace(r.FormValue("phone")),
		ApplicationType: normalize.Code(r.FormValue("application_type")),
		Password:        r.FormValue("password"),
		Confirm:         r.FormValue("password_confirmation"),
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, draft models.Registration, err error) {
	// Passwords are never echoed back.
	draft.Password, draft.Confirm = "", ""
	data := formData{Draft: draft, Types: applicationTypes}
	formutil.SetBase(&data.Base, r, "Apply", "/login")
	if err != nil {
		data.SetErrorFrom(err, "Unable to create your account. Please try again.")
	}
	templates.Render(w, r, "register", &data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /register                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRegister(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	h.render(w, r, models.Registration{}, nil)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /register                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleRegister validates the application locally, creates the account
// through the API and sends the applicant to sign in.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/register")
		return
	}
	draft := draftFromForm(r)
	if err := inputval.Validate(draft).Err(); err != nil {
		h.render(w, r, draft, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.API.Post(ctx, "/auth/register", draft, nil); err != nil {
		h.Log.Info("registration rejected", zap.String("email", draft.Email), zap.Error(err))
		h.render(w, r, draft, err)
		return
	}

	h.Audit.Registered(ctx, r, draft.Email, draft.ApplicationType)
	views.Redirect(w, r, "/login", "Your account has been created. Please sign in.")
}
