// internal/app/features/jamb/handler.go
package jamb

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/nursinghub/internal/app/features/shared/views"
	"github.com/dalemusser/nursinghub/internal/app/system/apiclient"
	"github.com/dalemusser/nursinghub/internal/app/system/auth"
	"github.com/dalemusser/nursinghub/internal/app/system/authz"
	"github.com/dalemusser/nursinghub/internal/app/system/formutil"
	"github.com/dalemusser/nursinghub/internal/app/system/inputval"
	"github.com/dalemusser/nursinghub/internal/app/system/timeouts"
	"github.com/dalemusser/nursinghub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

const basePath = "/jamb"

// Handler serves the JAMB registration-number lookup used during verification.
type Handler struct {
	views.Deps
}

// NewHandler constructs a jamb Handler.
func NewHandler(deps views.Deps) *Handler {
	return &Handler{Deps: deps}
}

type pageData struct {
	formutil.Base

	Query  models.JambQuery
	Result *models.JambValidation
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, q models.JambQuery, res *models.JambValidation, err error) {
	data := pageData{Query: q, Result: res}
	formutil.SetBase(&data.Base, r, "JAMB Validation", "/dashboard")
	data.BaseVM = data.BaseVM.InSection(authz.SectionJamb)
	if err != nil {
		data.SetErrorFrom(err, "Unable to validate that registration number. Please try again.")
	}
	if views.IsTableSwap(r) {
		templates.RenderSnippet(w, "jamb_result", &data)
		return
	}
	templates.Render(w, r, "jamb_page", &data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /jamb                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeForm renders the empty lookup form.
func (h *Handler) ServeForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, models.JambQuery{}, nil, nil)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /jamb                                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleValidate checks the registration number locally, then asks the API
// for the candidate's UTME record.
func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		h.Sessions.ExpireAndRedirect(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", basePath)
		return
	}
	q := models.JambQuery{RegNumber: strings.ToUpper(strings.TrimSpace(r.FormValue("jamb_reg_number")))}
	if err := inputval.Validate(q).Err(); err != nil {
		h.render(w, r, q, nil, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var env apiclient.Envelope[models.JambValidation]
	err := h.Client(u).Get(ctx, basePath+"/validate", url.Values{"jamb_reg_number": {q.RegNumber}}, &env)
	if h.Expired(w, r, err) {
		return
	}
	if err != nil {
		h.Log.Info("jamb lookup failed", zap.String("reg_number", q.RegNumber), zap.Error(err))
		h.render(w, r, q, nil, err)
		return
	}
	h.render(w, r, q, &env.Data, nil)
}
