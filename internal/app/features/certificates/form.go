// internal/app/features/certificates/form.go
package certificates

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/nursinghub/internal/app/features/shared/views"
	"github.com/dalemusser/nursinghub/internal/app/store/audit"
	"github.com/dalemusser/nursinghub/internal/app/system/apiclient"
	"github.com/dalemusser/nursinghub/internal/app/system/auth"
	"github.com/dalemusser/nursinghub/internal/app/system/authz"
	"github.com/dalemusser/nursinghub/internal/app/system/formutil"
	"github.com/dalemusser/nursinghub/internal/app/system/navigation"
	"github.com/dalemusser/nursinghub/internal/app/system/timeouts"
	"github.com/dalemusser/nursinghub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
)

func draftFromForm(r *http.Request) models.CertificateDraft {
	return models.CertificateDraft{
		ApplicationNumber: strings.TrimSpace(r.FormValue("application_number")),
		CertificateType:   strings.TrimSpace(r.FormValue("certificate_type")),
		CertificateNumber: strings.TrimSpace(r.FormValue("certificate_number")),
		IssuedOn:          strings.TrimSpace(r.FormValue("issued_on")),
	}
}

func draftFrom(c models.Certificate) models.CertificateDraft {
	return models.CertificateDraft{
		ApplicationNumber: c.ApplicationNumber,
		CertificateType:   c.CertificateType,
		CertificateNumber: c.CertificateNumber,
		IssuedOn:          c.IssuedOn,
	}
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, id string, draft models.CertificateDraft, err error) {
	title, action := "Issue Certificate", basePath
	if id != "" {
		title, action = "Edit Certificate", basePath+"/"+url.PathEscape(id)+"/edit"
	}
	data := formData{ID: id, Action: action, Draft: draft, Types: certificateTypes}
	formutil.SetBase(&data.Base, r, title, basePath)
	data.BaseVM = data.BaseVM.InSection(authz.SectionCertificates)
	data.History = h.RecordEvents(r.Context(), "certificates", id)
	if err != nil {
		data.SetErrorFrom(err, "Unable to save the certificate. Please try again.")
	}
	templates.Render(w, r, "certificate_form", &data)
}

// lookup finds the certificate in the loaded page, asking the API when the page
// does not hold it (a bookmarked edit link, for example).
func (h *Handler) lookup(ctx context.Context, u *auth.Session, id string) (models.Certificate, error) {
	if cert, ok := h.controller(u).Item(id); ok {
		return cert, nil
	}
	var env apiclient.Envelope[models.Certificate]
	err := h.Client(u).Get(ctx, basePath+"/"+url.PathEscape(id), nil, &env)
	return env.Data, err
}

// lookupOrFail resolves the {id} certificate, writing the response itself when it
// cannot.
func (h *Handler) lookupOrFail(w http.ResponseWriter, r *http.Request) (*auth.Session, models.Certificate, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		h.Sessions.ExpireAndRedirect(w, r)
		return nil, models.Certificate{}, false
	}
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	cert, err := h.lookup(ctx, u, id)
	if h.Expired(w, r, err) {
		return nil, models.Certificate{}, false
	}
	if err != nil {
		if apiclient.IsNotFound(err) {
			h.ErrLog.LogBadRequest(w, r, "certificate not found", err, "That certificate no longer exists.", basePath)
			return nil, models.Certificate{}, false
		}
		h.ErrLog.LogServerError(w, r, "load certificate failed", err, "Unable to load the certificate.", basePath)
		return nil, models.Certificate{}, false
	}
	return u, cert, true
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /certificates/new · POST /certificates                                    |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeNew renders the empty certificate form.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, "", models.CertificateDraft{}, nil)
}

// HandleCreate validates and issues a certificate, then returns to the list.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		h.Sessions.ExpireAndRedirect(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", basePath)
		return
	}
	draft := draftFromForm(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	cert, err := h.controller(u).Create(ctx, draft)
	if h.Expired(w, r, err) {
		return
	}
	h.AuditMutation(ctx, r, audit.EventRecordCreated, "certificates", cert.ID.String(), err)
	if err != nil {
		h.renderForm(w, r, "", draft, err)
		return
	}
	views.Redirect(w, r, navigation.SafeBackURL(r, navigation.CertificatesBackURL), "Certificate issued.")
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET/POST /certificates/{id}/edit                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeEdit renders the form pre-filled with the certificate.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	_, cert, ok := h.lookupOrFail(w, r)
	if !ok {
		return
	}
	h.renderForm(w, r, cert.ID.String(), draftFrom(cert), nil)
}

// HandleEdit validates and saves the certificate.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		h.Sessions.ExpireAndRedirect(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", basePath)
		return
	}
	id := chi.URLParam(r, "id")
	draft := draftFromForm(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, err := h.controller(u).Update(ctx, id, draft)
	if h.Expired(w, r, err) {
		return
	}
	h.AuditMutation(ctx, r, audit.EventRecordUpdated, "certificates", id, err)
	if err != nil {
		h.renderForm(w, r, id, draft, err)
		return
	}
	views.Redirect(w, r, navigation.SafeBackURL(r, navigation.CertificatesBackURL), "Certificate updated.")
}
