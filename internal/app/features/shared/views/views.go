// Package views holds what the API-backed feature handlers share: their
// dependencies, the session-expiry path, and the view models of the shared
// templates (pager, confirmation page).
package views

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	uierrors "github.com/dalemusser/nursinghub/internal/app/features/errors"
	"github.com/dalemusser/nursinghub/internal/app/store/audit"
	"github.com/dalemusser/nursinghub/internal/app/store/sessions"
	"github.com/dalemusser/nursinghub/internal/app/system/apiclient"
	"github.com/dalemusser/nursinghub/internal/app/system/auditlog"
	"github.com/dalemusser/nursinghub/internal/app/system/auth"
	"github.com/dalemusser/nursinghub/internal/app/system/listctl"
	"github.com/dalemusser/nursinghub/internal/app/system/paging"
	"github.com/dalemusser/nursinghub/internal/app/system/timeouts"
	"github.com/dalemusser/nursinghub/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// TableTarget is the id of the element list pages swap on HTMX requests.
const TableTarget = "x-table-wrap"

// ActivityEnder closes the activity record of a session.
type ActivityEnder interface {
	End(ctx context.Context, sessionID, reason string)
}

// RecordHistory reads the audit trail of one record.
type RecordHistory interface {
	GetByRecord(ctx context.Context, resource, recordID string, limit int64) ([]audit.Event, error)
}

// Deps bundles the dependencies of API-backed feature handlers.
type Deps struct {
	API      *apiclient.Client
	Sessions *auth.SessionManager
	Registry *listctl.Registry
	Activity ActivityEnder // optional
	Audit    *auditlog.Logger
	History  RecordHistory // optional; edit pages omit the history without it
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
	PageSize int
}

// Client returns the API client bound to u's access token.
func (d *Deps) Client(u *auth.Session) *apiclient.Client {
	return d.API.WithToken(u.AccessToken)
}

// Expired handles an API 401: the stored token is no longer accepted, so
// the session ends and the browser goes back to the login page. It reports
// whether err was such a rejection.
func (d *Deps) Expired(w http.ResponseWriter, r *http.Request, err error) bool {
	if !apiclient.IsUnauthorized(err) {
		return false
	}
	u, ok := auth.CurrentUser(r)
	if ok {
		d.Audit.SessionExpired(r.Context(), r)
		if d.Registry != nil {
			d.Registry.Drop(u.ID)
		}
		if d.Activity != nil {
			d.Activity.End(r.Context(), u.ID, sessions.EndExpired)
		}
		d.logger().Info("api rejected session token", zap.String("session_id", u.ID), zap.String("path", r.URL.Path))
	}
	if d.Sessions != nil {
		d.Sessions.ExpireAndRedirect(w, r)
	} else {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
	return true
}

func (d *Deps) logger() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}

// IsTableSwap reports whether r is an HTMX request for the table fragment only.
func IsTableSwap(r *http.Request) bool {
	return r.Header.Get("HX-Request") != "" && r.Header.Get("HX-Target") == TableTarget
}

// Redirect sends the browser to path, adding a one-shot notice. HTMX
// requests get an HX-Redirect so the whole page reloads.
func Redirect(w http.ResponseWriter, r *http.Request, path, notice string) {
	if notice != "" {
		u, err := url.Parse(path)
		if err == nil {
			q := u.Query()
			q.Set("notice", notice)
			u.RawQuery = q.Encode()
			path = u.String()
		}
	}
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// PagerVM is the data of the shared "pager" template.
type PagerVM struct {
	paging.Pager
	Path   string
	Params url.Values
}

// Href links to page n keeping the current filters.
func (p PagerVM) Href(n int) string {
	q := url.Values{}
	for k, vs := range p.Params {
		q[k] = append([]string(nil), vs...)
	}
	q.Set("page", strconv.Itoa(n))
	return p.Path + "?" + q.Encode()
}

// Pager builds the pager for a list state rendered at path.
func Pager[T any](path string, s listctl.State[T], perPage int) PagerVM {
	return PagerVM{
		Pager:  paging.Build(s.CurrentPage, s.TotalPages, len(s.Items), s.TotalCount, perPage),
		Path:   path,
		Params: s.Filters.Values(),
	}
}

// ConfirmVM is the data of the shared "confirm_page" template, shown before
// every destructive POST.
type ConfirmVM struct {
	viewdata.BaseVM
	Heading      string
	Message      string
	Action       string // form action of the mutating POST
	ConfirmLabel string
	Danger       bool
	Error        string
}

// NewConfirm returns a confirmation page model whose cancel link is backURL.
func NewConfirm(r *http.Request, heading, message, action, label, backURL string) ConfirmVM {
	vm := ConfirmVM{
		BaseVM:       viewdata.NewBaseVM(r, heading, backURL),
		Heading:      heading,
		Message:      message,
		Action:       action,
		ConfirmLabel: label,
		Danger:       true,
	}
	vm.BackURL = backURL
	return vm
}

// IsLocal reports whether err was raised by the controller before any
// request reached the API.
func IsLocal(err error) bool {
	return listctl.IsValidation(err) ||
		errors.Is(err, listctl.ErrBusy) ||
		errors.Is(err, listctl.ErrNotFound) ||
		errors.Is(err, listctl.ErrUnsupported)
}

// AuditMutation records a create, update, delete or status change that
// reached the API. Local rejections are not audited.
func (d *Deps) AuditMutation(ctx context.Context, r *http.Request, eventType, resource, id string, err error) {
	if err != nil && IsLocal(err) {
		return
	}
	d.Audit.Mutation(ctx, r, eventType, resource, id, err)
}

// historyLimit caps the events shown under an edit form.
const historyLimit = 10

// RecordEvents returns the latest audit events for one record, newest first. A
// failed read is logged and yields no rows; the form still renders.
func (d *Deps) RecordEvents(ctx context.Context, resource, id string) []audit.Event {
	if d.History == nil || id == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	events, err := d.History.GetByRecord(ctx, resource, id, historyLimit)
	if err != nil {
		d.logger().Warn("record history failed",
			zap.String("resource", resource),
			zap.String("record_id", id),
			zap.Error(err))
		return nil
	}
	return events
}

// WriteBlob sends a downloaded file to the browser as an attachment.
// fallbackName is used when the API did not name the file.
func WriteBlob(w http.ResponseWriter, b *apiclient.Blob, fallbackName string) {
	name := b.Filename
	if name == "" {
		name = fallbackName
	}
	ct := b.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(b.Data)))
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(b.Data)
}
