// internal/app/features/login/handler.go
package login

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/nursinghub/internal/app/features/shared/views"
	"github.com/dalemusser/nursinghub/internal/app/system/apiclient"
	"github.com/dalemusser/nursinghub/internal/app/system/auth"
	"github.com/dalemusser/nursinghub/internal/app/system/inputval"
	"github.com/dalemusser/nursinghub/internal/app/system/normalize"
	"github.com/dalemusser/nursinghub/internal/app/system/ratelimit"
	"github.com/dalemusser/nursinghub/internal/app/system/timeouts"
	"github.com/dalemusser/nursinghub/internal/app/system/usermsg"
	"github.com/dalemusser/nursinghub/internal/app/system/viewdata"
	"github.com/dalemusser/nursinghub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.uber.org/zap"
)

// ActivityStarter opens an activity record for a new sign in.
type ActivityStarter interface {
	Begin(ctx context.Context, sessionID, userID, role, email, ip, userAgent string)
}

type Handler struct {
	views.Deps

	Limiter *ratelimit.LoginLimiter // nil disables throttling
	Tracker ActivityStarter         // optional
	now     func() time.Time
}

func NewHandler(deps views.Deps, limiter *ratelimit.LoginLimiter, tracker ActivityStarter) *Handler {
	return &Handler{Deps: deps, Limiter: limiter, Tracker: tracker, now: time.Now}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type loginFormData struct {
	viewdata.BaseVM
	Error     string
	Email     string
	ReturnURL string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	templates.Render(w, r, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Sign in", "/"),
		ReturnURL: query.Get(r, "return"),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}

	creds := models.LoginRequest{
		Email:    normalize.Email(r.FormValue("email")),
		Password: r.FormValue("password"),
	}
	if err := inputval.Validate(creds).Err(); err != nil {
		h.renderFormWithError(w, r, http.StatusOK, err.Error(), creds.Email)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if h.Limiter != nil {
		if ok, msg := h.Limiter.Check(r, creds.Email); !ok {
			h.Audit.LoginFailedRateLimit(ctx, r, creds.Email)
			h.renderFormWithError(w, r, http.StatusTooManyRequests, msg, creds.Email)
			return
		}
	}

	/*── ask the admissions API ─────────────────────────────────────────────*/

	var env apiclient.Envelope[models.LoginResponse]
	err := h.API.Post(ctx, "/auth/login", creds, &env)
	if err != nil {
		h.Audit.LoginFailed(ctx, r, creds.Email, err.Error())
		msg := usermsg.For(err, "Unable to sign in. Please try again.")
		if s := apiclient.StatusOf(err); s == http.StatusUnauthorized || s == http.StatusUnprocessableEntity {
			msg = usermsg.For(err, "Incorrect email address or password.")
		}
		h.renderFormWithError(w, r, http.StatusOK, msg, creds.Email)
		return
	}

	sess := auth.NewSession(env.Data, h.now(), h.Sessions.MaxAge())
	if err := h.Sessions.SignIn(w, r, sess); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("email", creds.Email))
		h.Audit.LoginFailed(ctx, r, creds.Email, err.Error())
		h.renderFormWithError(w, r, http.StatusOK, "Unable to create session. Please try again.", creds.Email)
		return
	}

	if h.Limiter != nil {
		h.Limiter.ResetEmail(creds.Email)
	}
	if h.Tracker != nil {
		h.Tracker.Begin(ctx, sess.ID, sess.UserID, sess.Role, sess.Email, ratelimit.ClientIP(r), r.UserAgent())
	}
	h.Audit.LoginSuccess(ctx, r, sess)
	h.Log.Info("signed in", zap.String("user_id", sess.UserID), zap.String("role", sess.Role))

	dest := urlutil.SafeReturn(strings.TrimSpace(r.FormValue("return")), "", "/dashboard")
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| helper: render the form with an error                                       |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, status int, msg, email string) {
	// From POST, "return" will be in the form; from GET, we might rely on the query.
	ret := strings.TrimSpace(r.FormValue("return"))
	if ret == "" {
		ret = query.Get(r, "return")
	}

	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	templates.Render(w, r, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Sign in", "/"),
		Error:     msg,
		Email:     email,
		ReturnURL: ret,
	})
}
