// internal/app/features/dashboard/dashboard.go
package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dalemusser/nursinghub/internal/app/store/audit"
	"github.com/dalemusser/nursinghub/internal/app/system/apiclient"
	"github.com/dalemusser/nursinghub/internal/app/system/auth"
	"github.com/dalemusser/nursinghub/internal/app/system/authz"
	"github.com/dalemusser/nursinghub/internal/app/system/timeouts"
	"github.com/dalemusser/nursinghub/internal/app/system/viewdata"
	"github.com/dalemusser/nursinghub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	failedLoginWindow = 24 * time.Hour
	failedLoginCap    = 100
)

type pageData struct {
	viewdata.BaseVM

	Greeting string
	Cards    []card
}

// ServeDashboard renders the role's summary cards. Counts are fetched in
// parallel; a failed count shows a dash on its own card. A rejected token
// signs the user out.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	cards, err := h.collect(ctx, u)
	if h.Expired(w, r, err) {
		return
	}

	data := pageData{
		BaseVM:   viewdata.NewBaseVM(r, "Dashboard", "/").InSection(authz.SectionDashboard),
		Greeting: u.DisplayName(),
		Cards:    cards,
	}
	templates.Render(w, r, "dashboard_page", data)
}

func (h *Handler) collect(ctx context.Context, u *auth.Session) ([]card, error) {
	sums := summariesFor(u.RoleName())
	cards := make([]card, len(sums))
	client := h.Client(u)

	g, gctx := errgroup.WithContext(ctx)
	for i, s := range sums {
		cards[i] = card{Label: s.Label, Href: s.Href}
		g.Go(func() error {
			n, err := count(gctx, client, s)
			if apiclient.IsUnauthorized(err) {
				return err
			}
			if err != nil {
				h.Log.Info("dashboard count failed", zap.String("path", s.Path), zap.Error(err))
				cards[i].Value, cards[i].Err = "–", true
				return nil
			}
			cards[i].Value = strconv.Itoa(n)
			return nil
		})
	}

	if u.HasRole(models.RoleAdmin) && h.Active != nil {
		cards = append(cards, card{Label: "Signed in now"})
		i := len(cards) - 1
		g.Go(func() error {
			n, err := h.Active.CountActive(gctx, h.ActiveWindow)
			if err != nil {
				h.Log.Warn("count active sessions", zap.Error(err))
				cards[i].Value, cards[i].Err = "–", true
				return nil
			}
			cards[i].Value = strconv.FormatInt(n, 10)
			return nil
		})
	}

	if u.HasRole(models.RoleAdmin) && h.Failed != nil {
		cards = append(cards, card{Label: "Failed sign-ins (24h)", Href: "/audit?event_type=" + audit.EventLoginFailed})
		i := len(cards) - 1
		g.Go(func() error {
			events, err := h.Failed.GetFailedLogins(gctx, h.now().Add(-failedLoginWindow), failedLoginCap)
			if err != nil {
				h.Log.Warn("count failed logins", zap.Error(err))
				cards[i].Value, cards[i].Err = "–", true
				return nil
			}
			cards[i].Value = strconv.Itoa(len(events))
			if len(events) >= failedLoginCap {
				cards[i].Value += "+"
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return cards, nil
}

func count(ctx context.Context, c *apiclient.Client, s summary) (int, error) {
	q := url.Values{}
	for k, v := range s.Query {
		q[k] = v
	}
	q.Set("per_page", "1")
	var page apiclient.Page[json.RawMessage]
	if err := c.Get(ctx, s.Path, q, &page); err != nil {
		return 0, err
	}
	return page.Total, nil
}
