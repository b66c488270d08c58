// internal/app/features/activity/types.go
package activity

import (
	"fmt"
	"time"

	"github.com/dalemusser/nursinghub/internal/app/store/audit"
	"github.com/dalemusser/nursinghub/internal/app/store/sessions"
	"github.com/dalemusser/nursinghub/internal/app/system/viewdata"
)

// Status represents a user's online status.
type Status string

const (
	StatusOnline Status = "online" // Heartbeat within OnlineThreshold
	StatusIdle   Status = "idle"   // Open session, quiet for longer
)

// OnlineThreshold is the duration within which a user is considered "online".
const OnlineThreshold = 2 * time.Minute

// maxOnline caps the rows of the online table.
const maxOnline = 200

// sessionRow is one session in a table.
type sessionRow struct {
	ID          string
	UserID      string
	Role        string
	Email       string
	Status      Status
	CurrentPage string
	LoginAt     time.Time
	LastActive  time.Time
	LogoutAt    *time.Time
	EndReason   string
	Duration    string
	IP          string
}

// dashboardData is the view model for the real-time dashboard.
type dashboardData struct {
	viewdata.BaseVM

	StatusFilter string // "all", "online", "idle"
	SearchQuery  string // matched against email and user id
	Rows         []sessionRow

	OnlineCount int
	IdleCount   int
}

// detailData is the view model for one user's session history.
type detailData struct {
	viewdata.BaseVM

	UserID   string
	Email    string
	Role     string
	Sessions []sessionRow
	Total    string // summed duration of closed sessions
	Events   []audit.Event
}

func statusOf(s sessions.Session, now time.Time) Status {
	if now.Sub(s.LastActiveAt) <= OnlineThreshold {
		return StatusOnline
	}
	return StatusIdle
}

func rowFrom(s sessions.Session, now time.Time) sessionRow {
	row := sessionRow{
		ID:          s.ID,
		UserID:      s.UserID,
		Role:        s.Role,
		Email:       s.Email,
		CurrentPage: s.CurrentPage,
		LoginAt:     s.LoginAt,
		LastActive:  s.LastActiveAt,
		LogoutAt:    s.LogoutAt,
		EndReason:   s.EndReason,
		IP:          s.IP,
	}
	if s.Open() {
		row.Status = statusOf(s, now)
		row.Duration = formatMinutes(int(now.Sub(s.LoginAt).Minutes()))
	} else {
		row.Duration = formatMinutes(int(s.DurationSecs / 60))
	}
	return row
}

// formatMinutes formats a duration in minutes as "Xh Ym" or "X min".
func formatMinutes(mins int) string {
	if mins < 0 {
		mins = 0
	}
	if mins >= 60 {
		return fmt.Sprintf("%dh %dm", mins/60, mins%60)
	}
	return fmt.Sprintf("%d min", mins)
}
