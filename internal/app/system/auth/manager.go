package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// userKey is the single cookie value holding the JSON-encoded Session.
const userKey = "user"

// ActivityTracker records that a signed-in session is still in use.
type ActivityTracker interface {
	Touch(ctx context.Context, sessionID, page string)
}

// SessionManager owns the encrypted session cookie.
type SessionManager struct {
	store   *sessions.CookieStore
	name    string
	maxAge  time.Duration
	log     *zap.Logger
	tracker ActivityTracker
	now     func() time.Time
}

// NewSessionManager builds the cookie store. Hash and block keys are derived
// from sessionKey, so one configured secret both signs and encrypts.
//
// In production (secure=true) cookies are Secure with SameSite=Lax.
// In local dev over http://localhost use secure=false.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	if name == "" {
		name = "nursinghub-session"
	}
	if maxAge <= 0 {
		maxAge = 12 * time.Hour
	}

	hashKey, err := DeriveKey(sessionKey, "session-hash", 32)
	if err != nil {
		return nil, err
	}
	blockKey, err := DeriveKey(sessionKey, "session-block", 32)
	if err != nil {
		return nil, err
	}

	store := sessions.NewCookieStore(hashKey, blockKey)
	store.MaxAge(int(maxAge.Seconds()))
	store.Options.Domain = domain
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = secure
	store.Options.SameSite = http.SameSiteLaxMode

	logger.Info("session store initialized",
		zap.String("name", name),
		zap.Bool("secure", secure),
		zap.String("domain", domain),
		zap.Duration("max_age", maxAge))

	return &SessionManager{
		store:  store,
		name:   name,
		maxAge: maxAge,
		log:    logger,
		now:    time.Now,
	}, nil
}

// SetActivityTracker enables per-request activity touches.
func (sm *SessionManager) SetActivityTracker(t ActivityTracker) { sm.tracker = t }

// MaxAge is the fallback lifetime for tokens without an exp claim.
func (sm *SessionManager) MaxAge() time.Duration { return sm.maxAge }

// User returns the stored Session, or nil when the cookie is missing,
// undecodable, incomplete or expired. It never fails.
func (sm *SessionManager) User(r *http.Request) *Session {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil || sess == nil {
		return nil
	}
	raw, ok := sess.Values[userKey].(string)
	if !ok || raw == "" {
		return nil
	}
	var u Session
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		sm.log.Debug("discarding malformed session record", zap.Error(err))
		return nil
	}
	if !u.valid() || u.Expired(sm.now()) {
		return nil
	}
	return &u
}

// SignIn overwrites the stored record with u.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, u *Session) error {
	if !u.valid() {
		return fmt.Errorf("sign in: session needs a role and an access token")
	}
	buf, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("sign in: encode session: %w", err)
	}

	// A cookie signed with an old key fails to decode; start fresh in that case.
	sess, _ := sm.store.Get(r, sm.name)
	if sess == nil {
		sess = sessions.NewSession(sm.store, sm.name)
	}
	sess.Values = map[any]any{userKey: string(buf)}
	opts := *sm.store.Options
	if !u.ExpiresAt.IsZero() {
		if ttl := u.ExpiresAt.Sub(sm.now()); ttl > 0 && ttl < sm.maxAge {
			opts.MaxAge = int(ttl.Seconds())
		}
	}
	sess.Options = &opts
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("sign in: save session: %w", err)
	}
	return nil
}

// SignOut deletes the stored record and expires the cookie.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, _ := sm.store.Get(r, sm.name)
	if sess == nil {
		sess = sessions.NewSession(sm.store, sm.name)
	}
	sess.Values = map[any]any{}
	opts := *sm.store.Options
	opts.MaxAge = -1
	sess.Options = &opts
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}
