// internal/app/store/sessions/store.go
package sessions

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// End reasons
const (
	EndLogout   = "logout"
	EndExpired  = "expired"  // the API rejected the token
	EndInactive = "inactive" // closed by the cleanup worker
)

// ErrNotFound is returned when no session record has the given id.
var ErrNotFound = errors.New("sessions: not found")

// Session tracks one signed-in browser session for activity monitoring.
// ID is the same uuid carried in the session cookie.
type Session struct {
	ID     string `bson:"_id"`
	UserID string `bson:"user_id"`
	Role   string `bson:"role"`
	Email  string `bson:"email,omitempty"`

	LoginAt      time.Time  `bson:"login_at"`
	LogoutAt     *time.Time `bson:"logout_at,omitempty"`
	LastActiveAt time.Time  `bson:"last_active_at"`

	CurrentPage string `bson:"current_page,omitempty"`
	EndReason   string `bson:"end_reason,omitempty"`

	IP        string `bson:"ip"`
	UserAgent string `bson:"user_agent,omitempty"`

	DurationSecs int64 `bson:"duration_secs,omitempty"`
}

// Open reports whether the session has not been closed.
func (s Session) Open() bool { return s.LogoutAt == nil }

// Store manages activity sessions.
type Store struct {
	c   *mongo.Collection
	now func() time.Time
}

// New creates a new sessions Store.
func New(db *mongo.Database) *Store {
	return &Store{
		c:   db.Collection("sessions"),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// EnsureIndexes creates necessary indexes for efficient querying.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "logout_at", Value: 1}, {Key: "last_active_at", Value: -1}},
			Options: options.Index().SetName("idx_sessions_active"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "login_at", Value: -1}},
			Options: options.Index().SetName("idx_sessions_user"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create records a new session. Any session of the same user still open is
// closed as inactive first, so a user has at most one open session.
func (s *Store) Create(ctx context.Context, id, userID, role, email, ip, userAgent string) (Session, error) {
	now := s.now()

	if userID != "" {
		if _, err := s.c.UpdateMany(ctx,
			bson.M{"user_id": userID, "logout_at": nil},
			closePipeline(now, EndInactive),
		); err != nil {
			return Session{}, err
		}
	}

	sess := Session{
		ID:           id,
		UserID:       userID,
		Role:         role,
		Email:        email,
		LoginAt:      now,
		LastActiveAt: now,
		IP:           ip,
		UserAgent:    userAgent,
	}
	if _, err := s.c.InsertOne(ctx, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// closePipeline sets logout_at to at and computes duration_secs from
// login_at in the same update.
func closePipeline(at time.Time, reason string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"logout_at":  at,
			"end_reason": reason,
			"duration_secs": bson.M{"$toLong": bson.M{"$divide": bson.A{
				bson.M{"$subtract": bson.A{at, "$login_at"}}, 1000,
			}}},
		}}},
	}
}

// Close ends an open session with reason. Closing an already-closed session
// is a no-op; an unknown id returns ErrNotFound.
func (s *Store) Close(ctx context.Context, id, reason string) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "logout_at": nil}, closePipeline(s.now(), reason))
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateLastActive stamps activity on an open session. It reports whether a
// session was updated.
func (s *Store) UpdateLastActive(ctx context.Context, id, currentPage string) (bool, error) {
	update := bson.M{"last_active_at": s.now()}
	if currentPage != "" {
		update["current_page"] = currentPage
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "logout_at": nil}, bson.M{"$set": update})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// Reopen revives a session the cleanup worker closed as inactive, for a
// browser that turned out to still be open. Sessions ended by logout or
// expiry stay closed. It reports whether a session was reopened.
func (s *Store) Reopen(ctx context.Context, id, currentPage string) (bool, error) {
	set := bson.M{"last_active_at": s.now()}
	if currentPage != "" {
		set["current_page"] = currentPage
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "end_reason": EndInactive},
		bson.M{"$set": set, "$unset": bson.M{"logout_at": "", "end_reason": "", "duration_secs": ""}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// GetByID retrieves a session by its ID.
func (s *Store) GetByID(ctx context.Context, id string) (Session, error) {
	var sess Session
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&sess)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Session{}, ErrNotFound
	}
	return sess, err
}

// GetByUser retrieves session history for a user, newest first.
func (s *Store) GetByUser(ctx context.Context, userID string, limit int64) ([]Session, error) {
	return s.find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "login_at", Value: -1}}).SetLimit(limit))
}

// ListOpen returns open sessions, most recently active first.
func (s *Store) ListOpen(ctx context.Context, limit int64) ([]Session, error) {
	return s.find(ctx, bson.M{"logout_at": nil},
		options.Find().SetSort(bson.D{{Key: "last_active_at", Value: -1}}).SetLimit(limit))
}

// ListSince returns sessions that began at or after since, newest first.
func (s *Store) ListSince(ctx context.Context, since time.Time, limit int64) ([]Session, error) {
	return s.find(ctx, bson.M{"login_at": bson.M{"$gte": since}},
		options.Find().SetSort(bson.D{{Key: "login_at", Value: -1}}).SetLimit(limit))
}

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]Session, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []Session
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountActive counts open sessions active within the window, for the admin
// dashboard.
func (s *Store) CountActive(ctx context.Context, window time.Duration) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"logout_at":      nil,
		"last_active_at": bson.M{"$gte": s.now().Add(-window)},
	})
}

// CloseInactive closes open sessions idle longer than threshold. logout_at is
// set to the last activity, not to now.
func (s *Store) CloseInactive(ctx context.Context, threshold time.Duration) (int64, error) {
	cutoff := s.now().Add(-threshold)
	res, err := s.c.UpdateMany(ctx,
		bson.M{"logout_at": nil, "last_active_at": bson.M{"$lt": cutoff}},
		mongo.Pipeline{
			{{Key: "$set", Value: bson.M{
				"logout_at":  "$last_active_at",
				"end_reason": EndInactive,
				"duration_secs": bson.M{"$toLong": bson.M{"$divide": bson.A{
					bson.M{"$subtract": bson.A{"$last_active_at", "$login_at"}}, 1000,
				}}},
			}}},
		},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// Tracker records page activity for auth.SessionManager. Writes are
// throttled per session so browsing does not hit Mongo on every request.
type Tracker struct {
	store    *Store
	log      *zap.Logger
	interval time.Duration
	timeout  time.Duration

	mu   sync.Mutex
	last map[string]time.Time
}

// NewTracker returns a Tracker that writes at most once per interval per session.
func NewTracker(store *Store, interval, timeout time.Duration, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{
		store:    store,
		log:      logger,
		interval: interval,
		timeout:  timeout,
		last:     map[string]time.Time{},
	}
}

// Touch implements auth.ActivityTracker.
func (t *Tracker) Touch(ctx context.Context, sessionID, page string) {
	if sessionID == "" || !t.due(sessionID) {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), t.timeout)
	defer cancel()
	if _, err := t.store.UpdateLastActive(ctx, sessionID, page); err != nil {
		t.log.Warn("session activity update failed", zap.String("session_id", sessionID), zap.Error(err))
	}
}

// Forget drops the throttle entry for a closed session.
func (t *Tracker) Forget(sessionID string) {
	t.mu.Lock()
	delete(t.last, sessionID)
	t.mu.Unlock()
}

func (t *Tracker) due(sessionID string) bool {
	now := t.store.now()
	t.mu.Lock()
	defer t.mu.Unlock()
	if prev, ok := t.last[sessionID]; ok && now.Sub(prev) < t.interval {
		return false
	}
	t.last[sessionID] = now
	return true
}

// Begin opens the activity record for a fresh sign-in.
func (t *Tracker) Begin(ctx context.Context, sessionID, userID, role, email, ip, userAgent string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), t.timeout)
	defer cancel()
	if _, err := t.store.Create(ctx, sessionID, userID, role, email, ip, userAgent); err != nil {
		t.log.Warn("session record create failed", zap.String("session_id", sessionID), zap.Error(err))
		return
	}
	t.mu.Lock()
	t.last[sessionID] = t.store.now()
	t.mu.Unlock()
}

// End closes the activity record with reason and forgets its throttle entry.
func (t *Tracker) End(ctx context.Context, sessionID, reason string) {
	t.Forget(sessionID)
	if sessionID == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), t.timeout)
	defer cancel()
	if err := t.store.Close(ctx, sessionID, reason); err != nil && !errors.Is(err, ErrNotFound) {
		t.log.Warn("session record close failed", zap.String("session_id", sessionID), zap.Error(err))
	}
}
