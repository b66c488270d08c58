// Package listctl owns the state of one paginated, filterable, mutable
// collection of API records: fetching pages, creating, editing, deleting
// and toggling status.
//
// A Controller is safe for concurrent use. Fetches are numbered; only the
// most recently issued fetch may change the collection, so a slow response
// to an old filter can never overwrite a newer one. Create, Update and
// Remove wait for the API before touching the collection. ToggleStatus flips
// the item first and reverts it if the API refuses.
package listctl

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dalemusser/nursinghub/internal/app/system/inputval"
	"github.com/dalemusser/nursinghub/internal/app/system/usermsg"
	"go.uber.org/zap"
)

// Query is what a Backend is asked to list.
type Query struct {
	Page     int
	PageSize int
	Filters  Filters
}

// Result is one page of records.
type Result[T any] struct {
	Items       []T
	CurrentPage int
	TotalPages  int
	TotalCount  int
	PerPage     int
}

// Backend performs the network calls for one resource.
type Backend[T, D any] interface {
	List(ctx context.Context, q Query) (Result[T], error)
	Create(ctx context.Context, draft D) (T, error)
	Update(ctx context.Context, id string, draft D) (T, error)
	Delete(ctx context.Context, id string) error
}

// StatusBackend is implemented by backends whose records carry an
// active/verified flag.
type StatusBackend interface {
	SetStatus(ctx context.Context, id string, active bool) error
}

// Options configures a Controller.
type Options[T any] struct {
	Name            string       // plural, lower-case: "halls"
	PageSize        int          // requested page size; 0 lets the API decide
	RequiredFilters []FilterSpec // all or nothing before a list is requested
	ID              func(T) string
	Status          func(T) bool    // optional
	WithStatus      func(T, bool) T // optional, pairs with Status
	Fallback        string          // message for API errors without one
	Logger          *zap.Logger
}

// Controller manages one collection.
type Controller[T, D any] struct {
	backend Backend[T, D]
	opts    Options[T]
	log     *zap.Logger

	mu      sync.Mutex
	seq     uint64
	perPage int
	state   State[T]
}

// New returns an Idle controller. It panics when opts.ID is nil; every
// resource has an identifier, so a missing one is a programming error.
func New[T, D any](backend Backend[T, D], opts Options[T]) *Controller[T, D] {
	if opts.ID == nil {
		panic("listctl: Options.ID is required")
	}
	if opts.Name == "" {
		opts.Name = "records"
	}
	if opts.Fallback == "" {
		opts.Fallback = fmt.Sprintf("Unable to load %s. Please try again.", opts.Name)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller[T, D]{
		backend: backend,
		opts:    opts,
		log:     logger,
		state: State[T]{
			Name:         opts.Name,
			Phase:        Idle,
			Filters:      Filters{},
			Submitting:   map[string]bool{},
			needsFilters: len(opts.RequiredFilters) > 0,
		},
	}
}

// Snapshot returns an independent copy of the current state.
func (c *Controller[T, D]) Snapshot() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller[T, D]) snapshotLocked() State[T] {
	s := c.state
	if c.state.Items != nil {
		s.Items = append(make([]T, 0, len(c.state.Items)), c.state.Items...)
	}
	s.Filters = c.state.Filters.Clone()
	s.Submitting = make(map[string]bool, len(c.state.Submitting))
	for k, v := range c.state.Submitting {
		s.Submitting[k] = v
	}
	return s
}

// RequiredFilters lists the filters that must be set together.
func (c *Controller[T, D]) RequiredFilters() []FilterSpec {
	return append([]FilterSpec(nil), c.opts.RequiredFilters...)
}

// ClearError dismisses the current error message.
func (c *Controller[T, D]) ClearError() {
	c.mu.Lock()
	c.state.Err = ""
	c.mu.Unlock()
}

// Fetch requests page of the collection under filters.
//
// With required filters configured: none set keeps the controller Idle
// without a request; some but not all set returns a *ValidationError naming
// the first missing one, also without a request. Either way any fetch still
// in flight is superseded.
//
// A fetch whose response arrives after a newer fetch was issued returns
// ErrSuperseded and leaves the state alone.
func (c *Controller[T, D]) Fetch(ctx context.Context, page int, filters Filters) error {
	filters = filters.Clean()
	if page < 1 {
		page = 1
	}

	c.mu.Lock()
	if len(c.opts.RequiredFilters) > 0 {
		present, missing := checkRequired(filters, c.opts.RequiredFilters)
		if present == 0 || missing != nil {
			c.seq++
			c.resetLocked(filters)
			if present == 0 {
				c.mu.Unlock()
				return nil
			}
			ve := &ValidationError{
				Field:   missing.Key,
				Message: fmt.Sprintf("Please select a %s.", strings.ToLower(missing.Label)),
			}
			c.state.Err = ve.Message
			c.mu.Unlock()
			return ve
		}
	}

	c.seq++
	seq := c.seq
	c.state.Phase = Loading
	c.state.Filters = filters.Clone()
	c.state.Err = ""
	c.mu.Unlock()

	res, err := c.backend.List(ctx, Query{Page: page, PageSize: c.opts.PageSize, Filters: filters.Clone()})
	if err == nil && pastLastPage(res, page) {
		// The items belong to a page that does not exist; load the last one.
		c.log.Debug("requested page past the end, loading the last page",
			zap.String("resource", c.opts.Name),
			zap.Int("page", page),
			zap.Int("last", res.TotalPages))
		page = res.TotalPages
		res, err = c.backend.List(ctx, Query{Page: page, PageSize: c.opts.PageSize, Filters: filters.Clone()})
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		c.log.Debug("discarding stale list response",
			zap.String("resource", c.opts.Name),
			zap.Int("page", page),
			zap.Uint64("seq", seq),
			zap.Uint64("latest", c.seq))
		return ErrSuperseded
	}

	if err != nil {
		c.state.Phase = Failed
		c.state.Items = nil
		c.state.CurrentPage = 0
		c.state.TotalPages = 0
		c.state.TotalCount = 0
		c.state.Err = usermsg.For(err, c.opts.Fallback)
		c.log.Warn("list fetch failed",
			zap.String("resource", c.opts.Name),
			zap.Int("page", page),
			zap.Error(err))
		return err
	}

	c.applyLocked(res, page)
	return nil
}

// pastLastPage reports whether res answers a page beyond its last page.
func pastLastPage[T any](res Result[T], requested int) bool {
	cur := res.CurrentPage
	if cur < 1 {
		cur = requested
	}
	return res.TotalPages > 0 && cur > res.TotalPages
}

func (c *Controller[T, D]) resetLocked(filters Filters) {
	c.state.Phase = Idle
	c.state.Items = nil
	c.state.CurrentPage = 0
	c.state.TotalPages = 0
	c.state.TotalCount = 0
	c.state.Filters = filters.Clone()
	c.state.Err = ""
}

func (c *Controller[T, D]) applyLocked(res Result[T], requested int) {
	items := res.Items
	if items == nil {
		items = []T{}
	}

	c.perPage = res.PerPage
	if c.perPage <= 0 {
		c.perPage = c.opts.PageSize
	}
	if c.perPage > 0 && len(items) > c.perPage {
		items = items[:c.perPage]
	}

	total := res.TotalCount
	if total < len(items) {
		total = len(items)
	}
	pages := res.TotalPages
	if pages < 0 {
		pages = 0
	}
	if pages == 0 && len(items) > 0 {
		pages = 1
	}
	cur := res.CurrentPage
	if cur < 1 {
		cur = requested
	}
	if pages > 0 && cur > pages {
		cur = pages
	}
	if pages == 0 {
		cur = 1
	}

	c.state.Phase = Loaded
	c.state.Items = append(make([]T, 0, len(items)), items...)
	c.state.CurrentPage = cur
	c.state.TotalPages = pages
	c.state.TotalCount = total
	c.state.Err = ""
}

// ChangePage fetches page n with the current filters. It returns
// ErrPageOutOfRange, changing nothing, when n is outside [1, TotalPages]
// (only page 1 is valid while there are no pages).
func (c *Controller[T, D]) ChangePage(ctx context.Context, n int) error {
	c.mu.Lock()
	pages := c.state.TotalPages
	filters := c.state.Filters.Clone()
	c.mu.Unlock()

	if n < 1 || (pages == 0 && n != 1) || (pages > 0 && n > pages) {
		return ErrPageOutOfRange
	}
	return c.Fetch(ctx, n, filters)
}

// Open serves a list page request for page under filters. When the filters
// match the loaded collection it is a page change: pages outside
// [1, TotalPages] are brought to the nearest end, the current page is
// refreshed and any other page goes through ChangePage. Otherwise it is a
// new Fetch.
func (c *Controller[T, D]) Open(ctx context.Context, page int, filters Filters) error {
	c.mu.Lock()
	same := c.state.Phase == Loaded && c.state.Filters.Equal(filters)
	cur, pages := c.state.CurrentPage, c.state.TotalPages
	c.mu.Unlock()

	if !same {
		return c.Fetch(ctx, page, filters)
	}
	switch {
	case page < 1 || pages == 0:
		page = 1
	case page > pages:
		page = pages
	}
	if page == cur {
		return c.Refresh(ctx)
	}
	return c.ChangePage(ctx, page)
}

// Refresh re-fetches the current page with the current filters.
func (c *Controller[T, D]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	page := c.state.CurrentPage
	filters := c.state.Filters.Clone()
	c.mu.Unlock()
	return c.Fetch(ctx, page, filters)
}

// Create validates draft, sends it, and on success prepends the new record.
func (c *Controller[T, D]) Create(ctx context.Context, draft D) (T, error) {
	var zero T
	if err := c.validate(draft); err != nil {
		return zero, err
	}

	key := ActionKey("create", "")
	if !c.begin(key) {
		return zero, ErrBusy
	}
	defer c.end(key)

	item, err := c.backend.Create(ctx, draft)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.failLocked("create", "", err)
		return zero, err
	}

	if c.state.Phase == Loaded {
		items := append([]T{item}, c.state.Items...)
		if c.perPage > 0 && len(items) > c.perPage {
			items = items[:c.perPage]
		}
		c.state.Items = items
		c.state.TotalCount++
		c.recountLocked()
	}
	c.state.Err = ""
	return item, nil
}

// Update validates draft, sends it, and on success replaces the record with id.
func (c *Controller[T, D]) Update(ctx context.Context, id string, draft D) (T, error) {
	var zero T
	id = strings.TrimSpace(id)
	if id == "" {
		return zero, c.missingID()
	}
	if err := c.validate(draft); err != nil {
		return zero, err
	}

	key := ActionKey("update", id)
	if !c.begin(key) {
		return zero, ErrBusy
	}
	defer c.end(key)

	item, err := c.backend.Update(ctx, id, draft)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.failLocked("update", id, err)
		return zero, err
	}

	if i := c.indexLocked(id); i >= 0 {
		c.state.Items[i] = item
	}
	c.state.Err = ""
	return item, nil
}

// Remove deletes id and on success drops it from the collection.
// On failure the record stays and Err is set.
func (c *Controller[T, D]) Remove(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return c.missingID()
	}

	key := ActionKey("remove", id)
	if !c.begin(key) {
		return ErrBusy
	}
	defer c.end(key)

	err := c.backend.Delete(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.failLocked("remove", id, err)
		return err
	}

	if i := c.indexLocked(id); i >= 0 {
		c.state.Items = append(c.state.Items[:i:i], c.state.Items[i+1:]...)
	}
	if c.state.TotalCount > 0 {
		c.state.TotalCount--
	}
	c.recountLocked()
	c.state.Err = ""
	return nil
}

// ToggleStatus flips the status of id immediately, then asks the API.
// If the API refuses, the flip is undone (unless something else has changed
// the record since) and Err is set.
func (c *Controller[T, D]) ToggleStatus(ctx context.Context, id string) error {
	sb, ok := c.backend.(StatusBackend)
	if !ok || c.opts.Status == nil || c.opts.WithStatus == nil {
		return ErrUnsupported
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return c.missingID()
	}

	key := ActionKey("toggle", id)
	if !c.begin(key) {
		return ErrBusy
	}
	defer c.end(key)

	c.mu.Lock()
	i := c.indexLocked(id)
	if i < 0 {
		c.mu.Unlock()
		return ErrNotFound
	}
	was := c.opts.Status(c.state.Items[i])
	want := !was
	c.state.Items[i] = c.opts.WithStatus(c.state.Items[i], want)
	c.mu.Unlock()

	err := sb.SetStatus(ctx, id, want)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		if j := c.indexLocked(id); j >= 0 && c.opts.Status(c.state.Items[j]) == want {
			c.state.Items[j] = c.opts.WithStatus(c.state.Items[j], was)
		}
		c.failLocked("toggle", id, err)
		return err
	}
	c.state.Err = ""
	return nil
}

// ToggleItem flips the status of a record the caller already holds, such as
// one fetched for a confirmation page. A record on the loaded page goes
// through ToggleStatus. Any other record is flipped on the API from item's
// status and the collection is left alone.
func (c *Controller[T, D]) ToggleItem(ctx context.Context, item T) error {
	id := strings.TrimSpace(c.opts.ID(item))
	if _, loaded := c.Item(id); loaded {
		return c.ToggleStatus(ctx, id)
	}

	sb, ok := c.backend.(StatusBackend)
	if !ok || c.opts.Status == nil || c.opts.WithStatus == nil {
		return ErrUnsupported
	}
	if id == "" {
		return c.missingID()
	}

	key := ActionKey("toggle", id)
	if !c.begin(key) {
		return ErrBusy
	}
	defer c.end(key)

	err := sb.SetStatus(ctx, id, !c.opts.Status(item))

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.failLocked("toggle", id, err)
		return err
	}
	c.state.Err = ""
	return nil
}

// Item returns the loaded record with id.
func (c *Controller[T, D]) Item(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexLocked(id); i >= 0 {
		return c.state.Items[i], true
	}
	var zero T
	return zero, false
}

func (c *Controller[T, D]) validate(draft D) error {
	if err := inputval.Validate(draft).Err(); err != nil {
		ve := &ValidationError{Message: err.Error()}
		if ie, ok := err.(*inputval.Error); ok {
			ve.Field = ie.Field
		}
		c.mu.Lock()
		c.state.Err = ve.Message
		c.mu.Unlock()
		return ve
	}
	return nil
}

func (c *Controller[T, D]) missingID() error {
	ve := &ValidationError{Field: "id", Message: "A record must be selected first."}
	c.mu.Lock()
	c.state.Err = ve.Message
	c.mu.Unlock()
	return ve
}

func (c *Controller[T, D]) begin(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Submitting[key] {
		return false
	}
	c.state.Submitting[key] = true
	return true
}

func (c *Controller[T, D]) end(key string) {
	c.mu.Lock()
	delete(c.state.Submitting, key)
	c.mu.Unlock()
}

func (c *Controller[T, D]) failLocked(action, id string, err error) {
	c.state.Err = usermsg.For(err, c.opts.Fallback)
	c.log.Warn("list mutation failed",
		zap.String("resource", c.opts.Name),
		zap.String("action", action),
		zap.String("id", id),
		zap.Error(err))
}

func (c *Controller[T, D]) indexLocked(id string) int {
	for i, it := range c.state.Items {
		if c.opts.ID(it) == id {
			return i
		}
	}
	return -1
}

// recountLocked keeps TotalPages and CurrentPage consistent with TotalCount
// after local inserts and removals.
func (c *Controller[T, D]) recountLocked() {
	if c.perPage <= 0 {
		if c.state.TotalCount > 0 && c.state.TotalPages == 0 {
			c.state.TotalPages = 1
		}
		return
	}
	pages := (c.state.TotalCount + c.perPage - 1) / c.perPage
	c.state.TotalPages = pages
	if pages == 0 {
		c.state.CurrentPage = 1
		return
	}
	if c.state.CurrentPage > pages {
		c.state.CurrentPage = pages
	}
	if c.state.CurrentPage < 1 {
		c.state.CurrentPage = 1
	}
}
