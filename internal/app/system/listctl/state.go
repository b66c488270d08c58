package listctl

import "fmt"

// Phase is the lifecycle of a controller's collection.
type Phase int

const (
	Idle    Phase = iota // nothing requested yet, or required filters not set
	Loading              // a fetch is in flight
	Loaded               // Items reflect the latest fetch
	Failed               // the latest fetch failed; Items were discarded
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// State is a point-in-time copy of a controller. Mutating it never affects
// the controller.
type State[T any] struct {
	Name        string // plural resource name, e.g. "halls"
	Phase       Phase
	Items       []T
	CurrentPage int
	TotalPages  int
	TotalCount  int
	Filters     Filters
	Err         string
	Submitting  map[string]bool

	needsFilters bool
}

// Loading reports whether a fetch is in flight.
func (s State[T]) Loading() bool { return s.Phase == Loading }

// IsSubmitting reports whether the action key (see ActionKey) is in flight.
func (s State[T]) IsSubmitting(key string) bool { return s.Submitting[key] }

// HasPrev reports whether a previous page exists.
func (s State[T]) HasPrev() bool { return s.CurrentPage > 1 }

// HasNext reports whether a next page exists.
func (s State[T]) HasNext() bool { return s.CurrentPage < s.TotalPages }

// PrevPage and NextPage are template conveniences.
func (s State[T]) PrevPage() int { return s.CurrentPage - 1 }
func (s State[T]) NextPage() int { return s.CurrentPage + 1 }

// EmptyMessage explains an empty table: no filters applied yet versus
// filters applied with zero results. It is "" when rows are present or the
// list is loading or failed.
func (s State[T]) EmptyMessage() string {
	if len(s.Items) > 0 {
		return ""
	}
	switch s.Phase {
	case Idle:
		if s.needsFilters {
			return fmt.Sprintf("Select the filters above to load %s.", s.Name)
		}
		return ""
	case Loaded:
		if s.Filters.Any() {
			return fmt.Sprintf("No %s match the selected filters.", s.Name)
		}
		return fmt.Sprintf("No %s found.", s.Name)
	}
	return ""
}

// ActionKey names an in-flight mutation for Submitting.
func ActionKey(action, id string) string {
	if id == "" {
		return action
	}
	return action + ":" + id
}
