package listctl

import (
	"context"
	"net/url"
	"strconv"

	"github.com/dalemusser/nursinghub/internal/app/system/apiclient"
)

// REST is a Backend over conventional resource endpoints:
//
//	GET    {Path}?page=&per_page=&<filters>
//	POST   {Path}
//	PUT    {Path}/{id}
//	DELETE {Path}/{id}
//	PATCH  {Path}/{id}/status   {"<StatusField>": bool}
type REST[T, D any] struct {
	Client      *apiclient.Client
	Path        string
	StatusField string // JSON field for SetStatus, e.g. "is_active"
}

// List implements Backend.
func (b *REST[T, D]) List(ctx context.Context, q Query) (Result[T], error) {
	params := q.Filters.Values()
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		params.Set("per_page", strconv.Itoa(q.PageSize))
	}

	var page apiclient.Page[T]
	if err := b.Client.Get(ctx, b.Path, params, &page); err != nil {
		return Result[T]{}, err
	}
	return Result[T]{
		Items:       page.Data,
		CurrentPage: page.CurrentPage,
		TotalPages:  page.LastPage,
		TotalCount:  page.Total,
		PerPage:     page.PerPage,
	}, nil
}

// Create implements Backend.
func (b *REST[T, D]) Create(ctx context.Context, draft D) (T, error) {
	var env apiclient.Envelope[T]
	err := b.Client.Post(ctx, b.Path, draft, &env)
	return env.Data, err
}

// Update implements Backend.
func (b *REST[T, D]) Update(ctx context.Context, id string, draft D) (T, error) {
	var env apiclient.Envelope[T]
	err := b.Client.Put(ctx, b.itemPath(id), draft, &env)
	return env.Data, err
}

// Delete implements Backend.
func (b *REST[T, D]) Delete(ctx context.Context, id string) error {
	return b.Client.Delete(ctx, b.itemPath(id), nil)
}

// SetStatus implements StatusBackend.
func (b *REST[T, D]) SetStatus(ctx context.Context, id string, active bool) error {
	field := b.StatusField
	if field == "" {
		field = "is_active"
	}
	return b.Client.Patch(ctx, b.itemPath(id)+"/status", map[string]bool{field: active}, nil)
}

func (b *REST[T, D]) itemPath(id string) string {
	return b.Path + "/" + url.PathEscape(id)
}
