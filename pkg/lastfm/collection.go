package lastfm

import (
	"context"
)

// Collection is one page of a paginated Last.fm listing.
//
// Paging never mutates a collection: Next and Prev issue a new request with
// the same filters and return a new Collection.
type Collection[T any] struct {
	Items []T

	Page       int // 1-based, 0 when unknown
	Limit      int
	Total      int
	TotalPages int

	// Query echoes, set when Last.fm reports them.
	Tag      string
	User     string
	Artist   string
	FromDate string
	ToDate   string

	params Params
	req    Request
	fetch  func(ctx context.Context, r Request) (*Collection[T], error)
}

// Len returns the number of items on this page.
func (c *Collection[T]) Len() int {
	return len(c.Items)
}

// RequestParams returns a copy of the parameters that produced this page.
// The copy always carries "page" when the page number is known.
func (c *Collection[T]) RequestParams() Params {
	return c.params.Clone()
}

// HasNext reports whether a later page exists.
func (c *Collection[T]) HasNext() bool {
	return c.Page > 0 && c.TotalPages > 0 && c.Page < c.TotalPages
}

// HasPrev reports whether an earlier page exists.
func (c *Collection[T]) HasPrev() bool {
	return c.Page > 1
}

// Next fetches the following page. It returns ErrNoMorePages when HasNext
// is false.
func (c *Collection[T]) Next(ctx context.Context) (*Collection[T], error) {
	if !c.HasNext() {
		return nil, ErrNoMorePages
	}
	if c.fetch == nil {
		return nil, ErrDetachedCollection
	}
	return c.fetch(ctx, c.req.withPage(c.Page+1))
}

// Prev fetches the preceding page. It returns ErrNoMorePages when HasPrev
// is false.
func (c *Collection[T]) Prev(ctx context.Context) (*Collection[T], error) {
	if !c.HasPrev() {
		return nil, ErrNoMorePages
	}
	if c.fetch == nil {
		return nil, ErrDetachedCollection
	}
	return c.fetch(ctx, c.req.withPage(c.Page-1))
}

// readPagination collects page metadata from the places Last.fm uses:
// the "attr" object of list responses, the content object itself, and the
// opensearch "query" object of searches.
func (c *Collection[T]) readPagination(root attrs) {
	meta := []attrs{root.sub("attr"), root, root.sub("query")}
	// The content object also holds the items, which may share a name
	// with an echo ("artist", "tag"), so echoes skip it.
	echoes := []attrs{meta[0], meta[2]}

	pick := func(sources []attrs, key string) any {
		for _, src := range sources {
			if v, ok := src[key]; ok {
				return v
			}
		}
		return nil
	}

	c.Page = intValue(pick(meta, "page"))
	c.Limit = intValue(pick(meta, "limit"))
	c.Total = intValue(pick(meta, "total"))
	c.TotalPages = intValue(pick(meta, "total_pages"))
	c.Tag = stringValue(pick(echoes, "tag"))
	c.User = stringValue(pick(echoes, "user"))
	c.Artist = stringValue(pick(echoes, "artist"))
	c.FromDate = stringValue(pick(echoes, "from_date"))
	c.ToDate = stringValue(pick(echoes, "to_date"))

	if c.Page == 0 {
		c.Page = c.req.Params.Int("page")
	}
	if c.TotalPages == 0 && c.Total > 0 && c.Limit > 0 {
		c.TotalPages = (c.Total + c.Limit - 1) / c.Limit
	}
}

// ListOptions selects a page of a listing. Zero fields are not sent and
// Last.fm applies its defaults (page 1, usually 50 items).
type ListOptions struct {
	Page  int
	Limit int
}

func (o ListOptions) apply(p Params) Params {
	if p == nil {
		p = Params{}
	}
	p["page"] = optInt(o.Page)
	p["limit"] = optInt(o.Limit)
	return p
}
