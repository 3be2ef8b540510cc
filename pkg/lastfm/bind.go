package lastfm

import (
	"context"
	"fmt"
	"strings"
)

// model is the constraint satisfied by every bindable type: a pointer to T
// that can decode itself from normalized attributes and record the request
// that produced it.
type model[T any] interface {
	*T
	decode(a attrs)
	attach(p Params)
}

// rootValue returns the content of a response. Last.fm wraps every
// response one level down under a resource-specific key such as "track"
// or "results"; payloads with several top-level keys are returned as is.
func rootValue(payload map[string]any) any {
	if len(payload) != 1 {
		return payload
	}
	for _, v := range payload {
		return v
	}
	return nil
}

// bindOne decodes payload as a single T.
//
// An empty payload yields a zero T, as write operations often answer with
// no content.
func bindOne[T any, PT model[T]](payload map[string]any, params Params) (*T, error) {
	out := PT(new(T))
	out.attach(params)
	if len(payload) == 0 {
		return (*T)(out), nil
	}

	switch root := rootValue(payload).(type) {
	case map[string]any:
		out.decode(attrs(root))
	case nil:
	case string:
		// Empty results are sometimes sent as "\n".
		if strings.TrimSpace(root) != "" {
			return nil, fmt.Errorf("lastfm: cannot bind %T from a string", out)
		}
	default:
		return nil, fmt.Errorf("lastfm: cannot bind %T from %T", out, root)
	}
	return (*T)(out), nil
}

// bindMany decodes the list found at path inside the response content.
//
// A missing path segment yields an empty collection, so searches without
// matches are not errors. A single object where a list is expected is
// treated as a one-element list.
func bindMany[T any, PT model[T]](c *Client, r Request, payload map[string]any, path string) *Collection[T] {
	col := &Collection[T]{req: r}

	root := asAttrs(rootValue(payload))
	col.readPagination(root)

	var items []any
	if path == "" {
		if len(root) > 0 {
			items = []any{map[string]any(root)}
		}
	} else if v, ok := root.path(path); ok {
		items = listValue(v)
	}

	col.Items = make([]T, 0, len(items))
	for _, item := range items {
		var v T
		PT(&v).decode(asAttrs(item))
		col.Items = append(col.Items, v)
	}

	params := r.Params.Clone()
	if params.Int("page") == 0 && col.Page > 0 {
		params["page"] = col.Page
	}
	col.params = params
	col.req.Params = params

	col.fetch = func(ctx context.Context, next Request) (*Collection[T], error) {
		return fetchMany[T, PT](ctx, c, next, path)
	}
	return col
}

// bindRaw wraps payload without interpreting it.
func bindRaw(payload map[string]any, params Params) *RawResponse {
	raw := &RawResponse{}
	raw.attach(params)
	if len(payload) > 0 {
		raw.Data = payload
	}
	return raw
}

func fetchOne[T any, PT model[T]](ctx context.Context, c *Client, r Request) (*T, error) {
	payload, err := c.do(ctx, r)
	if err != nil {
		return nil, err
	}
	return bindOne[T, PT](payload, r.Params.Clone())
}

func fetchMany[T any, PT model[T]](ctx context.Context, c *Client, r Request, path string) (*Collection[T], error) {
	payload, err := c.do(ctx, r)
	if err != nil {
		return nil, err
	}
	return bindMany[T, PT](c, r, payload, path), nil
}

func fetchRaw(ctx context.Context, c *Client, r Request) (*RawResponse, error) {
	payload, err := c.do(ctx, r)
	if err != nil {
		return nil, err
	}
	return bindRaw(payload, r.Params.Clone()), nil
}
