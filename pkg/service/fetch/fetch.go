// Package fetch drains paginated vendor listings behind one sequential
// loop, so callers never see a vendor's pagination idiom. Three idioms are
// supported: opaque cursor, page number + page size, and a "next" URL
// embedded in each response. Every variant iterates until the provider
// signals exhaustion and never assumes a fixed page count.
package fetch

import (
	"context"
	"net/url"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
)

// CursorFunc fetches one page for an opaque-cursor listing. An empty cursor
// requests the first page; an empty next cursor ends the walk.
type CursorFunc[T any] func(ctx context.Context, cursor string) (items []T, next string, err error)

// Cursor drains a cursor-paginated listing.
func Cursor[T any](ctx context.Context, fn CursorFunc[T]) ([]T, error) {
	var all []T
	cursor := ""
	for {
		items, next, err := fn(ctx, cursor)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if next == "" {
			return all, nil
		}
		cursor = next
	}
}

// PageFunc fetches one page for a page-number listing. Pages are 1-based.
type PageFunc[T any] func(ctx context.Context, page, size int) ([]T, error)

// Pages drains a page-number listing. The walk ends when a page comes back
// with fewer items than the page size.
func Pages[T any](ctx context.Context, pageSize int, fn PageFunc[T]) ([]T, error) {
	if pageSize <= 0 {
		return nil, goerr.New("page size must be positive", goerr.V("pageSize", pageSize))
	}
	var all []T
	for page := 1; ; page++ {
		items, err := fn(ctx, page, pageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if len(items) < pageSize {
			return all, nil
		}
	}
}

// NextLinkFunc fetches the page at pageURL and returns the response's "next"
// link, or "" when there are no further pages.
type NextLinkFunc[T any] func(ctx context.Context, pageURL string) (items []T, next string, err error)

// NextLink drains a listing whose responses embed the URL of the following
// page, starting from first. The walk is iterative regardless of result-set
// size.
func NextLink[T any](ctx context.Context, first string, fn NextLinkFunc[T]) ([]T, error) {
	var all []T
	for pageURL := first; pageURL != ""; {
		items, next, err := fn(ctx, pageURL)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		pageURL = next
	}
	return all, nil
}

// PageFromURL extracts the value of the "page" query parameter from a next
// link, for vendors that only echo the next page number inside the URL.
func PageFromURL(next string) (int, error) {
	u, err := url.Parse(next)
	if err != nil {
		return 0, goerr.Wrap(err, "invalid next link", goerr.V("url", next))
	}
	raw := u.Query().Get("page")
	if raw == "" {
		return 0, goerr.New("next link has no page parameter", goerr.V("url", next))
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, goerr.Wrap(err, "next link page is not a number", goerr.V("url", next))
	}
	return page, nil
}
