package fetch_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/seclens/quarterback/pkg/service/fetch"
)

func TestCursor(t *testing.T) {
	ctx := context.Background()

	t.Run("drains until cursor is empty", func(t *testing.T) {
		pages := map[string][]int{
			"":  {1, 2},
			"a": {3, 4},
			"b": {5},
		}
		next := map[string]string{"": "a", "a": "b", "b": ""}

		var calls []string
		items, err := fetch.Cursor(ctx, func(ctx context.Context, cursor string) ([]int, string, error) {
			calls = append(calls, cursor)
			return pages[cursor], next[cursor], nil
		})
		gt.NoError(t, err)
		gt.Equal(t, items, []int{1, 2, 3, 4, 5})
		gt.Equal(t, calls, []string{"", "a", "b"})
	})

	t.Run("propagates page errors", func(t *testing.T) {
		boom := goerr.New("listing failed")
		_, err := fetch.Cursor(ctx, func(ctx context.Context, cursor string) ([]int, string, error) {
			return nil, "", boom
		})
		gt.Error(t, err)
	})
}

func TestPages(t *testing.T) {
	ctx := context.Background()

	t.Run("stops on a short page", func(t *testing.T) {
		full := []string{"a", "b", "c"}
		items, err := fetch.Pages(ctx, 3, func(ctx context.Context, page, size int) ([]string, error) {
			switch page {
			case 1:
				return full, nil
			case 2:
				return []string{"d"}, nil
			default:
				t.Fatalf("unexpected page %d", page)
				return nil, nil
			}
		})
		gt.NoError(t, err)
		gt.Equal(t, items, []string{"a", "b", "c", "d"})
	})

	t.Run("single empty page yields no items", func(t *testing.T) {
		items, err := fetch.Pages(ctx, 10, func(ctx context.Context, page, size int) ([]string, error) {
			gt.Equal(t, page, 1)
			return nil, nil
		})
		gt.NoError(t, err)
		gt.Equal(t, len(items), 0)
	})

	t.Run("rejects non-positive page size", func(t *testing.T) {
		_, err := fetch.Pages(ctx, 0, func(ctx context.Context, page, size int) ([]string, error) {
			return nil, nil
		})
		gt.Error(t, err)
	})
}

func TestNextLink(t *testing.T) {
	ctx := context.Background()

	t.Run("follows next links until absent", func(t *testing.T) {
		pages := map[string]struct {
			items []int
			next  string
		}{
			"https://x/api?page=1": {items: []int{1}, next: "https://x/api?page=2"},
			"https://x/api?page=2": {items: []int{2}, next: ""},
		}

		items, err := fetch.NextLink(ctx, "https://x/api?page=1", func(ctx context.Context, pageURL string) ([]int, string, error) {
			p, ok := pages[pageURL]
			gt.True(t, ok)
			return p.items, p.next, nil
		})
		gt.NoError(t, err)
		gt.Equal(t, items, []int{1, 2})
	})
}

func TestPageFromURL(t *testing.T) {
	t.Run("extracts page number", func(t *testing.T) {
		page, err := fetch.PageFromURL("https://vendor.example/api/v1/escalations?page=7&per_page=50")
		gt.NoError(t, err)
		gt.Equal(t, page, 7)
	})

	t.Run("error when page parameter missing", func(t *testing.T) {
		_, err := fetch.PageFromURL("https://vendor.example/api/v1/escalations?per_page=50")
		gt.Error(t, err)
	})

	t.Run("error when page is not numeric", func(t *testing.T) {
		_, err := fetch.PageFromURL("https://vendor.example/api?page=next")
		gt.Error(t, err)
	})
}
