package rootly

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"net/url"
	"strings"

	"github.com/custodia-labs/rootly-sync/internal/logger"
)

const (
	paramPageSize   = "page[size]"
	paramPageNumber = "page[number]"
)

// pages walks a paginated collection lazily, one request per page.
// Iteration ends when the API reports no next page, a page is empty,
// maxPages is reached (zero means unlimited) or a cursor repeats.
func (c *Client) pages(ctx context.Context, path string, params url.Values, maxPages int) iter.Seq2[[]resource, error] {
	return func(yield func([]resource, error) bool) {
		next := c.endpointURL(path, params)
		seen := make(map[string]struct{})

		for page := 1; next != ""; page++ {
			if maxPages > 0 && page > maxPages {
				logger.Warn("rootly: %s: stopped after max_pages=%d", path, maxPages)
				return
			}
			if _, dup := seen[next]; dup {
				logger.Warn("rootly: %s: pagination cursor repeated, stopping", path)
				return
			}
			seen[next] = struct{}{}

			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			logger.Debug("rootly: fetching %s page %d", path, page)
			doc, err := c.getCollection(ctx, next)
			if err != nil {
				yield(nil, fmt.Errorf("fetch %s page %d: %w", path, page, err))
				return
			}
			if !yield(doc.Data, nil) {
				return
			}
			if len(doc.Data) == 0 {
				return
			}

			next, err = c.nextURL(next, doc)
			if err != nil {
				yield(nil, fmt.Errorf("fetch %s page %d: %w", path, page+1, err))
				return
			}
		}
	}
}

// nextURL resolves the next page from links.next or meta.next_page.
// Returns empty string on the last page.
func (c *Client) nextURL(current string, doc *collection) (string, error) {
	cur, err := url.Parse(current)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}

	if doc.Links.Next != nil && strings.TrimSpace(*doc.Links.Next) != "" {
		ref, err := url.Parse(strings.TrimSpace(*doc.Links.Next))
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidCursor, err)
		}
		next := cur.ResolveReference(ref)
		if !c.sameHost(next) {
			return "", ErrForeignCursor
		}
		return next.String(), nil
	}

	cursor, err := parseCursor(doc.Meta.NextPage)
	if err != nil {
		return "", err
	}
	if cursor == "" {
		return "", nil
	}
	q := cur.Query()
	q.Set(paramPageNumber, cursor)
	cur.RawQuery = q.Encode()
	return cur.String(), nil
}

// parseCursor reads meta.next_page, which may be a number, a string or null.
func parseCursor(raw json.RawMessage) (string, error) {
	if isNull(raw) {
		return "", nil
	}
	var cursor flexString
	if err := json.Unmarshal(raw, &cursor); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	return strings.TrimSpace(string(cursor)), nil
}
