package bitbucket

import (
	"context"
	"fmt"
	"iter"
)

// pageEnvelope is the Bitbucket 2.0 paginated response shape: a values
// array plus an optional absolute URL for the next page. The next URL
// already carries the original query parameters.
type pageEnvelope[T any] struct {
	Values []T    `json:"values"`
	Next   string `json:"next"`
}

// followPages returns a lazy sequence over every item of a paginated
// listing, fetching pages on demand and following the embedded next cursor
// until none remains. Breaking out of the range stops further page fetches.
// A page fetch failure yields a single non-nil error and ends the sequence;
// no items from the broken page are yielded.
//
// Both the pull request and comment listings share this cursor logic, which
// is why it is a package-level generic function rather than a method.
func followPages[T any](ctx context.Context, c *Client, first string) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		next := first
		for next != "" {
			var page pageEnvelope[T]
			if err := c.getJSON(ctx, next, &page); err != nil {
				var zero T
				yield(zero, fmt.Errorf("fetching page: %w", err))
				return
			}
			for _, v := range page.Values {
				if !yield(v, nil) {
					return
				}
			}
			next = page.Next
		}
	}
}
