// Package pager slices an ordered list into fixed-size pages.
package pager

import (
	"errors"
	"fmt"
)

// ErrInvalidPage is returned for page numbers below 1.
var ErrInvalidPage = errors.New("page number must be 1 or greater")

// Pager describes one page of a list. A PerPage of 0 means the list is not
// paginated and the single page holds every item.
type Pager[T any] struct {
	Page         int
	PerPage      int
	Items        []T
	TotalItems   int
	TotalPages   int
	PreviousPage *int
	NextPage     *int
}

// TotalPages returns ceil(count/perPage), or 1 when perPage <= 0.
func TotalPages(count, perPage int) int {
	if perPage <= 0 {
		return 1
	}
	return (count + perPage - 1) / perPage
}

// New builds the pager for page of items. Negative page sizes are treated as 0.
// A page past the end yields no items rather than an error.
func New[T any](page, perPage int, items []T) (Pager[T], error) {
	if page < 1 {
		return Pager[T]{}, fmt.Errorf("%w: got %d", ErrInvalidPage, page)
	}
	if perPage < 0 {
		perPage = 0
	}

	p := Pager[T]{
		Page:       page,
		PerPage:    perPage,
		TotalItems: len(items),
		TotalPages: TotalPages(len(items), perPage),
		Items:      slice(items, page, perPage),
	}
	if page > 1 {
		prev := page - 1
		p.PreviousPage = &prev
	}
	if page < p.TotalPages {
		next := page + 1
		p.NextPage = &next
	}
	return p, nil
}

func slice[T any](items []T, page, perPage int) []T {
	if perPage <= 0 {
		return items
	}
	start := (page - 1) * perPage
	if start >= len(items) {
		return []T{}
	}
	end := min(start+perPage, len(items))
	return items[start:end]
}
