package handlers

import "github.com/go-chi/chi/v5"

type Mountable interface {
	Mount(r chi.Router)
}

// listResponse is the envelope of every collection endpoint.
type listResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

func list[T any](items []T) listResponse[T] {
	items = nonNil(items)
	return listResponse[T]{Items: items, Count: len(items)}
}
