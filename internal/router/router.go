package router

import (
	"net/http"

	"github.com/quiethour/quiethour/internal/handler"
)

// Router is the main routing interface for handling HTTP requests.
// It supports middleware chaining and route grouping with a custom,
// type-safe request context.
type Router[C handler.Context] interface {
	http.Handler

	Get(pattern string, h handler.HandlerFunc[C])
	Post(pattern string, h handler.HandlerFunc[C])
	Put(pattern string, h handler.HandlerFunc[C])
	Patch(pattern string, h handler.HandlerFunc[C])
	Delete(pattern string, h handler.HandlerFunc[C])

	// Use appends middleware applied to every route on this router.
	Use(middlewares ...handler.Middleware[C])

	// With returns a router scope whose routes additionally run the given
	// middleware. Routes register on the shared route table.
	With(middlewares ...handler.Middleware[C]) Router[C]

	// Group calls fn with a scoped router, for organizing route blocks.
	Group(fn func(r Router[C]))
}

// New creates a new router with the given options.
func New[C handler.Context](opts ...Option[C]) Router[C] {
	return newMux(opts...)
}
