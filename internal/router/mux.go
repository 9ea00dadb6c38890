package router

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"
	"strings"

	"github.com/quiethour/quiethour/internal/handler"
)

// route is a single registered pattern like "/devotions/{date}".
type route[C handler.Context] struct {
	method   string
	segments []string
	handler  handler.HandlerFunc[C]
}

// mux is the private implementation of Router. Scopes created by With share
// the route table with the root; only the root's ServeHTTP is used.
type mux[C handler.Context] struct {
	routes       *[]route[C]
	middlewares  []handler.Middleware[C]
	scopedWith   []handler.Middleware[C]
	scoped       bool
	errorHandler handler.ErrorHandler[C]
	newContext   func(http.ResponseWriter, *http.Request, map[string]string) C
	logger       *slog.Logger
}

func newMux[C handler.Context](opts ...Option[C]) *mux[C] {
	routes := make([]route[C], 0)
	m := &mux[C]{
		routes:       &routes,
		errorHandler: defaultErrorHandler[C],
		logger:       slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.newContext == nil {
		panic(ErrNoContextFactory)
	}

	return m
}

// ServeHTTP implements http.Handler.
func (m *mux[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ww := newResponseWriter(w)

	path := r.URL.Path
	if path == "" {
		path = "/"
	}

	rt, params, allowed := m.match(r.Method, path)

	ctx := m.newContext(ww, r, params)

	// Recover from handler panics so one request cannot crash the server.
	defer func() {
		if p := recover(); p != nil {
			panicErr := &panicError{value: p, stack: debug.Stack()}
			if ww.Written() {
				m.logger.Error("panic after response written",
					"value", panicErr.value,
					"stack", string(panicErr.stack),
					"path", r.URL.Path,
					"method", r.Method,
					"status", ww.Status(),
				)
			} else {
				m.errorHandler(ctx, panicErr)
			}
		}
	}()

	if rt == nil {
		if len(allowed) > 0 {
			if !ww.Written() {
				ww.Header().Set("Allow", strings.Join(allowed, ", "))
			}
			m.errorHandler(ctx, ErrMethodNotAllowed)
		} else {
			m.errorHandler(ctx, ErrNotFound)
		}
		return
	}

	fn := rt.handler
	if len(m.middlewares) > 0 {
		fn = chain(m.middlewares, fn)
	}

	resp := fn(ctx)
	if resp == nil {
		m.errorHandler(ctx, ErrNilResponse)
		return
	}

	if err := resp(ww, r); err != nil {
		m.errorHandler(ctx, err)
	}
}

// match finds the route for method+path. When only the method differs, it
// returns the set of allowed methods for the 405 response.
func (m *mux[C]) match(method, path string) (*route[C], map[string]string, []string) {
	segments := splitPath(path)

	var allowed []string
	for i := range *m.routes {
		rt := &(*m.routes)[i]
		params, ok := matchSegments(rt.segments, segments)
		if !ok {
			continue
		}
		if rt.method != method {
			if !slices.Contains(allowed, rt.method) {
				allowed = append(allowed, rt.method)
			}
			continue
		}
		return rt, params, nil
	}
	return nil, nil, allowed
}

func (m *mux[C]) Get(pattern string, h handler.HandlerFunc[C])    { m.handle(http.MethodGet, pattern, h) }
func (m *mux[C]) Post(pattern string, h handler.HandlerFunc[C])   { m.handle(http.MethodPost, pattern, h) }
func (m *mux[C]) Put(pattern string, h handler.HandlerFunc[C])    { m.handle(http.MethodPut, pattern, h) }
func (m *mux[C]) Patch(pattern string, h handler.HandlerFunc[C])  { m.handle(http.MethodPatch, pattern, h) }
func (m *mux[C]) Delete(pattern string, h handler.HandlerFunc[C]) { m.handle(http.MethodDelete, pattern, h) }

// Use appends middleware. On the root it applies to every route at serve
// time; on a scope it wraps only routes registered through that scope.
func (m *mux[C]) Use(middlewares ...handler.Middleware[C]) {
	if m.scoped {
		m.scopedWith = append(m.scopedWith, middlewares...)
		return
	}
	m.middlewares = append(m.middlewares, middlewares...)
}

func (m *mux[C]) With(middlewares ...handler.Middleware[C]) Router[C] {
	scope := *m
	// Scoped middleware wraps at registration time; root middleware still
	// applies at serve time.
	scope.middlewares = nil
	scope.scoped = true
	scope.scopedWith = append(slices.Clone(m.scopedWith), middlewares...)
	return &scope
}

func (m *mux[C]) Group(fn func(r Router[C])) {
	fn(m.With())
}

// handle registers a route. Scoped middleware is baked into the handler.
func (m *mux[C]) handle(method, pattern string, h handler.HandlerFunc[C]) {
	if h == nil {
		panic("router: nil handler for " + method + " " + pattern)
	}
	if !strings.HasPrefix(pattern, "/") {
		panic("router: pattern must begin with '/': " + pattern)
	}

	if len(m.scopedWith) > 0 {
		h = chain(m.scopedWith, h)
	}

	*m.routes = append(*m.routes, route[C]{
		method:   method,
		segments: splitPath(pattern),
		handler:  h,
	})
}

// chain builds the middleware pipeline in registration order.
func chain[C handler.Context](middlewares []handler.Middleware[C], h handler.HandlerFunc[C]) handler.HandlerFunc[C] {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// splitPath splits a URL path into segments, treating "/" as empty.
func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// matchSegments matches concrete path segments against a pattern, extracting
// "{name}" parameters. Returns false on length or literal mismatch.
func matchSegments(pattern, segments []string) (map[string]string, bool) {
	if len(pattern) != len(segments) {
		return nil, false
	}

	var params map[string]string
	for i, p := range pattern {
		if strings.HasPrefix(p, "{") && strings.HasSuffix(p, "}") {
			if params == nil {
				params = make(map[string]string)
			}
			params[p[1:len(p)-1]] = segments[i]
			continue
		}
		if p != segments[i] {
			return nil, false
		}
	}
	return params, true
}
