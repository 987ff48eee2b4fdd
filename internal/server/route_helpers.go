package server

import (
	"net/http"
	"sort"
	"strings"

	"github.com/bobmcallan/agripulse/internal/handlers"
)

// MethodRouter maps HTTP methods to handlers for a single path.
type MethodRouter map[string]http.HandlerFunc

// RouteByMethod dispatches r to the handler registered for its method.
// Unmatched methods get a JSON 405 listing the allowed ones.
func RouteByMethod(w http.ResponseWriter, r *http.Request, routes MethodRouter) {
	if handler, ok := routes[r.Method]; ok {
		handler(w, r)
		return
	}
	w.Header().Set("Allow", routes.allowed())
	handlers.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// allowed returns the registered methods as an Allow header value.
func (m MethodRouter) allowed() string {
	methods := make([]string, 0, len(m))
	for method := range m {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}

// postOnly wraps a handler for an endpoint that only accepts POST.
func postOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		RouteByMethod(w, r, MethodRouter{http.MethodPost: h})
	}
}
