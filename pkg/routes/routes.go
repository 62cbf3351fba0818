// Package routes declares HTTP routes as data and registers them on a ServeMux.
package routes

import "net/http"

// Route binds an HTTP method and pattern to a handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// Group organizes routes under a common prefix.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, group := range groups {
		registerGroup(mux, "", group)
	}
}

// Patterns returns the ServeMux patterns the group registers, in order.
func (g Group) Patterns() []string {
	var patterns []string
	collect(&patterns, "", g)
	return patterns
}

func registerGroup(mux *http.ServeMux, parentPrefix string, group Group) {
	fullPrefix := parentPrefix + group.Prefix
	for _, route := range group.Routes {
		mux.HandleFunc(pattern(route, fullPrefix), route.Handler)
	}
	for _, child := range group.Children {
		registerGroup(mux, fullPrefix, child)
	}
}

func collect(patterns *[]string, parentPrefix string, group Group) {
	fullPrefix := parentPrefix + group.Prefix
	for _, route := range group.Routes {
		*patterns = append(*patterns, pattern(route, fullPrefix))
	}
	for _, child := range group.Children {
		collect(patterns, fullPrefix, child)
	}
}

func pattern(route Route, prefix string) string {
	return route.Method + " " + prefix + route.Pattern
}
