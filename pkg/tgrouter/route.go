package tgrouter

import (
	"context"
	"strings"
)

// routeHandler defines a function that will handle updates that pass the filtering.
type routeHandler struct {
	filter      FilterMatcher
	handler     Handler
	middlewares []Middleware
}

func (h *routeHandler) Handle(ctx context.Context, u *Update) error {
	wh := h.wrap(h.handler)
	return wh.Handle(ctx, u)
}

func (h *routeHandler) Match(u *Update) bool {
	return h.filter.Match(u)
}

func (h *routeHandler) Use(middlewares ...Middleware) {
	h.middlewares = append(h.middlewares, middlewares...)
}

func (h *routeHandler) wrap(handler Handler) Handler {
	for i := len(h.middlewares) - 1; i >= 0; i-- {
		handler = h.middlewares[i](handler)
	}
	return handler
}

// NewRoute creates a new generic routeHandler.
func NewRoute(filter FilterMatcher, handler Handler, middlewares ...Middleware) Route {
	if filter == nil {
		filter = Any()
	}
	return &routeHandler{
		filter:      filter,
		handler:     handler,
		middlewares: middlewares,
	}
}

// NewMessageRoute creates a routeHandler for updates that contain message.
func NewMessageRoute(filter FilterMatcher, handler Handler) Route {
	newFilter := IsMessage()
	if filter != nil {
		newFilter = And(newFilter, filter)
	}
	return NewRoute(newFilter, handler)
}

// NewCommandRoute is an extension for NewMessageRoute that creates a routeHandler for updates that contain message with command.
// Arguments are available through u.Message.CommandArguments().
//
// command can be a string (like "start" or "somecmd") or a space-delimited list of commands to accept (like "start somecmd othercmd")
func NewCommandRoute(command string, filter FilterMatcher, handler Handler) Route {
	var commandFilters []FilterMatcher
	for _, variant := range strings.Split(command, " ") {
		commandFilters = append(commandFilters, IsCommandMessage(strings.TrimPrefix(variant, "/")))
	}
	newFilter := Or(commandFilters...)
	if filter != nil {
		newFilter = And(newFilter, filter)
	}
	return NewMessageRoute(
		newFilter,
		handler,
	)
}

// NewDocumentRoute creates a routeHandler for messages carrying a document
// with one of the given file extensions.
func NewDocumentRoute(extensions []string, filter FilterMatcher, handler Handler) Route {
	newFilter := HasDocumentExtension(extensions...)
	if filter != nil {
		newFilter = And(newFilter, filter)
	}
	return NewMessageRoute(newFilter, handler)
}
