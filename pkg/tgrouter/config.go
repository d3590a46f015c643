package tgrouter

type Config struct {
	RecoverHandler  RecoverHandlerFunc
	ErrorHandler    ErrorHandlerFunc
	NotFoundHandler Handler
	// GlobalFilter drops updates before any route is tried.
	GlobalFilter FilterMatcher
	// Middlewares wrap every matched route, outermost first.
	Middlewares []Middleware
}

type Option func(cfg *Config)

func WithRecoverHandler(r RecoverHandlerFunc) Option {
	return func(cfg *Config) {
		cfg.RecoverHandler = r
	}
}

func WithErrorHandler(h ErrorHandlerFunc) Option {
	return func(cfg *Config) {
		cfg.ErrorHandler = h
	}
}

func WithNotFoundHandler(h Handler) Option {
	return func(cfg *Config) {
		cfg.NotFoundHandler = h
	}
}

func WithGlobalFilter(f FilterMatcher) Option {
	return func(cfg *Config) {
		cfg.GlobalFilter = f
	}
}

func WithMiddlewares(middlewares ...Middleware) Option {
	return func(cfg *Config) {
		cfg.Middlewares = append(cfg.Middlewares, middlewares...)
	}
}
