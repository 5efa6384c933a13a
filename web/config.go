package web

type Options struct {
	// Called during Configure to register routes.
	Routes []func(r Router)
	// Optional additional middlewares.
	Middlewares []Handler
	// Called for every request to register request-scoped resolvers.
	Scopes []ScopeFunc
}

type Option func(*Options)

func WithRoutes(f func(r Router)) Option {
	return func(o *Options) { o.Routes = append(o.Routes, f) }
}

func WithMiddlewares(m ...Handler) Option {
	return func(o *Options) { o.Middlewares = append(o.Middlewares, m...) }
}

// WithScope adds f to the per-request container setup.
//
//	web.WithScope(func(c *core.Container, g *gin.Context) {
//		core.Register(c, func() Tenant { return Tenant(g.GetHeader("X-Tenant")) })
//	})
func WithScope(f ScopeFunc) Option {
	return func(o *Options) { o.Scopes = append(o.Scopes, f) }
}

