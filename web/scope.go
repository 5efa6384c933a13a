package web

import (
	"github.com/gin-gonic/gin"

	"github.com/skekre98/wirebox/core"
)

const scopeKey = "wirebox.scope"

// RequestID is registered in every request container.
type RequestID string

// ScopeFunc registers request-scoped resolvers into c.
type ScopeFunc func(c *core.Container, g *gin.Context)

// Scope gives every request its own child of parent. The child resolves
// RequestID and *gin.Context locally and everything else through parent.
// It is emptied once the handler chain returns.
func Scope(parent *core.Container, setup ...ScopeFunc) Handler {
	return func(g *gin.Context) {
		id := RequestID(g.GetString(requestIDKey))
		child := core.NewContainer(
			core.WithParent(parent),
			core.WithName("request-"+string(id)),
		)
		core.Register(child, func() RequestID { return id })
		core.Register(child, func() *gin.Context { return g })
		for _, f := range setup {
			f(child, g)
		}

		g.Set(scopeKey, child)
		defer child.Cleanup()
		g.Next()
	}
}

// ScopeOf returns the request container installed by Scope, or nil.
func ScopeOf(g *gin.Context) *core.Container {
	v, ok := g.Get(scopeKey)
	if !ok {
		return nil
	}
	c, _ := v.(*core.Container)
	return c
}

// Request lets handler types embed the current request and act as an
// inject.Provider, so FromEnclosingObject resolves through the request
// container.
//
//	type orderHandler struct {
//		web.Request
//		orders inject.Injected[OrderService]
//	}
type Request struct {
	Ctx *gin.Context
}

func (r Request) Container() *core.Container {
	if r.Ctx == nil {
		return nil
	}
	return ScopeOf(r.Ctx)
}
