package tenant

import (
	"github.com/labstack/echo/v4"
)

// Context carries the per-request tenant identity resolved by the
// middleware layer. ClientID and AppID identify the tenant; ApplyRLS
// controls whether row-level isolation predicates are added to queries.
// Trusted administrative mounts run with ApplyRLS disabled.
type Context struct {
	ClientID      string
	AppID         string
	UserID        uint
	Email         string
	ApplyRLS      bool
	Authenticated bool
}

const contextKey = "tenant"

// Set stores the tenant context on the Echo context.
func Set(c echo.Context, tc *Context) {
	c.Set(contextKey, tc)
}

// FromEcho retrieves the tenant context resolved by the middleware.
// The second return is false when no middleware ran, which only
// happens on misconfigured routes.
func FromEcho(c echo.Context) (*Context, bool) {
	tc, ok := c.Get(contextKey).(*Context)
	return tc, ok
}
