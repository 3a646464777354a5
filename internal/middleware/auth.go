package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"workspace-service/internal/tenant"
	"workspace-service/pkg/jwtutil"
	"workspace-service/pkg/logger"
)

// JWTAuthMiddleware validates the bearer token and resolves the tenant
// context from its claims. Tokens with the admin scope run with
// row-level isolation disabled.
func JWTAuthMiddleware(jwtUtil *jwtutil.JWTUtil) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			claims, err := bearerClaims(c, jwtUtil)
			if err != nil {
				log.Warn("Token validation failed", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "invalid or missing token"})
			}

			tc := &tenant.Context{
				ClientID:      claims.ClientID,
				AppID:         claims.AppID,
				UserID:        claims.UserID,
				Email:         claims.Email,
				ApplyRLS:      claims.Scope != "admin",
				Authenticated: claims.UserID != 0,
			}

			if tc.ApplyRLS && (tc.ClientID == "" || tc.AppID == "") {
				log.Warn("Token is missing tenant identity",
					zap.Uint("user_id", claims.UserID))
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "tenant context required"})
			}

			tenant.Set(c, tc)
			c.Set("user", claims)
			log.Debug("Tenant context resolved from token",
				zap.String("client_id", tc.ClientID),
				zap.String("app_id", tc.AppID),
				zap.Uint("user_id", tc.UserID),
				zap.Bool("apply_rls", tc.ApplyRLS))

			return next(c)
		}
	}
}

// PathTenantMiddleware resolves the tenant from the mount path
// (/:client_id/:app_id). A bearer token, when present, still identifies
// the acting user; without one the request is anonymous but tenant
// scoped.
func PathTenantMiddleware(jwtUtil *jwtutil.JWTUtil) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			clientID := c.Param("client_id")
			appID := c.Param("app_id")
			if clientID == "" || appID == "" {
				return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "tenant path parameters required"})
			}

			tc := &tenant.Context{
				ClientID: clientID,
				AppID:    appID,
				ApplyRLS: true,
			}

			if claims, err := bearerClaims(c, jwtUtil); err == nil {
				tc.UserID = claims.UserID
				tc.Email = claims.Email
				tc.Authenticated = claims.UserID != 0
				c.Set("user", claims)
			}

			tenant.Set(c, tc)
			log.Debug("Tenant context resolved from path",
				zap.String("client_id", tc.ClientID),
				zap.String("app_id", tc.AppID),
				zap.Bool("authenticated", tc.Authenticated))

			return next(c)
		}
	}
}

// bearerClaims extracts and validates the Authorization bearer token.
func bearerClaims(c echo.Context, jwtUtil *jwtutil.JWTUtil) (*jwtutil.TenantClaims, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header format")
	}

	return jwtUtil.ValidateToken(parts[1])
}
