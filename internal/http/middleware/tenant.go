package middleware

import (
	"net/http"
	"strings"

	echo "github.com/labstack/echo/v4"
	"github.com/paycrux/switch-connector/internal/config"
)

const tenantCtxKey = "tenant"

// TenantMiddleware resolves the local tenant from the request origin (Host
// header without port) and stashes it in the echo context. Requests from
// unconfigured domains are rejected before any process is started.
func TenantMiddleware(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			domain := strings.Split(c.Request().Host, ":")[0]

			tenant, err := cfg.TenantByDomain(domain)
			if err != nil {
				return c.JSON(http.StatusNotFound, map[string]string{"error": "unknown tenant"})
			}

			c.Set(tenantCtxKey, tenant)
			return next(c)
		}
	}
}

// TenantFromCtx returns the tenant resolved by TenantMiddleware.
func TenantFromCtx(c echo.Context) (config.TenantConfig, bool) {
	t, ok := c.Get(tenantCtxKey).(config.TenantConfig)
	return t, ok
}
