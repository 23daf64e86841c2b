package http

import (
	"net/http"
	"strconv"
	"strings"

	echo "github.com/labstack/echo/v4"
	"github.com/paycrux/switch-connector/internal/http/middleware"
	"github.com/paycrux/switch-connector/internal/model"
	"github.com/paycrux/switch-connector/internal/repository"
)

func listLookupsHandler(chRepo repository.CHLookupsRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		tenant, ok := middleware.TenantFromCtx(c)
		if !ok {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "unknown tenant"})
		}

		limit := 50
		offset := 0
		if v := c.QueryParam("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
				limit = n
			}
		}
		if v := c.QueryParam("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				offset = n
			}
		}

		var st model.LookupStatus
		if raw := strings.TrimSpace(c.QueryParam("status")); raw != "" {
			tmp := model.LookupStatus(raw)
			if tmp.Valid() {
				st = tmp
			}
		}

		var idType model.IdentifierType
		if raw := strings.TrimSpace(c.QueryParam("idType")); raw != "" {
			if t, ok := model.ParseIdentifierType(raw); ok {
				idType = t
			}
		}

		rows, err := chRepo.ListByTenant(
			c.Request().Context(),
			tenant.TenantID,
			st,
			idType,
			limit,
			offset,
		)
		if err != nil {
			c.Logger().Errorf("clickhouse list failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "query failed"})
		}

		return c.JSON(http.StatusOK, map[string]any{
			"limit":   limit,
			"offset":  offset,
			"count":   len(rows),
			"results": rows,
		})
	}
}
