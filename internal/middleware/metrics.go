package middleware

import (
	"strconv"
	"time"

	"github.com/FariidCabrera/marketplace-itpuebla1/internal/infra/metrics"

	"github.com/labstack/echo/v4"
)

// ルート単位（/api/order/:id など）で件数とレイテンシを記録
func Metrics(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			m.Requests.WithLabelValues(route, strconv.Itoa(c.Response().Status)).Inc()
			m.LatencyMS.WithLabelValues(route).Observe(float64(time.Since(start).Milliseconds()))
			return nil
		}
	}
}
