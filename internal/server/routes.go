package server

import (
	"net/http"
	"path/filepath"

	"github.com/FariidCabrera/marketplace-itpuebla1/internal/infra/metrics"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, d Deps) {
	// フロント（index.html）と静的ファイル・アップロード画像
	if d.StaticDir != "" {
		e.File("/", filepath.Join(d.StaticDir, "index.html"))
		e.Static("/static", d.StaticDir)
	}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	if d.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(metrics.Handler(d.Gatherer)))
	}

	d.Auth.RegisterRoutes(e)
	d.Products.RegisterRoutes(e)
	d.Cart.RegisterRoutes(e)
	d.Orders.RegisterRoutes(e, d.Users)
	d.Upload.RegisterRoutes(e)
}
