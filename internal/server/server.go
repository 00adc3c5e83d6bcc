package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/FariidCabrera/marketplace-itpuebla1/internal/handler"
	"github.com/FariidCabrera/marketplace-itpuebla1/internal/infra/metrics"
	mw "github.com/FariidCabrera/marketplace-itpuebla1/internal/middleware"
	"github.com/FariidCabrera/marketplace-itpuebla1/internal/repository"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// echoの組み立てに必要なもの一式
type Deps struct {
	Log          *zap.Logger
	Metrics      *metrics.Metrics
	Gatherer     prometheus.Gatherer
	SessionStore sessions.Store
	SessionName  string
	StaticDir    string
	Users        repository.UserRepository

	Auth     *handler.AuthHandler
	Products *handler.ProductHandler
	Cart     *handler.CartHandler
	Orders   *handler.OrderHandler
	Upload   *handler.UploadHandler
}

func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(mw.RequestLogger(d.Log))
	e.Use(echomw.Recover())
	if d.Metrics != nil {
		e.Use(mw.Metrics(d.Metrics))
	}
	e.Use(mw.Session(d.SessionStore, d.SessionName))

	RegisterRoutes(e, d)
	return e
}

// Start はSIGINT/SIGTERMかctxの終了まで動き、そのあと10秒以内に止める。
func Start(ctx context.Context, e *echo.Echo, addr string, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server exited")
	return nil
}
