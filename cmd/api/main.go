package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/FariidCabrera/marketplace-itpuebla1/internal/config"
	"github.com/FariidCabrera/marketplace-itpuebla1/internal/handler"
	"github.com/FariidCabrera/marketplace-itpuebla1/internal/infra/db"
	"github.com/FariidCabrera/marketplace-itpuebla1/internal/infra/logger"
	"github.com/FariidCabrera/marketplace-itpuebla1/internal/infra/metrics"
	"github.com/FariidCabrera/marketplace-itpuebla1/internal/infra/receipt"
	infraRepo "github.com/FariidCabrera/marketplace-itpuebla1/internal/infra/repository"
	"github.com/FariidCabrera/marketplace-itpuebla1/internal/infra/storage"
	"github.com/FariidCabrera/marketplace-itpuebla1/internal/repository"
	"github.com/FariidCabrera/marketplace-itpuebla1/internal/server"
	"github.com/FariidCabrera/marketplace-itpuebla1/internal/usecase"
	"github.com/FariidCabrera/marketplace-itpuebla1/internal/validator"

	"github.com/gorilla/sessions"
	radix "github.com/mediocregopher/radix/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	//設定
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.GoEnv)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// 金額はJSONの数値で返す
	decimal.MarshalJSONWithoutQuotes = true

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	carts, closeCarts, err := newCartStore(cfg, log)
	if err != nil {
		return err
	}
	defer closeCarts()

	images, err := storage.NewLocalImageStore(cfg.UploadDir, "/static/uploads")
	if err != nil {
		return err
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	//Usecase生成
	authUC := usecase.NewAuthUsecase(userRepo, validator.NewAuthValidator(userRepo))
	productUC := usecase.NewProductUsecase(productRepo)
	cartUC := usecase.NewCartUsecase(carts, productRepo)
	orderUC := usecase.NewOrderUsecase(txm, log.Named("order"), usecase.WithOrderMetrics(m))
	receiptUC := usecase.NewReceiptUsecase(txm, receipt.NewPDFRenderer(cfg.ReceiptCompress))
	uploadUC := usecase.NewUploadUsecase(images, cfg.MaxImageWidth).WithMaxPixels(cfg.MaxImagePixels)

	//セッション
	store := sessions.NewCookieStore(cfg.SessionKey)
	store.Options.HttpOnly = true
	store.Options.Secure = cfg.CookieSecure
	store.Options.SameSite = http.SameSiteLaxMode
	store.Options.Path = "/"
	store.Options.MaxAge = cfg.SessionMaxAge

	e := server.New(server.Deps{
		Log:          log,
		Metrics:      m,
		Gatherer:     prometheus.DefaultGatherer,
		SessionStore: store,
		SessionName:  cfg.SessionName,
		StaticDir:    cfg.StaticDir,
		Users:        userRepo,

		Auth:     handler.NewAuthHandler(authUC, cartUC),
		Products: handler.NewProductHandler(productUC),
		Cart:     handler.NewCartHandler(cartUC),
		Orders:   handler.NewOrderHandler(orderUC, receiptUC),
		Upload:   handler.NewUploadHandler(uploadUC, cfg.MaxUploadBytes),
	})

	return server.Start(context.Background(), e, ":"+cfg.Port, log)
}

// CART_BACKEND=redis ならradixのプール、それ以外はプロセス内
func newCartStore(cfg config.Config, log *zap.Logger) (repository.CartStore, func(), error) {
	if cfg.CartBackend != "redis" {
		return infraRepo.NewMemoryCartStore(), func() {}, nil
	}

	pool, err := radix.NewPool("tcp", cfg.RedisAddr, 10)
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	log.Info("cart backend: redis", zap.String("addr", cfg.RedisAddr))

	ttl := time.Duration(cfg.SessionMaxAge) * time.Second
	return infraRepo.NewRedisCartStore(pool, ttl), func() { _ = pool.Close() }, nil
}
