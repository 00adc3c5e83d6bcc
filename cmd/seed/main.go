package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/FariidCabrera/marketplace-itpuebla1/internal/config"
	"github.com/FariidCabrera/marketplace-itpuebla1/internal/infra/db"
	"github.com/FariidCabrera/marketplace-itpuebla1/internal/infra/logger"
	infraRepo "github.com/FariidCabrera/marketplace-itpuebla1/internal/infra/repository"
	"github.com/FariidCabrera/marketplace-itpuebla1/internal/seed"

	"go.uber.org/zap"
)

func main() {
	file := flag.String("file", "products.json", "products file (JSON or YAML)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.GoEnv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatal("connect db", zap.Error(err))
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal("migrate", zap.Error(err))
	}

	f, err := os.Open(*file)
	if errors.Is(err, os.ErrNotExist) {
		log.Info("no seed file, schema only", zap.String("file", *file))
		return
	}
	if err != nil {
		log.Fatal("open seed file", zap.Error(err))
	}
	defer f.Close()

	products, err := seed.Decode(f)
	if err != nil {
		log.Fatal("decode seed file", zap.String("file", *file), zap.Error(err))
	}

	n, err := seed.Products(context.Background(), infraRepo.NewProductGormRepository(gormDB), products)
	if err != nil {
		log.Fatal("seed products", zap.Error(err))
	}
	fmt.Printf("inserted %d products\n", n)
}
