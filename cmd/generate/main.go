package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"go.uber.org/zap"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/importer"
	"storefront/internal/logging"
	productrepo "storefront/internal/repository/product"
)

func main() {
	cfg, cfgErr := config.FromEnv()

	var (
		dir    string
		seed   uint64
		dryRun bool
	)
	flag.StringVar(&dir, "dir", cfg.ImageDir, "Directory of product images (.jpg, .jpeg, .png)")
	flag.Uint64Var(&seed, "seed", 0, "Random seed; 0 picks one from the clock")
	flag.BoolVar(&dryRun, "dry-run", false, "Print the generated products without storing them")
	flag.Parse()

	logger, err := logging.New("generate", cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	if cfgErr != nil {
		logger.Fatal("load config", zap.Error(cfgErr))
	}

	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1))
	logger.Info("generating products", zap.String("dir", dir), zap.Uint64("seed", seed))

	if dryRun {
		products, err := importer.NewImageImporter(os.DirFS(dir), nil, rng, logger).Plan()
		if err != nil {
			logger.Fatal("plan products", zap.Error(err))
		}
		for _, p := range products {
			fmt.Printf("%-24s %-8s %6d원 재고 %3d  %s\n", p.Name, p.Category, p.Price, p.Stock, p.Image)
		}
		return
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, db.PoolOptions{AppName: "generate", MaxConns: cfg.DBMaxConns, MinConns: cfg.DBMinConns})
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	imp := importer.NewImageImporter(os.DirFS(dir), productrepo.NewPostgres(pool, logger.Named("repo")), rng, logger)

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		logger.Fatal("generate failed", zap.Error(err))
	}
	fmt.Printf("Generated %d products from %s in %s\n", count, dir, time.Since(start).Truncate(time.Millisecond))
}
