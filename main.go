package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/applytrack/applytrack/config"
	"github.com/applytrack/applytrack/models"
	"github.com/applytrack/applytrack/routes"
	"github.com/applytrack/applytrack/storage"
	"github.com/applytrack/applytrack/tracker"
	"github.com/applytrack/applytrack/utils"
)

func main() {
	// `applytrack hash-passcode <passcode>` prints the value for ACCESS_PASSCODE_HASH
	if len(os.Args) == 3 && os.Args[1] == "hash-passcode" {
		hash, err := utils.HashPasscode(os.Args[2])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	rc := utils.InitRedis(cfg)

	opts := storage.Options{
		Driver:      cfg.StorageDriver,
		SQLitePath:  cfg.SQLitePath,
		RedisPrefix: cfg.RedisPrefix,
	}
	if rc != nil {
		opts.Redis = rc
	}
	if strings.EqualFold(cfg.StorageDriver, storage.DriverMySQL) {
		var db *gorm.DB
		if db, err = config.InitDatabase(cfg); err != nil {
			utils.Sugar.Fatalf("database init failed: %v", err)
		}
		opts.GormDB = db
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := storage.Open(ctx, opts)
	cancel()
	if err != nil {
		utils.Sugar.Fatalf("storage init failed driver=%s: %v", cfg.StorageDriver, err)
	}

	trackerOpts := []tracker.Option{
		tracker.WithLocation(cfg.Location()),
		tracker.WithLogger(utils.Logger.Named("tracker")),
		tracker.WithDefaultTheme(models.ThemeMode(cfg.DefaultTheme)),
		tracker.WithSanitizer(utils.HTMLSanitizer{}),
	}
	if rc != nil {
		trackerOpts = append(trackerOpts, tracker.WithCelebrator(
			tracker.NewRedisCelebrator(rc, cfg.CelebrationChannel, utils.Logger.Named("celebrations")),
		))
	}
	t := tracker.New(store, trackerOpts...)

	r := routes.SetupRouter(cfg, t)

	utils.Logger.Info("starting server (graceful)",
		zap.String("port", cfg.AppPort),
		zap.String("storage", cfg.StorageDriver),
		zap.Bool("redis", rc != nil),
		zap.Bool("passcode_lock", cfg.AuthEnabled()),
	)
	err = utils.GraceServer(":"+cfg.AppPort, r, func() {
		if err := t.Close(); err != nil {
			utils.Sugar.Warnf("store close failed: %v", err)
		}
		if rc != nil {
			_ = rc.Close()
		}
	})
	if err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
