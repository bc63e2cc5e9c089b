package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/creatorstation/urlshot/internal/artifact"
	"github.com/creatorstation/urlshot/internal/cacheindex"
	"github.com/creatorstation/urlshot/internal/config"
	"github.com/creatorstation/urlshot/internal/db"
	"github.com/creatorstation/urlshot/internal/derive"
	"github.com/creatorstation/urlshot/internal/pipeline"
	"github.com/creatorstation/urlshot/internal/render"
	"github.com/creatorstation/urlshot/internal/screenshot"
	"github.com/creatorstation/urlshot/internal/sweep"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("%v", err)
	}
}

// run owns every resource it starts, so deferred cleanup (browser,
// playwright driver, cron) always happens before the process exits.
func run() error {
	configPath := pflag.StringP("config", "c", "./config.json", "path to config.json")
	port := pflag.IntP("port", "p", 0, "listen port (overrides config and environment)")
	install := pflag.Bool("install-browsers", false, "download chromium for playwright before starting")
	pflag.Parse()

	setLogLevel(os.Getenv("LOG_LEVEL"))

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if *port != 0 {
		cfg.Port = *port
	}

	store, err := artifact.Open(cfg.ImgPath)
	if err != nil {
		return fmt.Errorf("failed to initialize image directory: %w", err)
	}

	index, err := openIndex(cfg)
	if err != nil {
		return fmt.Errorf("failed to open cache index: %w", err)
	}

	if *install {
		if err := render.Install(); err != nil {
			return fmt.Errorf("failed to install Playwright browsers: %w", err)
		}
	}

	pw, browser, err := render.Launch()
	if err != nil {
		return fmt.Errorf("failed to start browser: %w", err)
	}
	defer pw.Stop()
	defer browser.Close()

	renderer := render.New(
		render.NewPlaywrightBrowser(browser, cfg.JPEGQuality),
		store,
		render.Viewport{Width: cfg.ViewportSize.Width, Height: cfg.ViewportSize.Height},
		cfg.RenderTimeout(),
	)
	deriver := derive.New(store, deriveSizes(cfg.Sizes), cfg.JPEGQuality)
	resolver := pipeline.New(index, renderer, deriver, store, cfg.SizeNames(), cfg.MaxAgeDuration())

	sweeper := sweep.New(store, cfg.SweepAfterDuration())
	if cfg.SweepSchedule != "" {
		c, err := sweeper.Schedule(cfg.SweepSchedule)
		if err != nil {
			return fmt.Errorf("failed to schedule sweep: %w", err)
		}
		defer c.Stop()
	}

	app := fiber.New(fiber.Config{
		AppName:               "urlshot",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(logger.New())

	if cfg.Key != "" {
		sweep.MountController(app.Group("/sweep", screenshot.RequireKey(cfg.Key)), sweeper)
	}
	screenshot.MountController(app, resolver, cfg)
	app.Use(screenshot.NotFound)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info("Shutting down")
		if err := app.Shutdown(); err != nil {
			log.Errorf("Shutdown failed: %v", err)
		}
	}()

	log.Infof("Listening on %s", cfg.Addr())
	if err := app.Listen(cfg.Addr()); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}

func openIndex(cfg *config.Config) (cacheindex.Index, error) {
	switch cfg.CacheBackend {
	case config.BackendSQLite:
		gdb, err := db.OpenSQLite(cfg.CachePath)
		if err != nil {
			return nil, err
		}
		return cacheindex.NewGormIndex(gdb), nil
	case config.BackendPostgres:
		gdb, err := db.OpenPostgres(cfg.CacheDSN)
		if err != nil {
			return nil, err
		}
		return cacheindex.NewGormIndex(gdb), nil
	case config.BackendMongo:
		coll, err := db.ConnectMongo(context.Background(), cfg.CacheDSN)
		if err != nil {
			return nil, err
		}
		return cacheindex.NewMongoIndex(coll), nil
	}
	return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
}

func deriveSizes(sizes []config.Size) []derive.Size {
	out := make([]derive.Size, len(sizes))
	for i, s := range sizes {
		out[i] = derive.Size{Name: s.Name, Width: s.Width, Height: s.Height}
	}
	return out
}

func setLogLevel(level string) {
	switch strings.ToLower(level) {
	case "debug":
		log.SetLevel(log.LevelDebug)
	case "warn":
		log.SetLevel(log.LevelWarn)
	case "error":
		log.SetLevel(log.LevelError)
	default:
		log.SetLevel(log.LevelInfo)
	}
}
