package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/fivec-menu/internal/api"
	"github.com/iliyamo/fivec-menu/internal/calendar"
	"github.com/iliyamo/fivec-menu/internal/catalog"
	"github.com/iliyamo/fivec-menu/internal/config"
	"github.com/iliyamo/fivec-menu/internal/database"
	"github.com/iliyamo/fivec-menu/internal/handler"
	"github.com/iliyamo/fivec-menu/internal/logging"
	"github.com/iliyamo/fivec-menu/internal/middleware"
	"github.com/iliyamo/fivec-menu/internal/queue"
	"github.com/iliyamo/fivec-menu/internal/repository"
	"github.com/iliyamo/fivec-menu/internal/router"
	"github.com/iliyamo/fivec-menu/internal/service"
	"github.com/iliyamo/fivec-menu/internal/snapshot"
)

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.IsProd())
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	// without the reference zone every date on the page would be wrong
	clock, err := calendar.NewResolver()
	if err != nil {
		log.Fatal("reference zone unavailable", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cat := catalog.Default()
	client := api.New(cfg.APIBaseURL, cfg.APITimeout, log)
	poller := snapshot.New(client, cfg.HallsRefresh, cfg.OpenNowRefresh, log)

	rdb, err := config.NewRedisClient(ctx)
	if err != nil {
		log.Warn("redis unavailable, cache and rate limiting disabled", zap.Error(err))
	}
	if rdb != nil {
		defer rdb.Close()
	}

	g, ctx := errgroup.WithContext(ctx)

	var audit handler.AuditReader
	var sink queue.Sink
	if cfg.DB.Enabled() {
		db, err := database.Open(ctx, cfg.DB)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := database.EnsureSchema(ctx, db); err != nil {
			return err
		}
		repo := repository.NewAuditRepo(db)
		audit, sink = repo, repo
	} else if cfg.RabbitURL != "" {
		fs, err := queue.NewFileSink(cfg.AuditLogPath, 200)
		if err != nil {
			return err
		}
		audit, sink = fs, fs
	}
	if cfg.RabbitURL != "" && sink != nil {
		g.Go(func() error {
			err := queue.StartAuditConsumer(ctx, cfg.RabbitURL, sink, log)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	renderer, err := handler.NewRenderer(cat, nil)
	if err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log.Named("http")))

	pub := &handler.PublicHandler{
		Menus:   client,
		Snap:    poller,
		Clock:   clock,
		Catalog: cat,
		Fanout:  cfg.MenuFanout,
		Log:     log.Named("public"),
	}
	adm := &handler.AdminHandler{
		API:          client,
		Catalog:      cat,
		Flash:        handler.NewFlashes(cfg.SessionSecret, cfg.CookieSecure),
		Audit:        audit,
		Publisher:    service.NewPublisher(cfg.RabbitURL, sink, log),
		CookieSecure: cfg.CookieSecure,
		Log:          log.Named("admin"),
	}

	router.RegisterRoutes(e, pub)
	router.RegisterPublic(e, pub,
		middleware.NewTokenBucket(config.LoadRateLimitConfig("api", 60), rdb, log),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb, log))
	router.RegisterAdmin(e, adm, cfg.SessionSecret,
		middleware.NewTokenBucket(config.LoadRateLimitConfig("login", 5), rdb, log))

	g.Go(func() error { return poller.Run(ctx) })
	g.Go(func() error {
		addr := ":" + cfg.Port
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env), zap.String("api", cfg.APIBaseURL))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
