package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/school-workshop/movie-review-challenge/internal/config"
	"github.com/school-workshop/movie-review-challenge/internal/database"
	"github.com/school-workshop/movie-review-challenge/internal/handler"
	"github.com/school-workshop/movie-review-challenge/internal/logging"
	"github.com/school-workshop/movie-review-challenge/internal/middleware"
	"github.com/school-workshop/movie-review-challenge/internal/queue"
	"github.com/school-workshop/movie-review-challenge/internal/router"
	"github.com/school-workshop/movie-review-challenge/internal/service"
	"github.com/school-workshop/movie-review-challenge/internal/validation"
	"github.com/school-workshop/movie-review-challenge/web"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	catalog := service.NewCatalog(db)
	defer catalog.Close()
	if err := catalog.Init(ctx); err != nil {
		return err
	}
	logging.Info().Str("driver", cfg.DBDriver).Msg("store ready")

	if cfg.Events.Enabled {
		catalog.SetPublisher(service.NewAMQPPublisher(cfg.Events.URL))
		logging.Info().Msg("publishing review events")
	}
	if cfg.Events.Consumer {
		go func() {
			if err := queue.StartReviewConsumer(ctx, cfg.Events.URL, cfg.Events.LogDir); err != nil && !errors.Is(err, context.Canceled) {
				logging.Error().Err(err).Msg("review consumer stopped")
			}
		}()
	}

	renderer, err := handler.NewRenderer(web.FS)
	if err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.Validator = validation.EchoValidator{}
	e.HTTPErrorHandler = handler.ErrorHandler
	e.Use(echomw.Recover())
	e.Use(logging.RequestLogger())
	e.Use(middleware.Metrics())

	rlCfg := config.LoadRateLimitConfig()
	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb != nil {
		defer rdb.Close()
	} else if rlCfg.Enabled {
		logging.Warn().Msg("redis unreachable; review rate limiting disabled")
	}
	reviewLimit := middleware.NewTokenBucket(rlCfg, rdb)

	h := &handler.MovieHandler{Catalog: catalog}
	router.RegisterRoutes(e, catalog)
	router.RegisterStatic(e, echo.MustSubFS(web.FS, "static"))
	router.RegisterPages(e, h, reviewLimit)
	router.RegisterAPI(e, h, reviewLimit)

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
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

	logging.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
