package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iliyamo/health-tracker/internal/config"
	"github.com/iliyamo/health-tracker/internal/database"
	"github.com/iliyamo/health-tracker/internal/handler"
	"github.com/iliyamo/health-tracker/internal/middleware"
	"github.com/iliyamo/health-tracker/internal/queue"
	"github.com/iliyamo/health-tracker/internal/repository"
	"github.com/iliyamo/health-tracker/internal/router"
	"github.com/iliyamo/health-tracker/internal/service"
)

func main() {
	// a missing .env is fine; the real environment wins either way
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "health-tracker",
		Short:         "Health record and questionnaire API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(false)
		},
	}
	root.AddCommand(serveCmd(), migrateCmd(), consumeCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(dev bool) zerolog.Logger {
	if dev {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func serveCmd() *cobra.Command {
	var withConsumer bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(withConsumer)
		},
	}
	cmd.Flags().BoolVar(&withConsumer, "with-consumer", false, "also run the activity-log consumer in-process")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the schema if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := newLogger(cfg.IsDev())
			db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer db.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			applied, err := database.Migrate(ctx, db)
			if err != nil {
				return err
			}
			log.Info().Strs("applied", applied).Msg("schema up to date")
			return nil
		},
	}
}

func consumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "consume",
		Short: "Append activity events to the activity log",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(os.Getenv("APP_ENV") == "dev")
			ev := config.LoadEventsConfig()
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log.Info().Str("queue", ev.Queue).Str("dir", ev.LogDir).Msg("activity consumer started")
			err := queue.NewConsumer(ev.URL, ev.Queue, ev.LogDir, log).Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}

func runServer(withConsumer bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := newLogger(cfg.IsDev())

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()
	log.Info().Str("host", cfg.DBHost).Str("db", cfg.DBName).Msg("connected to database")

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn().Msg("redis unavailable; rate limiting and caching disabled")
	} else {
		defer rdb.Close()
	}

	evCfg := config.LoadEventsConfig()
	var events service.EventPublisher = queue.NopPublisher{}
	if evCfg.Enabled {
		events = queue.NewPublisher(evCfg.URL, evCfg.Queue, log)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if withConsumer && evCfg.Enabled {
		go func() {
			err := queue.NewConsumer(evCfg.URL, evCfg.Queue, evCfg.LogDir, log).Run(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("activity consumer stopped")
			}
		}()
	}

	e := newEcho(cfg, log, db, rdb, events)
	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}

func newEcho(cfg config.Config, log zerolog.Logger, db *sql.DB, rdb *redis.Client, events service.EventPublisher) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(log))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(log))
	e.Use(echomw.CORS())

	users := repository.NewUserRepo(db)
	records := repository.NewRecordRepo(db)
	responses := repository.NewQuestionnaireRepo(db)

	auth := service.NewAuthService(users, cfg.JWTSecret, cfg.TokenTTL, cfg.BcryptCost)
	recordSvc := service.NewRecordService(users, records, events, log)
	questionnaireSvc := service.NewQuestionnaireService(users, responses, events, log)

	router.RegisterRoutes(e, router.Deps{
		Auth:           handler.NewAuthHandler(auth, log, cfg.RequestTimeout),
		Records:        handler.NewRecordHandler(recordSvc, log, cfg.RequestTimeout),
		Questionnaires: handler.NewQuestionnaireHandler(questionnaireSvc, log, cfg.RequestTimeout),
		DB:             db,
		JWTSecret:      cfg.JWTSecret,
		RateLimit:      middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		Cache:          middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	})
	return e
}
