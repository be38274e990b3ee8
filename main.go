package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"campus_share/auth"
	"campus_share/config"
	"campus_share/db"
	"campus_share/handlers"
	"campus_share/logging"
	"campus_share/metrics"
	"campus_share/persist"
	"campus_share/seed"
	"campus_share/store"
)

func main() {
	var configDir string

	root := &cobra.Command{
		Use:           "campus_share",
		Short:         "Campus resource sharing API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configDir)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
	root.Flags().StringVarP(&configDir, "config", "c", ".", "directory containing config.{json,yaml,toml}")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	log, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	defer log.Sync()

	p, closeStore, err := openPersister(ctx, cfg.Storage, log)
	if err != nil {
		return err
	}
	defer closeStore()

	collector := metrics.New()

	var opts []store.Option
	opts = append(opts, store.WithObserver(collector))
	if cfg.Storage.Seed {
		seeded, err := seed.Resources()
		if err != nil {
			return fmt.Errorf("decode seed resources: %w", err)
		}
		opts = append(opts, store.WithSeed(seeded))
	}
	st := store.New(p, log, opts...)
	if err := st.Load(ctx); err != nil {
		return err
	}
	users := auth.NewUsers(p, log)
	if err := users.Load(ctx); err != nil {
		return err
	}

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), handlers.RequestLogger(log), collector.Middleware())

	// CORS Setup
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(auth.Sessions(cfg.Server.SessionName, []byte(cfg.Server.SessionSecret)), users.Identify())

	handlers.New(st, users, log, handlers.Options{
		HideInaccessible: cfg.Listing.HideInaccessible,
		AdminEmails:      cfg.Server.AdminEmails,
	}).Register(r)
	r.GET("/metrics", collector.Handler())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "CampusShare API running")
	})

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: r}
	errCh := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", cfg.Server.Addr), zap.String("storage", cfg.Storage.Driver))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openPersister(ctx context.Context, sc config.Storage, log *zap.Logger) (persist.Persister, func(), error) {
	switch sc.Driver {
	case config.DriverMongo:
		m, err := persist.OpenMongo(ctx, sc.MongoURI, sc.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Connected to MongoDB", zap.String("database", sc.MongoDatabase))
		return m, func() {
			if err := m.Close(context.Background()); err != nil {
				log.Warn("Failed to disconnect MongoDB", zap.Error(err))
			}
		}, nil
	case config.DriverMemory:
		log.Warn("Using in-memory storage; data is lost on exit")
		return persist.NewMemory(), func() {}, nil
	default:
		conn, err := db.Open(sc.Path, log)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		return persist.NewGorm(conn), func() {
			sqlDB, err := conn.DB()
			if err == nil {
				err = sqlDB.Close()
			}
			if err != nil {
				log.Warn("Failed to close SQLite database", zap.Error(err))
			}
		}, nil
	}
}
