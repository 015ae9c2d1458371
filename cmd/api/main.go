package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/estatehub/estatehub-admin/internal/config"
	"github.com/estatehub/estatehub-admin/internal/handler"
	"github.com/estatehub/estatehub-admin/internal/logger"
	"github.com/estatehub/estatehub-admin/internal/middleware"
	"github.com/estatehub/estatehub-admin/internal/repository"
	"github.com/estatehub/estatehub-admin/internal/service"
	"github.com/estatehub/estatehub-admin/internal/upload"
)

const (
	loginRate  = 5
	loginBurst = 10
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	logger.Init(cfg.Env, cfg.LogLevel)
	if envErr != nil {
		log.Warn().Msg("no .env file found, using environment variables")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()

	storage, err := newStorage(context.Background(), cfg.Upload)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Upload.Backend).Msg("init upload storage")
	}

	r, err := newRouter(cfg, db, storage)
	if err != nil {
		log.Fatal().Err(err).Msg("build router")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		return
	}
	log.Info().Msg("server stopped")
}

// newRouter wires repositories, services and handlers onto the admin routes.
// The login rate limit keys on the connection address, never on forwarded
// headers.
func newRouter(cfg config.Config, db *sql.DB, storage upload.Storage) (chi.Router, error) {
	view, err := handler.NewView()
	if err != nil {
		return nil, err
	}

	userRepo := repository.NewUserRepository(db)
	agentRepo := repository.NewAgentRepository(db)
	blogRepo := repository.NewBlogRepository(db)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.SessionTTL)
	agentService := service.NewAgentService(db, userRepo, agentRepo, cfg.BcryptCost)
	userService := service.NewUserService(db, userRepo, agentRepo, cfg.BcryptCost)
	blogService := service.NewBlogService(db, blogRepo, storage, cfg.Upload.MaxBytes)

	authHandler := handler.NewAuthHandler(authService, view, cfg.Env == "production")
	agentHandler := handler.NewAgentHandler(agentService, view)
	userHandler := handler.NewUserHandler(userService, view)
	blogHandler := handler.NewBlogHandler(blogService, view, cfg.Upload.MaxBytes)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recovery)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	if cfg.Upload.Backend == "local" {
		prefix := "/" + cfg.Upload.PublicPrefix + "/"
		r.Handle(prefix+"*", http.StripPrefix(prefix, http.FileServer(http.Dir(cfg.Upload.Dir))))
	}

	r.Get(handler.LoginPath, authHandler.HandleLoginForm)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(loginRate, loginBurst))
		r.Post(handler.LoginPath, authHandler.HandleLogin)
	})
	r.Post("/admin/logout", authHandler.HandleLogout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AdminSession(cfg.JWTSecret, handler.LoginPath))

		r.Get("/admin", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, handler.HomePath, http.StatusSeeOther)
		})

		r.Get("/admin/agents/new", agentHandler.HandleForm)
		r.Post("/admin/agents/new", agentHandler.HandleCreate)

		r.Get("/admin/blog/new", blogHandler.HandleForm)
		r.Post("/admin/blog/new", blogHandler.HandleCreate)

		r.Get("/admin/users/new", userHandler.HandleForm)
		r.Post("/admin/users/new", userHandler.HandleCreate)
	})

	return r, nil
}

// newStorage picks the featured image store from configuration.
func newStorage(ctx context.Context, cfg config.UploadConfig) (upload.Storage, error) {
	if cfg.Backend == "minio" {
		return upload.NewMinIOStorage(ctx, upload.MinIOConfig{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			Bucket:    cfg.MinIOBucket,
			UseSSL:    cfg.MinIOUseSSL,
		})
	}
	return upload.NewLocalStorage(cfg.Dir, cfg.PublicPrefix), nil
}
