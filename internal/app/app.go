package app

import (
	"context"
	"fmt"
	"log/slog"

	httpapp "kamaru/internal/app/http"
	"kamaru/internal/config"
	"kamaru/internal/email"
	"kamaru/internal/lib/logger/sl"
	"kamaru/internal/repository"
	"kamaru/internal/services/auth"
	events "kamaru/internal/services/event_service"
	gallery "kamaru/internal/services/gallery_service"
	media "kamaru/internal/services/media_service"
	newsletter "kamaru/internal/services/newsletter_service"
	participants "kamaru/internal/services/participant_service"
	stats "kamaru/internal/services/stats_service"
	sysimages "kamaru/internal/services/sysimage_service"
	tokens "kamaru/internal/services/token_service"
	users "kamaru/internal/services/user_service"
	videos "kamaru/internal/services/video_service"
	filestorage "kamaru/internal/storage/filestorage"
	"kamaru/internal/storage/postgresql"
	redisapp "kamaru/internal/storage/redis"
	httprouters "kamaru/internal/transport/http"
)

type App struct {
	HTTPServer *httpapp.Server
	Users      *users.UserService

	log     *slog.Logger
	storage *postgresql.Storage
	redis   *redisapp.Client
}

// New connects to the backing stores, applies migrations and wires the
// services behind the HTTP server.
func New(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	const op = "app.New"

	storage, err := postgresql.New(ctx, log, postgresql.Options{
		DSN:             cfg.Postgres.DSN,
		ConnectAttempts: cfg.Postgres.ConnectAttempts,
		ConnectDelay:    cfg.Postgres.ConnectDelay,
		MaxConns:        cfg.Postgres.MaxConns,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := postgresql.MigrateUp(cfg.Postgres.DSN); err != nil {
		storage.Stop()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rdb := redisapp.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err := rdb.HealthCheck(ctx); err != nil {
		storage.Stop()
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	repo := repository.NewRepository(storage.Pool, rdb)

	fileStore, uploadsDir, err := newFileStorage(cfg.FileStorage)
	if err != nil {
		storage.Stop()
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	mediaService := media.NewMediaService(log, fileStore, cfg.FileStorage.MaxSize, cfg.Timeouts.Storage)

	var sender email.Sender = email.NewLogSender(log)
	if cfg.Email.Enabled {
		sender = email.NewResendSender(log, cfg.Email.ResendAPIKey, cfg.Email.From)
	}

	notifier, err := email.NewService(log, sender, cfg.Email.ContactAddress, cfg.Timeouts.Email)
	if err != nil {
		storage.Stop()
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tokenService := tokens.NewTokenService(log, repo.Token, repo.ResetToken, tokens.Config{
		Secret:          cfg.JWT.Secret,
		AccessTokenTTL:  cfg.JWT.TokenTTL,
		RefreshTokenTTL: cfg.JWT.RefreshTokenTTL,
	})

	userService := users.NewUserService(log, repo.User, tokenService, notifier)
	gate := auth.New(log, tokenService, repo.User)

	routers := httprouters.NewRouter(log, gate, httprouters.Services{
		User:        userService,
		Event:       events.NewEventService(log, repo.Event, mediaService),
		Participant: participants.NewParticipantService(log, repo.Participant),
		Gallery:     gallery.NewGalleryService(log, repo.Gallery, mediaService),
		SystemImage: sysimages.NewSystemImageService(log, repo.SystemImage, mediaService),
		Video:       videos.NewVideoService(log, repo.Video),
		Newsletter:  newsletter.NewNewsletterService(log, repo.Newsletter, notifier),
		Stats:       stats.NewStatsService(log, repo.Stats, cfg.Stats.CacheTTL),
	})

	server := httpapp.New(log, httpapp.Options{
		Addr:           cfg.HTTP.Address(),
		RequestTimeout: cfg.HTTP.RequestTimeout,
		CORSOrigins:    cfg.HTTP.CORSOrigins,
		RateLimitRPS:   cfg.RateLimit.RPS,
		RateLimitBurst: cfg.RateLimit.Burst,
		UploadsDir:     uploadsDir,
		UploadsPath:    "/uploads",
		Debug:          cfg.Env != config.EnvProd,
		Checks: map[string]httpapp.HealthChecker{
			"postgres": storage,
			"redis":    rdb,
		},
	}, routers)
	server.BuildRouters()

	return &App{
		HTTPServer: server,
		Users:      userService,
		log:        log,
		storage:    storage,
		redis:      rdb,
	}, nil
}

// BootstrapAdmin creates the configured admin account when it is missing.
func (a *App) BootstrapAdmin(ctx context.Context, admin config.AdminConfig) error {
	if !admin.Enabled() {
		return nil
	}

	user, created, err := a.Users.EnsureAdmin(ctx, admin.Username, admin.Email, admin.Password)
	if err != nil {
		return fmt.Errorf("app.BootstrapAdmin: %w", err)
	}

	if created {
		a.log.Info("admin account created", slog.String("email", user.Email))
	}

	return nil
}

func (a *App) Stop() {
	if err := a.HTTPServer.Stop(); err != nil {
		a.log.Error("http server shutdown failed", sl.Err(err))
	}

	if err := a.redis.Close(); err != nil {
		a.log.Error("redis close failed", sl.Err(err))
	}

	a.storage.Stop()
}

// newFileStorage returns the configured backend and, for the local backend,
// the directory to serve under /uploads.
func newFileStorage(cfg config.FileStorageConfig) (filestorage.FileStorage, string, error) {
	switch cfg.Backend {
	case config.StorageCloudinary:
		store, err := filestorage.NewCloudinaryStorage(cfg.CloudinaryURL, cfg.Folder)
		if err != nil {
			return nil, "", err
		}
		return store, "", nil
	default:
		store, err := filestorage.NewLocalFileStorage(cfg.BaseDir, cfg.BaseURL)
		if err != nil {
			return nil, "", err
		}
		return store, store.BaseDir(), nil
	}
}
