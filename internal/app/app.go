package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"employee-directory/internal/assets"
	"employee-directory/internal/config"
	"employee-directory/internal/db"
	"employee-directory/internal/ratelimit"
	"employee-directory/internal/router"
	"employee-directory/internal/service"
	"employee-directory/internal/store"
	"employee-directory/internal/upload"
)

// App wires the configured backends into the HTTP API.
type App struct {
	cfg     config.AppConfig
	logger  *slog.Logger
	pool    *pgxpool.Pool
	limiter *ratelimit.AttemptLimiter
	engine  *gin.Engine
}

// New connects to the configured store, asset backend and Redis.
func New(ctx context.Context, cfg config.AppConfig, logger *slog.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	var st store.Store
	switch cfg.Store {
	case config.StoreMemory:
		logger.Warn("using in-memory store; data is lost on restart")
		st = store.NewMemoryStore()
	default:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.pool = pool
		st = store.NewPostgresStore(pool)
	}

	uploader, err := newUploader(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	if cfg.RedisAddr != "" && cfg.AuthRateLimitPerMin > 0 {
		a.limiter, err = ratelimit.NewAttemptLimiter(ratelimit.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			Limit:    cfg.AuthRateLimitPerMin,
			Window:   time.Minute,
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("init rate limiter: %w", err)
		}
	} else {
		logger.Info("auth rate limiting disabled")
	}

	tokens, err := service.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		a.Close()
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)
	a.engine = gin.New()
	deps := router.Deps{
		Store:       st,
		Auth:        service.NewAuthService(st, tokens),
		Employees:   service.NewEmployeeService(st, upload.NewCoordinator(uploader)),
		Logger:      logger,
		CORSOrigins: cfg.CORSOrigins,
	}
	if a.limiter != nil {
		deps.AuthLimiter = a.limiter
	}
	router.Setup(a.engine, deps)
	return a, nil
}

func newUploader(cfg config.AppConfig) (assets.Uploader, error) {
	switch cfg.AssetBackend {
	case config.AssetsCloudinary:
		return assets.NewCloudinaryUploader(assets.CloudinaryConfig{
			CloudName: cfg.Cloudinary.CloudName,
			APIKey:    cfg.Cloudinary.APIKey,
			APISecret: cfg.Cloudinary.APISecret,
		})
	default:
		return assets.NewMinioUploader(assets.MinioConfig{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			Bucket:    cfg.Minio.Bucket,
			UseSSL:    cfg.Minio.UseSSL,
			PublicURL: cfg.Minio.PublicURL,
		})
	}
}

func (a *App) Handler() *gin.Engine { return a.engine }

// Close releases the database pool and Redis client.
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
	if err := a.limiter.Close(); err != nil {
		a.logger.Warn("close rate limiter", "err", err)
	}
}
