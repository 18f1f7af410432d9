package config

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/akeren/college-forms/config/router"
	"github.com/akeren/college-forms/internal/log"
	"github.com/akeren/college-forms/internal/models"
	"github.com/akeren/college-forms/internal/storage"
	"github.com/akeren/college-forms/pkg/constants"
	"github.com/akeren/college-forms/pkg/utils"
	"github.com/akeren/college-forms/web"
)

type ApplicationConfig struct {
	Store           *storage.Store
	RouterService   *router.RouterService
	Logger          *log.Logger
	Config          *AppConfig
	DBConfig        *DBConfig
	Pages           fs.FS
	TracingShutdown func(context.Context) error
}

type AppConfig struct {
	Port             string
	RequestTimeout   time.Duration
	KeepAliveTimeout time.Duration
	HeadersTimeout   time.Duration
	PublicDir        string
}

func NewAppConfig() (*AppConfig, error) {
	config := &AppConfig{
		Port:      sanitizeEnv(utils.GetEnvTrimmedOrDefault("PORT", constants.DefaultPort)),
		PublicDir: sanitizeEnv(utils.GetEnvTrimmed("PUBLIC_DIR")),
	}

	var err error

	if config.RequestTimeout, err = envDuration("REQUEST_TIMEOUT", constants.DefaultRequestTimeout); err != nil {
		return nil, err
	}
	if config.KeepAliveTimeout, err = envDuration("SERVER_KEEPALIVE_TIMEOUT", constants.DefaultKeepAliveTimeout); err != nil {
		return nil, err
	}
	if config.HeadersTimeout, err = envDuration("SERVER_HEADERS_TIMEOUT", constants.DefaultHeadersTimeout); err != nil {
		return nil, err
	}

	return config, nil
}

// Pages resolves the directory served for form pages and static assets.
func (ac *AppConfig) Pages(logger *log.Logger) (fs.FS, error) {
	if ac.PublicDir == "" {
		logger.Info("Serving embedded form pages")
		return web.Public(), nil
	}

	info, err := os.Stat(ac.PublicDir)
	if err != nil {
		return nil, fmt.Errorf("PUBLIC_DIR %q: %w", ac.PublicDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("PUBLIC_DIR %q is not a directory", ac.PublicDir)
	}

	logger.Info("Serving form pages from directory", "dir", ac.PublicDir)
	return os.DirFS(ac.PublicDir), nil
}

func (ac *ApplicationConfig) Cleanup() {
	if ac.TracingShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ac.TracingShutdown(ctx); err != nil {
			ac.Logger.Error("Failed to shutdown tracer provider", "error", err)
		}
	}

	CloseStore(ac.Store, ac.Logger)

	if ac.RouterService != nil {
		ac.RouterService.Cleanup()
	}

	ac.Logger.Info("Application cleanup completed")
}

func LoadApplicationConfiguration(logger *log.Logger, autoMigrate bool) (*ApplicationConfig, error) {
	InitializeEnvFile(logger)

	if autoMigrate {
		appEnv := GetAppEnv()
		if err := ValidateAutoMigrateAllowed(appEnv); err != nil {
			return nil, err
		}
		if appEnv == "" {
			logger.Warn("APP_ENV not set; allowing --auto-migrate as development")
		}
	}

	appConfig, err := NewAppConfig()
	if err != nil {
		return nil, err
	}

	pages, err := appConfig.Pages(logger)
	if err != nil {
		return nil, err
	}

	dbConfig, err := NewDBConfigFromEnv()
	if err != nil {
		return nil, err
	}
	if err := dbConfig.Validate(); err != nil {
		return nil, err
	}

	tracingShutdown, err := SetupTracing(logger)
	if err != nil {
		return nil, err
	}

	store, err := OpenStore(logger, dbConfig)
	if err != nil {
		return nil, err
	}

	if autoMigrate {
		if store.State() != storage.Connected {
			logger.Warn("Skipping auto-migrate: database is not connected", "state", store.State().String())
		} else if err := store.AutoMigrate(models.ModelRegistry...); err != nil {
			CloseStore(store, logger)
			return nil, err
		}
	}

	routerService := router.CreateRouterService(logger, &router.RouterConfig{
		Port:             appConfig.Port,
		RequestTimeout:   appConfig.RequestTimeout,
		KeepAliveTimeout: appConfig.KeepAliveTimeout,
		HeadersTimeout:   appConfig.HeadersTimeout,
	})
	routerService.MountAssets(pages)

	logger.Info("Application configuration loaded successfully")

	return &ApplicationConfig{
		Store:           store,
		RouterService:   routerService,
		Logger:          logger,
		Config:          appConfig,
		DBConfig:        dbConfig,
		Pages:           pages,
		TracingShutdown: tracingShutdown,
	}, nil
}
