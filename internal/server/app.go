// Package server initializes and runs the application server. It opens the
// database and the session registry, wires the services, handles graceful
// shutdown, and starts the HTTP server.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/profilekeeper/internal/logging"
	"github.com/dmitrijs2005/profilekeeper/internal/server/config"
	"github.com/dmitrijs2005/profilekeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/profilekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/profilekeeper/internal/server/services"
	"github.com/dmitrijs2005/profilekeeper/internal/server/sessions"
	"github.com/dmitrijs2005/profilekeeper/internal/snowflake"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	userService    *services.UserService
	profileService *services.ProfileService
	sessionStore   sessions.Store
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	idgen, err := snowflake.New(cfg.MachineID)
	if err != nil {
		return nil, fmt.Errorf("id generator init error: %w", err)
	}

	db, err := repomanager.NewPostgresDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	redisClient, err := sessions.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("session registry init error: %w", err)
	}
	store := sessions.NewRedisStore(redisClient, cfg.AccessTokenValidityDuration)

	m := repomanager.NewPostgresRepositoryManager()

	us := services.NewUserService(db, m, idgen, store, logger, cfg)
	ps := services.NewProfileService(db, m, idgen, cfg)

	return &App{
		config:         cfg,
		logger:         logger,
		userService:    us,
		profileService: ps,
		sessionStore:   store,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := httpapi.NewHTTPServer(app.config, app.logger, app.userService, app.profileService, app.sessionStore)

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
