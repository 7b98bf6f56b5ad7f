package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/memberhub/memberledger/internal/config"
	"github.com/memberhub/memberledger/internal/events"
	"github.com/memberhub/memberledger/internal/handlers"
	"github.com/memberhub/memberledger/internal/notify"
	"github.com/memberhub/memberledger/internal/pg"
	"github.com/memberhub/memberledger/internal/referral"
	"github.com/memberhub/memberledger/internal/repo"
	"github.com/memberhub/memberledger/internal/service"
	pkgauth "github.com/memberhub/memberledger/pkg/auth"
	"github.com/memberhub/memberledger/pkg/clients"
	"github.com/memberhub/memberledger/pkg/logger"
)

const eventBufferSize = 64

type ApplicationI interface {
	Start(ctx context.Context) error
	Wait(ctx context.Context, cancel context.CancelFunc) error
}

type Application struct {
	cfg      *config.Config
	api      *handlers.Handlers
	srv      *service.Services
	repo     *repo.Repositories
	broker   *events.Broker
	referral *referral.Service
	notifier *notify.Notifier

	errCh chan error
	wg    sync.WaitGroup
	ready bool
}

func New() *Application {
	return &Application{
		errCh: make(chan error),
	}
}

func (a *Application) Start(ctx context.Context) error {
	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("can't read config: %w", err)
	}

	if err := logger.InitLogger(cfg); err != nil {
		return fmt.Errorf("can't init logger: %w", err)
	}
	pkgauth.Configure(cfg.JWTSecret)
	pkgauth.ConfigureAdmin(cfg.AdminToken)

	pool, err := getPgxpool(ctx, cfg)
	if err != nil {
		zap.L().Error("build pgx pool failed: ", zap.Error(err))
		return fmt.Errorf("can't build pgx pool: %w", err)
	}
	if err := pg.RunMigrations(pool); err != nil {
		zap.L().Error("migrations failed: ", zap.Error(err))
		return fmt.Errorf("can't run migrations: %w", err)
	}
	txManager := pg.NewTXManager(pool)

	conn := pg.New(pool)
	a.cfg = cfg
	a.broker = events.NewBroker(eventBufferSize)
	a.repo = repo.New(conn, txManager)
	a.srv = service.New(a.repo, txManager, a.broker, cfg)
	a.api = handlers.New(a.srv)
	a.referral = referral.New(cfg, a.repo.SubmissionRepo, a.repo.UserRepo, a.repo.BalanceRepo, txManager, a.broker)
	a.notifier = notify.New(cfg, clients.NewHTTPClient(), a.broker)

	if err = a.startHTTPServer(ctx); err != nil {
		return fmt.Errorf("can't start http server: %w", err)
	}

	a.srv.DashboardService.Start(ctx)
	a.referral.Start(ctx)
	a.notifier.Start(ctx)

	a.ready = true
	zap.L().Info("all systems started successfully")
	return nil
}

func getPgxpool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	cfgpool, err := pgxpool.ParseConfig(cfg.Database)
	if err != nil {
		return nil, err
	}
	dbpool, err := pgxpool.NewWithConfig(ctx, cfgpool)
	if err != nil {
		return nil, err
	}
	if err = dbpool.Ping(ctx); err != nil {
		return nil, err
	}
	return dbpool, nil
}

func (a *Application) startHTTPServer(ctx context.Context) error {
	router := chi.NewRouter()
	a.api.InitRoutes(router)
	server := http.Server{
		Addr:    a.cfg.Address,
		Handler: router,
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		<-ctx.Done()

		sCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(sCtx)
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		zap.L().Info("starting http server on port", zap.String("port", a.cfg.Address))
		if err := server.ListenAndServe(); err != nil {
			a.errCh <- fmt.Errorf("http server exited with error: %w", err)
		}
	}()

	return nil
}

func (a *Application) Wait(ctx context.Context, cancel context.CancelFunc) error {
	var appErr error

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		for err := range a.errCh {
			cancel()
			zap.L().Error(err.Error())
			appErr = err
		}
	}()

	<-ctx.Done()
	a.wg.Wait()
	if a.broker != nil {
		a.broker.Close()
	}
	close(a.errCh)
	wg.Wait()

	return appErr
}
