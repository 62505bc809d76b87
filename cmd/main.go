package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	httpctx "github.com/dtroode/taskkeeper-server/internal/api/http/context"
	"github.com/dtroode/taskkeeper-server/internal/api/http/router"
	httpServer "github.com/dtroode/taskkeeper-server/internal/api/http/server"
	"github.com/dtroode/taskkeeper-server/internal/config"
	"github.com/dtroode/taskkeeper-server/internal/logger"
	"github.com/dtroode/taskkeeper-server/internal/model"
	"github.com/dtroode/taskkeeper-server/internal/password"
	"github.com/dtroode/taskkeeper-server/internal/repository/memory"
	"github.com/dtroode/taskkeeper-server/internal/repository/mongo"
	"github.com/dtroode/taskkeeper-server/internal/repository/postgres"
	"github.com/dtroode/taskkeeper-server/internal/server"
	"github.com/dtroode/taskkeeper-server/internal/service"
	"github.com/dtroode/taskkeeper-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

// storage bundles the stores of one database driver.
type storage struct {
	users  model.UserStore
	tasks  model.TaskStore
	pinger model.Pinger
	close  func() error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	store, err := openStorage(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err, "driver", cfg.Database.Driver)
	}
	defer func() {
		if err := store.close(); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}()
	logger.Info("storage initialized", "driver", cfg.Database.Driver)

	tokenManager, err := token.NewJWT(cfg.JWT.Secret)
	if err != nil {
		logger.Fatal("failed to create token manager", "error", err)
	}

	kdf := model.KDFParams{Time: cfg.KDF.Time, MemKiB: cfg.KDF.MemKiB, Par: cfg.KDF.Par}

	authService := service.NewAuth(store.users, password.NewArgon2(kdf), tokenManager, logger)
	taskService := service.NewTask(store.tasks, logger)
	tokenService := service.NewTokenService(tokenManager, logger)
	ctxMgr := httpctx.NewManager()

	r := router.New(authService, taskService, tokenService, ctxMgr, store.pinger, router.Options{
		RequestTimeout: cfg.HTTP.RequestTimeout,
		AuthRateLimit:  cfg.HTTP.AuthRateLimit,
		Production:     cfg.HTTP.Production,
	}, logger)

	srv := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port), cfg.HTTP.RequestTimeout)
	sl := server.NewSecurityLayer(cfg.HTTP.EnableHTTPS, cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address(), "https", cfg.HTTP.EnableHTTPS)
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func openStorage(ctx context.Context, cfg config.Database) (*storage, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		conn, err := mongo.NewConnection(ctx, cfg.DSN, cfg.Name, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		return &storage{
			users:  mongo.NewUserRepository(conn),
			tasks:  mongo.NewTaskRepository(conn),
			pinger: conn,
			close:  conn.Close,
		}, nil
	case config.DriverPostgres:
		conn, err := postgres.NewConnection(ctx, cfg.DSN, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		return &storage{
			users:  postgres.NewUserRepository(conn),
			tasks:  postgres.NewTaskRepository(conn),
			pinger: conn,
			close:  conn.Close,
		}, nil
	case config.DriverMemory:
		users := memory.NewUserStore()
		return &storage{
			users:  users,
			tasks:  memory.NewTaskStore(),
			pinger: users,
			close:  func() error { return nil },
		}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
