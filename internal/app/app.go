package app

import (
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"

	"github.com/zippy-link/zippy/internal/allocator"
	"github.com/zippy-link/zippy/internal/auth"
	"github.com/zippy-link/zippy/internal/config"
	"github.com/zippy-link/zippy/internal/handler"
	"github.com/zippy-link/zippy/internal/logger"
	"github.com/zippy-link/zippy/internal/middleware"
	"github.com/zippy-link/zippy/internal/proto"
	"github.com/zippy-link/zippy/internal/service"
	"github.com/zippy-link/zippy/internal/storage"
	"github.com/zippy-link/zippy/internal/storage/file"
	"github.com/zippy-link/zippy/internal/storage/postgres"
	"github.com/zippy-link/zippy/internal/worker"
)

const shutdownTimeout = 10 * time.Second

// App wires storage, services, the ownership worker and the transports.
type App struct {
	config     *config.Config
	handler    http.Handler
	grpcServer *grpc.Server
	workerPool *worker.AssociationWorkerPool
	pg         *postgres.Storage
}

func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger()

	var (
		urlStore  storage.URLStore
		userStore storage.UserStore
		pinger    handler.Pinger
		pg        *postgres.Storage
	)

	if cfg.DatabaseDSN != "" {
		var err error
		pg, err = postgres.NewStorage(cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		urlStore = pg.URLStore()
		userStore = pg.UserStore()
		pinger = pg
		log.Info().Msg("Using PostgreSQL storage")
	} else {
		var err error
		urlStore, err = file.NewURLStore(cfg.URLStoragePath)
		if err != nil {
			return nil, err
		}
		userStore, err = file.NewUserStore(cfg.UserStoragePath)
		if err != nil {
			return nil, err
		}
		log.Info().
			Str("urls", cfg.URLStoragePath).
			Str("users", cfg.UserStoragePath).
			Msg("Using file storage")
	}

	urlService := service.NewURLService(urlStore, allocator.New(), cfg.BaseURL)
	userService := service.NewUserService(userStore)

	workerPool := worker.NewAssociationWorkerPool(userService, worker.DefaultConfig())
	workerPool.Start()

	jwtService := auth.NewJWTService(cfg.JWTSecret)

	httpHandler := handler.NewHandler(urlService, userService, workerPool, jwtService, pinger)

	var grpcServer *grpc.Server
	if cfg.GRPCAddress != "" {
		authInterceptor := middleware.NewGRPCAuthMiddleware(jwtService)
		grpcServer = grpc.NewServer(grpc.UnaryInterceptor(authInterceptor.UnaryInterceptor))
		proto.RegisterShortenerServiceServer(grpcServer, handler.NewShortenerGRPCServer(urlService, userService, workerPool))
	}

	return &App{
		config:     cfg,
		handler:    httpHandler.RegisterRoutes(),
		grpcServer: grpcServer,
		workerPool: workerPool,
		pg:         pg,
	}, nil
}

func (a *App) Run() error {
	if a.grpcServer != nil {
		lis, err := net.Listen("tcp", a.config.GRPCAddress)
		if err != nil {
			return err
		}
		go func() {
			log.Info().Str("address", a.config.GRPCAddress).Msg("Starting gRPC server")
			if err := a.grpcServer.Serve(lis); err != nil {
				log.Error().Err(err).Msg("gRPC server stopped")
			}
		}()
	}

	log.Info().Str("address", a.config.ServerAddress).Str("base_url", a.config.BaseURL).Msg("Starting HTTP server")
	return http.ListenAndServe(a.config.ServerAddress, a.handler)
}

// Shutdown drains the ownership worker and releases storage resources.
func (a *App) Shutdown() {
	if a.grpcServer != nil {
		a.grpcServer.GracefulStop()
	}

	if err := a.workerPool.Shutdown(shutdownTimeout); err != nil {
		log.Error().Err(err).Msg("Worker pool shutdown incomplete")
	}

	if a.pg != nil {
		a.pg.Close()
	}
}
