package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	grpchandler "github.com/ogurasousui/worker-registry/internal/adapters/grpc/handler"
	"github.com/ogurasousui/worker-registry/internal/core/worker"
	"github.com/ogurasousui/worker-registry/internal/platform/config"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const readHeaderTimeout = 5 * time.Second

// Server は HTTP サーバーと（有効な場合）gRPC サーバーのライフサイクルを管理します。
type Server struct {
	httpAddr        string
	grpcAddr        string
	shutdownTimeout time.Duration
	httpServer      *http.Server
	grpcServer      *grpc.Server
	health          *health.Server
	logger          *slog.Logger
}

// New はサーバーを構築します。cfg.GRPCListenAddr が空の場合 gRPC サーバーは作りません。
func New(cfg config.ServerConfig, handler http.Handler, workers worker.UseCase, logger *slog.Logger, opts ...grpc.ServerOption) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		httpAddr:        cfg.ListenAddr,
		grpcAddr:        cfg.GRPCListenAddr,
		shutdownTimeout: cfg.ShutdownTimeout,
		httpServer: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
			ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
		},
		logger: logger,
	}

	if s.grpcAddr != "" {
		s.grpcServer = grpc.NewServer(opts...)
		s.grpcServer.RegisterService(&grpchandler.WorkerServiceDesc, grpchandler.NewWorkerGrpcHandler(workers))
		s.health = health.NewServer()
		s.health.SetServingStatus(grpchandler.WorkerServiceDesc.ServiceName, healthpb.HealthCheckResponse_SERVING)
		healthpb.RegisterHealthServer(s.grpcServer, s.health)
	}

	return s
}

// Run は設定されたアドレスで待ち受け、コンテキストがキャンセルされると停止します。
func (s *Server) Run(ctx context.Context) error {
	httpLis, err := net.Listen("tcp", s.httpAddr)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", s.httpAddr)
	}

	var grpcLis net.Listener
	if s.grpcServer != nil {
		grpcLis, err = net.Listen("tcp", s.grpcAddr)
		if err != nil {
			_ = httpLis.Close()
			return errors.Wrapf(err, "listen on %s", s.grpcAddr)
		}
	}

	return s.Serve(ctx, httpLis, grpcLis)
}

// Serve は与えられたリスナーで待ち受けます。gRPC が無効な場合 grpcLis は nil で構いません。
func (s *Server) Serve(ctx context.Context, httpLis, grpcLis net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("http server listening", "addr", httpLis.Addr().String())
		if err := s.httpServer.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "serve http")
		}
		return nil
	})

	if s.grpcServer != nil && grpcLis != nil {
		g.Go(func() error {
			s.logger.Info("grpc server listening", "addr", grpcLis.Addr().String())
			if err := s.grpcServer.Serve(grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return errors.Wrap(err, "serve grpc")
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		return s.shutdown()
	})

	return g.Wait()
}

func (s *Server) shutdown() error {
	s.logger.Info("shutting down", "timeout", s.shutdownTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if s.grpcServer != nil {
		s.health.Shutdown()
		done := make(chan struct{})
		go func() {
			s.grpcServer.GracefulStop()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			s.grpcServer.Stop()
		}
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "shutdown http")
	}
	return nil
}
