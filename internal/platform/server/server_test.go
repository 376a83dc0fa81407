package server

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/ogurasousui/worker-registry/internal/adapters/repository/memory"
	"github.com/ogurasousui/worker-registry/internal/core/worker"
	"github.com/ogurasousui/worker-registry/internal/platform/config"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func listen(t *testing.T) net.Listener {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	return lis
}

func TestServer_ServeAndShutdown(t *testing.T) {
	t.Parallel()

	httpLis := listen(t)
	grpcLis := listen(t)

	cfg := config.ServerConfig{
		ListenAddr:      httpLis.Addr().String(),
		GRPCListenAddr:  grpcLis.Addr().String(),
		ShutdownTimeout: 2 * time.Second,
	}
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	svc := worker.NewService(memory.NewWorkerRepository(), nil)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(cfg, handler, svc, logger)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ctx, httpLis, grpcLis)
	}()

	resp, err := http.Get("http://" + httpLis.Addr().String() + "/")
	if err != nil {
		t.Fatalf("http request failed: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}

	conn, err := grpc.NewClient(grpcLis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("failed to create grpc client: %v", err)
	}
	defer conn.Close()

	checkCtx, checkCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer checkCancel()
	health, err := healthpb.NewHealthClient(conn).Check(checkCtx, &healthpb.HealthCheckRequest{Service: "worker.v1.WorkerService"})
	if err != nil {
		t.Fatalf("health check failed: %v", err)
	}
	if health.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("unexpected health status: %v", health.GetStatus())
	}

	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Serve returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_HTTPOnly(t *testing.T) {
	t.Parallel()

	httpLis := listen(t)
	srv := New(config.ServerConfig{ListenAddr: httpLis.Addr().String(), ShutdownTimeout: time.Second},
		http.NotFoundHandler(), nil, nil)
	if srv.grpcServer != nil {
		t.Fatal("grpc server should be disabled without grpc_listen_addr")
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ctx, httpLis, nil)
	}()
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Serve returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
