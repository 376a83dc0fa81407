package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	httphandler "github.com/ogurasousui/worker-registry/internal/adapters/http/handler"
	"github.com/ogurasousui/worker-registry/internal/adapters/repository/memdb"
	"github.com/ogurasousui/worker-registry/internal/adapters/repository/memory"
	"github.com/ogurasousui/worker-registry/internal/core/worker"
	"github.com/ogurasousui/worker-registry/internal/platform/config"
	mdb "github.com/ogurasousui/worker-registry/internal/platform/db/memdb"
	"github.com/ogurasousui/worker-registry/internal/platform/logging"
	"github.com/ogurasousui/worker-registry/internal/platform/server"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:          "worker-registry",
		Short:        "In-memory registry of domestic-worker profiles",
		SilenceUsage: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	var configPath string
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP (and optional gRPC) server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, configPath, stderr)
		},
	}
	serveCmd.Flags().StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"), "Path to the YAML config file (defaults to $CONFIG_PATH; built-in defaults when empty)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}

	root.AddCommand(serveCmd, versionCmd)
	return root
}

func runServe(ctx context.Context, configPath string, logOut io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	logger := logging.New(logOut, cfg.Log)

	repo, tx, err := newRepository(cfg.Store)
	if err != nil {
		return err
	}

	if !cfg.Store.SkipSeed {
		if err := worker.Seed(ctx, repo, worker.SeedWorkers()); err != nil {
			return errors.Wrap(err, "failed to seed workers")
		}
	}

	svc := worker.NewService(repo, tx)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router, err := httphandler.NewRouter(svc, repo, logger, reg)
	if err != nil {
		return errors.Wrap(err, "failed to build router")
	}

	logger.Info("starting worker-registry",
		"version", version,
		"store", cfg.Store.Driver,
		"seeded", !cfg.Store.SkipSeed,
	)

	srv := server.New(cfg.Server, router, svc, logger)
	if err := srv.Run(ctx); err != nil {
		return errors.Wrap(err, "server stopped with error")
	}

	logger.Info("server stopped")
	return nil
}

func newRepository(cfg config.StoreConfig) (worker.Repository, worker.TransactionManager, error) {
	switch cfg.Driver {
	case config.DriverMemDB:
		db, err := mdb.NewDB(memdb.Schema())
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to initialize memdb")
		}
		return memdb.NewWorkerRepository(db), mdb.NewTransactionManager(db), nil
	default:
		return memory.NewWorkerRepository(), nil, nil
	}
}
