package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/bagdasarian/study-groups/internal/config"
	"github.com/bagdasarian/study-groups/internal/db"
	"github.com/bagdasarian/study-groups/internal/handler"
	"github.com/bagdasarian/study-groups/internal/handler/server"
	"github.com/bagdasarian/study-groups/internal/logger"
	"github.com/bagdasarian/study-groups/internal/repository/postgres"
	"github.com/bagdasarian/study-groups/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	var skipMigrations bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), skipMigrations)
		},
	}
	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply pending migrations on startup")

	return cmd
}

func runServe(ctx context.Context, skipMigrations bool) error {
	cfg := config.Load()

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.NewPostgres(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()
	log.Info("connected to database", zap.String("host", cfg.Database.Host), zap.String("name", cfg.Database.DBName))

	if !skipMigrations {
		if err := db.RunMigrations(ctx, database); err != nil {
			return err
		}
	}

	groupRepo := postgres.NewGroupRepository(database)
	membershipRepo := postgres.NewMembershipRepository(database)
	profileRepo := postgres.NewProfileRepository(database)
	transactor := postgres.NewTransactor(database)

	groupService := service.NewGroupService(groupRepo, membershipRepo, profileRepo, transactor)
	membershipService := service.NewMembershipService(groupRepo, membershipRepo, transactor)

	h := handler.NewHandler(groupService, membershipService, database, log)
	srv := server.NewServer(h, cfg.HTTP, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
