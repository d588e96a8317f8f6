// Package app assembles the whole service and owns its lifecycle.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	apihttp "golden-samovar/internal/api/http"
	"golden-samovar/internal/auth"
	"golden-samovar/internal/repository/postgres"
	"golden-samovar/internal/service"
	"golden-samovar/internal/xpkg/config"
	"golden-samovar/internal/xpkg/db"
	"golden-samovar/internal/xpkg/logger"
)

type params struct {
	configPath string
	port       int
}

// Execute parses flags, wires every layer and runs the HTTP server until a
// shutdown signal arrives.
func Execute(ctx context.Context, mylog logger.Logger, args []string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p, err := parseParams(args)
	if err != nil {
		mylog.Action("command_parse_failed").Error("invalid command line", err)
		return err
	}

	cfg, err := config.Load(p.configPath)
	if err != nil {
		mylog.Action("config_load_failed").Error("cannot load configuration", err)
		return err
	}
	if p.port != 0 {
		cfg.Server.Port = p.port
	}

	database, err := db.Start(ctx, cfg.Database)
	if err != nil {
		mylog.Action("db_connect_failed").Error("cannot connect to postgres", err)
		return err
	}
	defer database.Stop()
	mylog.Action("db_connected").Info("connected to postgres")

	if err := db.Migrate(cfg.Database); err != nil {
		mylog.Action("db_migrate_failed").Error("cannot apply migrations", err)
		return err
	}
	mylog.Action("db_migrated").Info("schema is up to date")

	store := postgres.NewStore(database.Pool)
	users := postgres.NewUserRepo(store)
	menu := postgres.NewMenuRepo(store)
	orders := postgres.NewOrderRepo(store)
	bookings := postgres.NewBookingRepo(store)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	authService := service.NewAuthService(users, tokens, mylog)
	orderService := service.NewOrderService(users, menu, orders, store, mylog)
	bookingService := service.NewBookingService(bookings, store, mylog)
	menuService := service.NewMenuService(menu)
	userService := service.NewUserService(users, store, mylog)

	server := apihttp.NewServer(authService, orderService, bookingService, menuService, userService, mylog)

	runErrCh := make(chan error, 1)
	go func() {
		runErrCh <- server.Run(cfg.Server.Port)
	}()

	select {
	case <-ctx.Done():
		mylog.Action("shutdown_signal_received").Info("shutdown signal received")
		return server.Stop(context.Background(), cfg.Server.ShutdownTimeout)
	case err := <-runErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			mylog.Action("server_failed").Error("server failed unexpectedly", err)
			return err
		}
		mylog.Action("server_stopped").Info("server exited normally")
		return nil
	}
}

func parseParams(args []string) (*params, error) {
	fs := flag.NewFlagSet("golden-samovar", flag.ContinueOnError)
	configPath := fs.String("config-path", "config.yaml", "path to the config yaml")
	port := fs.Int("port", 0, "override the configured HTTP port")

	if err := fs.Parse(args); err != nil {
		return nil, errors.New("cannot parse arguments")
	}
	if *port < 0 || *port >= 65536 {
		return nil, fmt.Errorf("port must be in [0: 65,535]: %d", *port)
	}

	return &params{configPath: *configPath, port: *port}, nil
}
