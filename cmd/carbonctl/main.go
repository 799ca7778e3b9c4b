package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/Kiriweb/carbontracker/internal/api"
	"github.com/Kiriweb/carbontracker/internal/cache"
	"github.com/Kiriweb/carbontracker/internal/config"
	"github.com/Kiriweb/carbontracker/internal/dashboard"
	"github.com/Kiriweb/carbontracker/internal/entry"
	"github.com/Kiriweb/carbontracker/internal/session"
)

type appDeps struct {
	cfg       config.Config
	logger    zerolog.Logger
	client    *api.Client
	gate      *session.Gate
	builder   *entry.Builder
	bootstrap *dashboard.Bootstrap
	logs      *cache.LogCache
	directory *cache.UserDirectory
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if cfg.AppEnv == "production" {
		logger = logger.Level(zerolog.WarnLevel)
	}

	client, err := api.New(api.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.HTTPTimeout,
		Logger:  logger,
	})
	if err != nil {
		log.Fatalf("failed to create api client: %v", err)
	}

	restoreSession(client, cfg.SessionFile, logger)

	validate := validator.New(validator.WithRequiredStructEnabled())

	deps := appDeps{
		cfg:       cfg,
		logger:    logger,
		client:    client,
		gate:      session.NewGate(client, cfg.AdminEmail, logger),
		builder:   entry.NewBuilder(validate, logger),
		bootstrap: dashboard.NewBootstrap(client, logger),
		logs:      cache.NewLogCache(),
		directory: cache.NewUserDirectory(client, logger),
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var runErr error
	switch os.Args[1] {
	case "register":
		runErr = cmdRegister(ctx, deps, os.Args[2:])
	case "login":
		runErr = cmdLogin(ctx, deps, os.Args[2:])
	case "dashboard":
		runErr = cmdDashboard(ctx, deps)
	case "admin":
		runErr = cmdAdmin(ctx, deps, os.Args[2:])
	case "quick":
		runErr = cmdQuick(ctx, deps, os.Args[2:])
	case "suggest":
		runErr = cmdSuggest(ctx, deps, os.Args[2:])
	case "key":
		runErr = cmdKey(ctx, deps, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if runErr != nil {
		fmt.Fprintln(os.Stderr, "Error:", runErr)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: carbonctl <command> [flags]

Commands:
  register   create an account (pending admin approval)
  login      establish a session
  dashboard  show your emission logs
  admin      admin view: pending approvals, user directory
  quick      submit a quick emission entry (-list shows catalog options)
  suggest    fetch the AI suggestion for a log
  key        manage the shared AI credential (admin)`)
}
