package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"macro-observer/src/config"
	"macro-observer/src/interfaces"
	"macro-observer/src/logger"
	"macro-observer/src/server"
)

// -----------------------------------------------------------------------------

func main() {

	// 1. Parse command line flags
	configPath := flag.String("config", "config/default.yaml", "path to config file")
	flag.Parse()

	// 2. Load config
	conf, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// 3. Setup Logger
	appLogger := logger.NewLogger(conf.MConfig, conf.Name)

	// 4. Setup Components
	var db interfaces.IDatabase
	if archive, err := setupDatabase(conf.MConfig, appLogger); err != nil {
		appLogger.Warning("Snapshot archive disabled: %v", err)
	} else {
		db = archive
		defer db.Close()
	}

	networkManager := setupNetwork(conf.MConfig)
	source, stocks := setupSources(conf.MConfig, appLogger, networkManager)
	controller := setupLoader(conf.MConfig, source, db)
	srv := server.NewDashboardServer(conf.MConfig, controller, stocks, db, logger.NewLogger(conf.MConfig, "DashboardServer"))

	// Lifecycle Management
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Start Servers
	stopServers := startServers(srv, controller, conf, *configPath, appLogger)

	// 6. Bootstrap (Initial Load)
	performInitialLoad(ctx, controller, conf.MConfig, appLogger)

	// 7. Scheduled refresh
	go runRefreshLoop(ctx, controller, conf.MConfig, appLogger)

	<-ctx.Done()
	appLogger.Info("Shutting down...")
	stopServers()
	appLogger.Info("Shutdown complete.")
}
