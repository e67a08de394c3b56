package main

import (
	"macro-observer/src/data_source/dashboard"
	"macro-observer/src/data_source/yahoo"
	"macro-observer/src/interfaces"
	"macro-observer/src/loader"
	"macro-observer/src/logger"
	"macro-observer/src/models"
	"macro-observer/src/network"
	"macro-observer/src/storage"
)

// -----------------------------------------------------------------------------

// setupDatabase initializes the snapshot archive based on config
func setupDatabase(config *models.MConfig, appLogger *logger.Logger) (interfaces.IDatabase, error) {
	var db interfaces.IDatabase
	var err error

	switch config.Storage.DBType {
	case "postgres":
		db, err = storage.NewPostgresDB(config, logger.NewLogger(config, "PostgresDB"))
	default:
		db, err = storage.NewAsyncSQLiteDB(config, logger.NewLogger(config, "SQLiteDB"))
	}

	if err != nil {
		appLogger.Error("Failed to init db: %v", err)
		return nil, err
	}
	if err := db.Initialize(); err != nil {
		appLogger.Error("Failed to migrate db: %v", err)
		return nil, err
	}
	return db, nil
}

// -----------------------------------------------------------------------------

// setupNetwork initializes the network manager
func setupNetwork(config *models.MConfig) interfaces.INetworkManager {
	return network.NewAsyncNetworkManager(config, logger.NewLogger(config, "NetworkManager"))
}

// -----------------------------------------------------------------------------

// setupSources builds the dashboard source and, when enabled, the stock source.
func setupSources(config *models.MConfig, appLogger *logger.Logger, networkManager interfaces.INetworkManager) (interfaces.IDataSource, interfaces.IStockSource) {
	source := dashboard.NewDashboardSource(config, networkManager, logger.NewLogger(config, "DashboardSource"))
	appLogger.Info("Dashboard source: %s", source)

	if !config.Dashboard.EnableStocks {
		return source, nil
	}
	stocks := yahoo.NewYahooFinanceSource(config, networkManager, logger.NewLogger(config, "YahooFinance"))
	appLogger.Info("Stock source enabled: %s", stocks.Name())
	return source, stocks
}

// -----------------------------------------------------------------------------

// setupLoader creates the load controller. A nil db disables archiving.
func setupLoader(config *models.MConfig, source interfaces.IDataSource, db interfaces.IDatabase) *loader.LoadController {
	return loader.NewLoadController(config, source, db, logger.NewLogger(config, "LoadController"))
}
