package main

import (
	"fmt"
	"net"

	"macro-observer/src/config"
	pb "macro-observer/src/grpc_control"
	"macro-observer/src/interfaces"
	"macro-observer/src/loader"
	"macro-observer/src/logger"

	"google.golang.org/grpc"
)

// -----------------------------------------------------------------------------

// startServers launches the HTTP server and, when a port is configured, the
// gRPC control server. The returned function stops both.
func startServers(
	srv interfaces.IDataExchanger,
	controller *loader.LoadController,
	config *config.Config,
	configPath string,
	appLogger *logger.Logger,
) func() {

	// 1. HTTP / WebSocket server
	go func() {
		if err := srv.Start(); err != nil {
			appLogger.Error("Server failed: %v", err)
		}
	}()

	// 2. gRPC Control Server
	var grpcServer *grpc.Server
	if config.GrpcPort != 0 {
		addr := fmt.Sprintf("%s:%d", config.GrpcHost, config.GrpcPort)
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			appLogger.Error("Failed to listen for gRPC on %s: %v", addr, err)
		} else {
			grpcServer = grpc.NewServer()
			controlService := pb.NewControlService(config, configPath, controller, logger.NewLogger(config.MConfig, "ControlService"))
			pb.RegisterDashboardControlServer(grpcServer, controlService)

			go func() {
				appLogger.Info("Starting gRPC Control Server on %s", addr)
				if err := grpcServer.Serve(lis); err != nil {
					appLogger.Error("gRPC server failed: %v", err)
				}
			}()
		}
	}

	return func() {
		if grpcServer != nil {
			grpcServer.GracefulStop()
		}
		if err := srv.Stop(); err != nil {
			appLogger.Warning("Server stop: %v", err)
		}
	}
}
