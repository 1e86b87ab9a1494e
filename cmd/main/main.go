package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"market-gateway/src/broker"
	"market-gateway/src/cache"
	"market-gateway/src/config"
	"market-gateway/src/interfaces"
	"market-gateway/src/logger"
	"market-gateway/src/server"
	"market-gateway/src/session"
	"market-gateway/src/storage"

	"github.com/joho/godotenv"
)

// -----------------------------------------------------------------------------

func main() {

	// Parse command line flags
	configPath := flag.String("config", "config/default.yaml", "path to config file")
	flag.Parse()

	// Load .env secrets if present; real environment wins either way
	_ = godotenv.Load()

	// Load config from YAML file
	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	appLogger := logger.NewFileLogger(cfg.Name, cfg.LogFile)

	// 1. Credentials (fatal when missing or malformed)
	creds, err := config.LoadCredentials()
	if err != nil {
		appLogger.Critical("Credential error: %v", err)
	}

	// 2. Session: login once at startup, fatal on failure
	sess := session.NewManager(creds, cfg.Broker.BaseURL,
		time.Duration(cfg.Broker.RequestTimeout)*time.Second, appLogger.Named("Session"))

	loginCtx, cancelLogin := context.WithTimeout(context.Background(), 30*time.Second)
	err = sess.Login(loginCtx)
	cancelLogin()
	if err != nil || !sess.Authenticated() {
		appLogger.Critical("Authentication failed: %v", err)
	}

	// 3. Broker client
	brokerClient := broker.NewClient(cfg.Broker, cfg.Instrument, sess, appLogger.Named("Broker"))

	// 4. Caches: in-memory slot plus optional Redis mirror
	quoteCache := cache.NewQuoteCache()
	remoteCache := cache.NewRemoteCache(cfg.Cache, appLogger.Named("RemoteCache"))
	defer remoteCache.Close()

	// 5. Optional quote journal
	var journal interfaces.IQuoteJournal
	if cfg.Storage.Enabled {
		var j interfaces.IQuoteJournal
		switch cfg.Storage.DBType {
		case "postgres":
			j, err = storage.NewPostgresJournal(&cfg.Storage, appLogger.Named("Journal"))
		default:
			j, err = storage.NewSQLiteJournal(&cfg.Storage, appLogger.Named("Journal"))
		}
		if err == nil {
			err = j.Initialize()
		}
		if err != nil {
			appLogger.Warning("Quote journal unavailable: %v. Proceeding without it.", err)
		} else {
			journal = j
			defer j.Close()
		}
	}

	// 6. HTTP/WS server
	srv := server.NewServer(cfg.MConfig, appLogger.Named("Server"), brokerClient, quoteCache, remoteCache, journal)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errChan <- err
		}
	}()

	appLogger.Info("Application startup complete")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		appLogger.Error("Server failed: %v", err)
	case sig := <-quit:
		appLogger.Info("Received signal %v, shutting down...", sig)
	}

	// Bounded grace period for in-flight work, then log out regardless
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Stop(shutdownCtx); err != nil {
		appLogger.Warning("Server shutdown: %v", err)
	}

	sess.Logout(shutdownCtx)
	appLogger.Info("Application shutdown: logged out from broker API")
}
