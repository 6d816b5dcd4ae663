package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	echoapi "github.com/trezcool/tuition/apps/api/echo"
	"github.com/trezcool/tuition/core"
	logsvc "github.com/trezcool/tuition/services/logger"
	"github.com/trezcool/tuition/storage"
	"github.com/trezcool/tuition/storage/blob"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// =========================================================================
	// Set up Dependencies

	conf, err := core.NewConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	defer logger.Close()

	ctx := context.Background()
	store, err := storage.OpenBlobStore(ctx, conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening %s storage: %v", conf.Storage.Backend, err), err)
	}
	defer func() {
		if err := blob.Close(store); err != nil {
			logger.Error("closing storage", err)
		}
	}()

	sess, err := storage.OpenSession(ctx, store, conf, logger)
	if err != nil {
		logger.Fatal(fmt.Sprintf("loading session: %v", err), err)
	}

	// =========================================================================
	// Start API Service

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	server := echoapi.NewServer(&echoapi.Options{
		Address:  conf.Server.Addr,
		AppName:  conf.AppName,
		Debug:    conf.Debug,
		TestMode: conf.TestMode,
		Location: conf.Location,
		Session:  sess,
		Logger:   logger,
	})

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// =========================================================================
	// Shutdown

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err = <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			logger.Error(fmt.Sprintf("server error: %v", err), err)
		}

	case sig := <-shutdown:
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err = server.Stop(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
		}
	}
}
