package main

import (
	"context"
	"log"
	"os"

	"github.com/trezcool/tuition/core"
	logsvc "github.com/trezcool/tuition/services/logger"
	"github.com/trezcool/tuition/storage"
	"github.com/trezcool/tuition/storage/blob"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stderr, "TUTOR : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig()
	errAndDie(err)

	appLogger := logsvc.NewRollbarLogger(logger, conf)
	defer appLogger.Close()

	ctx := context.Background()
	store, err := storage.OpenBlobStore(ctx, conf)
	errAndDie(err)
	defer func() { _ = blob.Close(store) }()

	sess, err := storage.OpenSession(ctx, store, conf, appLogger)
	errAndDie(err)

	// start CLI
	cli := newCommandLine(sess, conf, os.Stdin, os.Stdout)
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		appLogger.Close()
		_ = blob.Close(store)
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
