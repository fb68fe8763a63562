package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/tasksync/internal/client/cli"
	"github.com/dmitrijs2005/tasksync/internal/client/config"
	"github.com/dmitrijs2005/tasksync/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig(os.Args[1:])
	logger := logging.NewJSONLogger(os.Stderr, "warn")

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}

}
