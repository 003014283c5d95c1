package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "kasir",
		Usage: "point-of-sale checkout backend",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Value: ".env",
				Usage: "dotenv file loaded before the process environment",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "migrate the schema and seed the default operator",
				Action: migrate,
			},
			{
				Name:   "weekly-report",
				Usage:  "record the weekly revenue notification",
				Action: weeklyReport,
			},
			{
				Name:   "low-stock-sweep",
				Usage:  "run the daily low-stock notification pass",
				Action: lowStockSweep,
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
