package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/adrianliechti/sketchify/config"
	"github.com/adrianliechti/sketchify/pkg/otel"
	"github.com/adrianliechti/sketchify/server"
)

var version = "dev"

func main() {
	configFlag := flag.String("config", os.Getenv("CONFIG"), "config file, or empty to read API keys from the environment")
	addressFlag := flag.String("address", "", "listen address")

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := otel.Setup(ctx, "sketchify", version); err != nil {
		panic(err)
	}

	cfg, err := config.Load(ctx, *configFlag)

	if err != nil {
		panic(err)
	}

	if *addressFlag != "" {
		cfg.Address = *addressFlag
	}

	s, err := server.New(cfg)

	if err != nil {
		panic(err)
	}

	if err := s.ListenAndServe(ctx); err != nil {
		panic(err)
	}
}
