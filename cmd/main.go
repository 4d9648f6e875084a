package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"invisibility-cloak/config"
	"invisibility-cloak/internal/container"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Собираем сервисы приложения
	appContainer, err := container.New(cfg)
	if err != nil {
		log.Fatalf("Failed to build services: %v", err)
	}
	defer appContainer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	if appContainer.Bot != nil {
		g.Go(func() error { return appContainer.Bot.Run(ctx) })
	}
	if appContainer.Preview != nil {
		g.Go(func() error { return appContainer.Preview.Run(ctx) })
	}

	log.Println("Invisibility cloak is running...")

	// окна gocv работают только из главного потока, поэтому сессия идёт здесь
	runErr := appContainer.Pipeline.Run(ctx)
	if errors.Is(runErr, context.Canceled) {
		runErr = nil
	}

	// сессия закончилась: останавливаем бота и сервер
	stop()
	if err := errors.Join(runErr, g.Wait()); err != nil {
		appContainer.Close()
		log.Fatalf("Session error: %v", err)
	}
}
