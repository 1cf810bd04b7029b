package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/tnqbao/gau-game-panel/config"
	"github.com/tnqbao/gau-game-panel/consumer/worker"
	infraPkg "github.com/tnqbao/gau-game-panel/infra"
	"github.com/tnqbao/gau-game-panel/repository"
	"github.com/tnqbao/gau-game-panel/service"
)

func main() {
	err := godotenv.Load("../staging.env")
	if err != nil {
		log.Println("No .env file found, continuing with environment variables")
	}

	cfg := config.NewConfig()
	infra := infraPkg.InitInfra(cfg)
	repo := repository.InitRepository(infra)
	svc := service.InitService(cfg, infra, repo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverConsumer := worker.NewServerConsumer(infra.RabbitMQ.Channel, repo.ServerRepo, svc.Keys, infra.Logger)
	if err := serverConsumer.Start(ctx); err != nil {
		infra.Logger.ErrorWithContextf(ctx, err, "Failed to start Server consumer: %v", err)
		log.Fatalf("Failed to start Server consumer: %v", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	infra.Logger.InfoWithContextf(ctx, "Shutting down consumer...")
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := infra.Shutdown(shutdownCtx); err != nil {
		log.Printf("Infra shutdown error: %v", err)
	}

	log.Println("Consumer exited properly")
}
