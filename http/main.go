package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/tnqbao/gau-game-panel/config"
	"github.com/tnqbao/gau-game-panel/http/controller"
	routes "github.com/tnqbao/gau-game-panel/http/route"
	infraPkg "github.com/tnqbao/gau-game-panel/infra"
	"github.com/tnqbao/gau-game-panel/repository"
	"github.com/tnqbao/gau-game-panel/service"
)

func main() {
	err := godotenv.Load("staging.env")
	if err != nil {
		log.Println("No .env file found, continuing with environment variables")
	}

	cfg := config.NewConfig()
	infra := infraPkg.InitInfra(cfg)
	repo := repository.InitRepository(infra)
	svc := service.InitService(cfg, infra, repo)

	ctrl := controller.NewController(cfg, infra, repo, svc)

	router := routes.SetupRouter(ctrl)

	srv := &http.Server{
		Addr:              ":" + cfg.EnvConfig.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Println("HTTP Server started on :" + cfg.EnvConfig.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	if err := infra.Shutdown(shutdownCtx); err != nil {
		log.Printf("Infra shutdown error: %v", err)
	}
}
