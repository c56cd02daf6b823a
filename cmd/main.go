package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/datb2404981/Chat-Nexa/config"
	"github.com/datb2404981/Chat-Nexa/internal/presence"
	"github.com/datb2404981/Chat-Nexa/internal/routers"
	"github.com/datb2404981/Chat-Nexa/internal/websocket"
	"github.com/datb2404981/Chat-Nexa/internal/worker"
	"github.com/datb2404981/Chat-Nexa/state"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := config.LoadConfig(); err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appState, err := state.InitAppState(ctx, stop)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize application state")
	}
	defer appState.Close()

	registry := presence.NewRegistry()
	wsHub := websocket.NewHub(registry)
	log.Info().Msg("Websocket hub initialized")

	authFunc := websocket.JWTWebSocketAuth(appState.JwtSecret.Public, appState.Redis)
	wsHandler := websocket.NewWSHandler(wsHub, authFunc)

	r := routers.NewRouter(appState, wsHub, wsHandler)

	workerPool := worker.NewWorkerPool(appState.Redis, appState.Mongo, appState.MongoDB, config.Conf.WORKER.Num, wsHub)
	workerPool.Start(ctx)
	workerPool.StartDLQWorker(ctx)

	server := &http.Server{
		Addr:         config.Conf.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Msgf("Starting server on http://localhost%s", config.Conf.App.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(fmt.Sprintf("ListenAndServe failed: %v", err))
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutdown initiated...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	} else {
		log.Info().Msg("Server exited gracefully")
	}

	wsHub.Close()
	workerPool.Wait()
}
