package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/leykun-gizaw/temar-sub000/global"
	"github.com/leykun-gizaw/temar-sub000/initialize"
	"github.com/leykun-gizaw/temar-sub000/server"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to config file")
	flag.Parse()

	app, err := initialize.Build(*configPath)
	if err != nil {
		global.Logger.Fatal().Err(err).Msg("build app")
	}

	ctx, cancel := context.WithCancel(context.Background())
	app.Workers.Start(ctx)

	srv := server.NewHTTPServer(app.Cfg.HTTP.Host, app.Cfg.HTTP.Port, app.Router)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		global.Logger.Info().Msg("shutting down")
		cancel()
		app.Workers.Stop()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			global.Logger.Error().Err(err).Msg("http shutdown")
		}
	}()

	global.Logger.Info().Str("host", app.Cfg.HTTP.Host).Int("port", app.Cfg.HTTP.Port).Msg("http server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		global.Logger.Fatal().Err(err).Msg("http server")
	}
}
