package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog"
	"github.com/marcelsud/bookshelf/book"
	"github.com/marcelsud/bookshelf/config"
	"github.com/marcelsud/bookshelf/internal/http/chi"
	"github.com/marcelsud/bookshelf/internal/store"
	"github.com/marcelsud/bookshelf/metrics"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

const TIMEOUT = 30 * time.Second

/* “a porta de entrada e saída da minha aplicação”
* Porque a porta de entrada? É no arquivo main.go, que vai ser compilado para gerar o executável da aplicação,
* onde é feita toda a “amarração” dos demais pacotes.
* É nele onde iniciamos as dependências, fazemos as configurações e a invocação dos pacotes que desempenham a lógica de negócio.

* E porque ele é a porta de saída da aplicação?
* https://eltonminetto.dev/post/2022-07-06-error-handling-cli-applications-golang/
 */

/*
 * As importações devem ser feitas apenas em uma direção: para baixo. O aplicativo (api, cli) importa camadas de negócios,
 * que importam a camada de armazenamento
 */

func main() {
	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Println(err)
		return
	}
	logger := httplog.NewLogger("bookshelf", httplog.Options{
		JSON:     cfg.LogJSON,
		Concise:  !cfg.LogJSON,
		LogLevel: cfg.LogLevel,
	})
	if err := cfg.Validate(); err != nil {
		logger.Error().Err(err).Msg("invalid configuration")
		return
	}
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	repo, err := store.Open(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Str("driver", cfg.DBDriver).Msg("opening store")
		return
	}
	defer repo.Close(context.Background())
	logger.Info().Str("driver", cfg.DBDriver).Bool("cache", cfg.RedisAddr != "").Msg("store ready")

	opts := chi.Options{
		LogLevel:       cfg.LogLevel,
		LogJSON:        cfg.LogJSON,
		ExportFileName: cfg.ExportFileName,
		MaxUploadBytes: cfg.MaxUploadBytes(),
	}
	if cfg.MetricsEnabled {
		exporter, err := metrics.NewOTelExporter(metrics.NewStoreCollector(repo), promclient.NewRegistry())
		if err != nil {
			logger.Error().Err(err).Msg("creating metrics exporter")
			return
		}
		defer exporter.Shutdown(context.Background())
		opts.Metrics = exporter
	}

	s := book.NewService(repo)
	r := chi.Handlers(ctx, s, opts)
	srv := &http.Server{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Addr:         ":" + cfg.Port,
		Handler:      r,
	}

	errShutdown := make(chan error, 1)
	go shutdown(srv, ctx, TIMEOUT, errShutdown, logger)
	logger.Info().Str("port", cfg.Port).Msg("listening")
	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("serving http")
		return
	}
	err = <-errShutdown
	if err != nil {
		logger.Error().Err(err).Msg("shutting down")
		return
	}
}

func shutdown(server *http.Server, ctxShutdown context.Context, timeout time.Duration, errShutdown chan error, logger zerolog.Logger) {
	<-ctxShutdown.Done()

	ctxTimeout, stop := context.WithTimeout(context.Background(), timeout)
	defer stop()

	logger.Info().Msg("shutting down server")
	if err := server.Shutdown(ctxTimeout); err != nil {
		errShutdown <- fmt.Errorf("forcing server close: %w", err)
		return
	}
	errShutdown <- nil
}
