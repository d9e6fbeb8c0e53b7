// Command server runs the line-sheet extraction HTTP service.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"linesheet-extractor/internal/assets"
	"linesheet-extractor/internal/colorlex"
	"linesheet-extractor/internal/config"
	"linesheet-extractor/internal/extract"
	"linesheet-extractor/internal/garment"
	"linesheet-extractor/internal/ocr"
	"linesheet-extractor/internal/server"
	"linesheet-extractor/internal/version"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log := newLogger(cfg.LogLevel)
	log.Info().
		Str("version", version.Version).
		Str("port", cfg.Port).
		Str("output_dir", cfg.OutputDir).
		Msg("starting linesheet-extractor")

	store, err := assets.NewStore(cfg.OutputDir)
	if err != nil {
		log.Fatal().Err(err).Msg("asset store init failed")
	}

	classifier := garment.NewClassifier()
	defer classifier.Close()

	// One availability probe; a missing tesseract install puts color
	// recognition permanently in dominant-color fallback mode.
	engine, err := ocr.NewEngine(cfg.OCRLanguage)
	if err != nil {
		log.Warn().Err(err).Msg("ocr unavailable, using dominant-color fallback")
		engine = nil
	} else {
		defer engine.Close()
	}

	colors := ocr.NewColorReader(engine, colorlex.Default, log)
	extractor := extract.New(colorlex.Default, classifier, colors, log)

	srv := server.New(cfg, log, extractor, colors, store)
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown incomplete")
		}
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}
