package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"voicebot/config"
	"voicebot/internal/application"
	"voicebot/internal/infra/ffmpeg"
	"voicebot/internal/infra/gtts"
	"voicebot/internal/infra/langdetect"
	"voicebot/internal/infra/session"
	"voicebot/internal/infra/telegram"
	"voicebot/internal/infra/whisper"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file, using environment as-is")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutting down")
		cancel()
	}()

	transport, err := telegram.NewClient(cfg.Telegram.Token, logger)
	if err != nil {
		logger.Error("connecting transport", "error", err)
		os.Exit(1)
	}

	pool := application.NewPool(cfg.Pool.Workers, cfg.Pool.Queue)
	pool.Start(ctx)

	dispatcher := application.NewDispatcher(
		session.NewMemoryStore(),
		transport,
		ffmpeg.New(""),
		application.NewTranscriber(whisper.NewClient(cfg.Whisper.APIKey, cfg.Whisper.BaseURL, cfg.Whisper.Model)),
		application.NewSynthesizer(gtts.NewClient(cfg.TTS.BaseURL), langdetect.New(), cfg.Language.Fallback),
		transport,
		pool,
		cfg.Limits.MaxFileMB,
		logger,
	)

	logger.Info("bot is up and running",
		"username", transport.Username(),
		"whisper_model", cfg.Whisper.Model,
		"max_file_mb", cfg.Limits.MaxFileMB,
	)

	if err := transport.Run(ctx, dispatcher); err != nil && err != context.Canceled {
		logger.Error("transport error", "error", err)
		os.Exit(1)
	}

	pool.Wait()
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
