package main

import (
	"flag"
	"log/slog"
	"os"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/lmittmann/tint"

	"github.com/wavecall/relay/internal/config"
	"github.com/wavecall/relay/internal/directory"
	"github.com/wavecall/relay/internal/domain"
	"github.com/wavecall/relay/internal/signalling"
)

func main() {
	configDir := flag.String("conf", "conf", "directory with configuration files")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level})))

	cfg, err := config.NewManager(*configDir)
	if err != nil {
		slog.Error("can not load configuration", "dir", *configDir, "error", err)
		os.Exit(1)
	}

	appConfig := cfg.Get()

	var dir domain.Directory = directory.Noop{}
	if appConfig.Directory.BaseURL != "" {
		dir = directory.NewHTTPDirectory(appConfig.Directory)
		slog.Info("directory integration enabled", "baseUrl", appConfig.Directory.BaseURL)
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	server := signalling.NewServer(cfg, app, dir)
	defer server.Close()

	server.SetupRoutes()

	addr := ":" + strconv.Itoa(appConfig.Server.Port)
	security := appConfig.Security
	if security.TLSCrtFile != nil && security.TLSKeyFile != nil {
		slog.Info("starting signalling server with TLS", "addr", addr)
		if err := app.ListenTLS(addr, *security.TLSCrtFile, *security.TLSKeyFile); err != nil {
			slog.Error("server stopped", "error", err)
			os.Exit(1)
		}
		return
	}

	slog.Info("starting signalling server", "addr", addr)
	if err := app.Listen(addr); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
