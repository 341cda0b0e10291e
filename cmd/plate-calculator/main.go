package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/plate-calculator/internal/application"
	"github.com/eugenenazirov/plate-calculator/internal/config"
	"github.com/eugenenazirov/plate-calculator/internal/logging"
	"github.com/eugenenazirov/plate-calculator/internal/render"
	"github.com/eugenenazirov/plate-calculator/internal/session"
)

var signalNotify = signal.Notify

func main() {
	kingpinApp := kingpin.New("plate-calculator", "Plate Calculator - works out which plates to load on each side of a barbell")
	configFile := kingpinApp.Flag("config", "Path to YAML or TOML configuration file").String()
	envFile := kingpinApp.Flag("env-file", "Path to a .env file loaded before reading the environment").String()
	platesStr := kingpinApp.Flag("plates", "Comma-separated available plate weights").String()
	barWeightFlag := kingpinApp.Flag("bar-weight", "Barbell weight").Default("-1").Float64()
	logLevel := kingpinApp.Flag("log-level", "Log level (debug, info, warn, error)").String()

	serveCmd := kingpinApp.Command("serve", "Serve the calculator over HTTP").Default()
	port := serveCmd.Flag("port", "HTTP port exposed by the service").String()
	rateLimitRPSFlag := serveCmd.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64()
	rateLimitBurstFlag := serveCmd.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()

	calcCmd := kingpinApp.Command("calc", "Print the plates per side for a single target weight")
	calcTarget := calcCmd.Flag("target", "Total target weight including the bar").Short('t').Required().String()
	calcBar := calcCmd.Flag("bar", "Bar weight for this calculation").Short('b').String()

	interactiveCmd := kingpinApp.Command("interactive", "Adjust target and bar weight interactively")

	command := kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	overrides := &config.CLIOverrides{
		ConfigFile: *configFile,
		EnvFile:    *envFile,
	}

	if *port != "" {
		overrides.Port = port
	}

	if *platesStr != "" {
		overrides.PlatesStr = platesStr
	}

	if *barWeightFlag > 0 {
		overrides.BarWeight = barWeightFlag
	}

	if *logLevel != "" {
		overrides.LogLevel = logLevel
	}

	if *rateLimitRPSFlag >= 0 {
		overrides.RateLimitRPS = rateLimitRPSFlag
	}

	if *rateLimitBurstFlag >= 0 {
		overrides.RateLimitBurst = rateLimitBurstFlag
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	switch command {
	case serveCmd.FullCommand():
		serve(cfg, logger)
	case calcCmd.FullCommand():
		if err := calculate(cfg, *calcTarget, *calcBar); err != nil {
			logger.Fatal("failed to calculate plates", zap.Error(err))
		}
	case interactiveCmd.FullCommand():
		s, err := application.NewSession(cfg)
		if err != nil {
			logger.Fatal("failed to start session", zap.Error(err))
		}
		if err := runInteractive(os.Stdin, os.Stdout, s, logger); err != nil {
			logger.Fatal("interactive session failed", zap.Error(err))
		}
	}
}

func serve(cfg config.Config, logger *zap.Logger) {
	app, err := application.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	if err := app.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	shutdown(app.Server(), cfg.ShutdownGracePeriod, logger)
}

// calculate commits the given texts the same way the interactive fields do, so a
// malformed target falls back to the configured one instead of failing.
func calculate(cfg config.Config, target, bar string) error {
	s, err := application.NewSession(cfg)
	if err != nil {
		return err
	}
	if bar != "" {
		s.Set(session.BarField, bar)
	}
	s.Set(session.TargetField, target)

	return render.Loadout(os.Stdout, s.State().Loadout)
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
