package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dirgate/dirgate/internal/config"
	dirldap "github.com/dirgate/dirgate/internal/ldap"
	"github.com/dirgate/dirgate/internal/rest"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dirgate: %v\n", err)
		os.Exit(1)
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dirgate: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	mgr, err := dirldap.NewManager(cfg.DirectoryConfig(),
		dirldap.WithLogger(log.Named("ldap")),
		dirldap.WithNotifier(&dirldap.LogNotifier{Log: log.Named("auth")}),
	)
	if err != nil {
		log.Fatal("building directory manager", zap.Error(err))
	}

	srv := rest.NewServer(mgr, log.Named("http"))
	log.Info("dirgate listening",
		zap.String("addr", cfg.ListenAddr),
		zap.String("directory", cfg.Directory.Host),
	)
	if err := srv.Router().Run(cfg.ListenAddr); err != nil {
		log.Fatal("http server", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.EncoderConfig.TimeKey = "ts"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zcfg.Build()
}
