package commands

import (
	"context"
	"fmt"
	"net/http"

	"claimtable/backend/internal/pkg/config"
	"claimtable/backend/internal/router"
	"claimtable/backend/internal/service/claim"

	"github.com/ardanlabs/conf"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrHelp provides context that help was given.
var ErrHelp = errors.New("provided help")

// EnvPrefix namespaces the server's environment variables, e.g. CLAIMS_WEB_HOST.
const EnvPrefix = "CLAIMS"

// ParseServerConfig reads the server configuration from args and CLAIMS_*
// environment variables. It returns ErrHelp after printing usage for --help.
func ParseServerConfig(args []string) (config.Server, error) {
	var cfg config.Server
	if err := conf.Parse(args, EnvPrefix, &cfg); err != nil {
		if err == conf.ErrHelpWanted {
			usage, err := conf.Usage(EnvPrefix, &cfg)
			if err != nil {
				return config.Server{}, errors.Wrap(err, "generating config usage")
			}
			fmt.Println(usage)
			return config.Server{}, ErrHelp
		}
		return config.Server{}, errors.Wrap(err, "parsing config")
	}
	return cfg, nil
}

// Serve runs the HTTP API until ctx is cancelled, then drains in-flight
// requests for at most the configured shutdown timeout.
func Serve(ctx context.Context, log *zap.Logger, cfg config.Server) error {
	settings, err := config.LoadSettings(cfg.SettingsFile)
	if err != nil {
		return err
	}

	if out, err := conf.String(&cfg); err == nil {
		log.Info("startup", zap.String("config", out), zap.Stringer("settings", settings))
	}

	r := router.NewRouter(claim.NewService(log, settings), log, cfg.Web)
	r.Init()

	srv := &http.Server{
		Addr:         cfg.Web.Host,
		Handler:      r,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("api listening", zap.String("host", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "server error")

	case <-ctx.Done():
		log.Info("shutdown started")
		sctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(sctx); err != nil {
			_ = srv.Close()
			return errors.Wrap(err, "could not stop server gracefully")
		}
		log.Info("shutdown complete")
	}
	return nil
}
