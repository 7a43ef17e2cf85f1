package main

import (
	"context"
	"expvar"
	"log"
	"net/http"
	_ "net/http/pprof" // register the /debug/pprof handlers

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	dig_container "github.com/trezcool/divyang/apps/api/di/dig"
	echoapi "github.com/trezcool/divyang/apps/api/echo"
	"github.com/trezcool/divyang/core"
)

func main() {
	c := dig_container.New()

	must(c.Invoke(func(
		conf *core.Config,
		zl *zap.Logger,
		apiLogger core.Logger,
		dbLoggerParam dig_container.DBLoggerParam,
		db *sqlx.DB,
		shutdown dig_container.Shutdown,
		server echoapi.Server,
	) {
		defer func() { _ = zl.Sync() }()

		// =========================================================================
		// Initialize App

		apiLogger.Info("application initializing", map[string]interface{}{"version": conf.Build, "env": conf.Env})

		defer func() {
			if err := db.Close(); err != nil {
				dbLoggerParam.Logger.Error("failed to close", err)
			}
		}()
		defer apiLogger.Info("application stopped")

		// =========================================================================
		// Start Debug Service
		//
		// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
		// /debug/vars - Added to the default mux by importing the expvar package.

		// Expose important info under /debug/vars.
		expvar.NewString("build").Set(conf.Build)
		expvar.NewString("env").Set(conf.Env)

		go func() {
			if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
				apiLogger.Error("debug server closed", err)
			}
		}()

		// =========================================================================
		// Start API Service

		serverErrors := make(chan error, 1)
		go func() {
			apiLogger.Info("api listening", map[string]interface{}{"host": conf.Server.Host})
			serverErrors <- server.Start()
		}()

		// =========================================================================
		// Shutdown

		select {
		case err := <-serverErrors:
			if err != http.ErrServerClosed {
				apiLogger.Error("server error", err)
			}

		case sig := <-shutdown:
			apiLogger.Info("start shutdown", map[string]interface{}{"signal": sig.String()})

			// give outstanding requests a deadline for completion
			ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
			defer cancel()

			// asking listener to shut down and shed load
			if err := server.Stop(ctx); err != nil {
				apiLogger.Error("could not stop server gracefully", err)
			}
		}
	}))
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
