// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"t3compat/internal/config"
	"t3compat/internal/diagnostics"
	cerrors "t3compat/internal/errors"
	"t3compat/internal/plugin"
)

var (
	serveListen  string
	servePlugins string
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the registered legacy plugins over HTTP",
	Long: `serve renders legacy plugins per request. GET <base-path> lists the
registered plugins and GET <base-path>/<name> renders one of them with the
configuration read from --plugins.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fsys := afero.NewOsFs()
		configs := map[string]plugin.Config{}
		if servePlugins != "" {
			c, err := plugin.LoadConfigs(fsys, servePlugins)
			if err != nil {
				return err
			}
			configs = c
		}

		guard := diagnostics.NewGuard(logger)
		diagnostics.SetDefault(guard)

		if logger.Core().Enabled(zap.DebugLevel) {
			gin.SetMode(gin.DebugMode)
		} else {
			gin.SetMode(gin.ReleaseMode)
		}
		engine := gin.New()
		engine.Use(gin.Recovery(), requestLogger(logger))
		plugin.Routes(engine, plugin.HandlerOptions{
			Registry: plugin.Default(),
			Configs:  configs,
			Fs:       fsys,
			Guard:    guard,
			Logger:   logger,
			BasePath: cfg.Serve.BasePath,
		})

		listen := cfg.Serve.Listen
		if serveListen != "" {
			listen = serveListen
		}
		srv := &http.Server{
			Addr:              listen,
			Handler:           engine,
			ReadHeaderTimeout: 5 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.ListenAndServe()
		}()
		pterm.Info.Printfln("Serving %d plugin(s) on http://%s%s", len(plugin.Default().Names()), listen, cfg.Serve.BasePath)

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return cerrors.Wrap(cerrors.ConnectFailed, "listen on "+listen, err)
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info("shutting down", zap.Int64("suppressed_notices", guard.Suppressed()))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

// requestLogger logs one line per request through zap.
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)))
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Listen address; overrides "+config.EnvListen)
	serveCmd.Flags().StringVar(&servePlugins, "plugins", "", "YAML file with the configuration per plugin")
}
