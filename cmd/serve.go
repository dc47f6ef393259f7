package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/trafficdash/internal/dashboard"
	"github.com/KaramelBytes/trafficdash/internal/server"
	"github.com/KaramelBytes/trafficdash/internal/table"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		lo, err := loadOptions(c)
		if err != nil {
			return err
		}
		// Surface load errors before listening; each request reloads the file.
		if _, err := table.Load(c.DataPath, lo); err != nil {
			return err
		}
		addr := c.ListenAddr
		if serveAddr != "" {
			addr = serveAddr
		}
		if !debug {
			gin.SetMode(gin.ReleaseMode)
		}

		opt := dashboardOptions(c)
		router := server.NewRouter(func() (*dashboard.Page, error) {
			return dashboard.Run(c.DataPath, lo, opt, logger)
		}, logger)
		srv := &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  time.Duration(c.ReadTimeoutSec) * time.Second,
			WriteTimeout: time.Duration(c.WriteTimeoutSec) * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Info("server starting", zap.String("addr", addr), zap.String("path", c.DataPath))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Serving %s on %s\n", c.DataPath, addr)

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides listen_addr)")
}
