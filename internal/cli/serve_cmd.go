package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alexanderramin/waypoint/internal/httpapi"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// NewHTTPHandler builds the REST API over the App's services.
func (a *App) NewHTTPHandler() http.Handler {
	if strings.HasPrefix(strings.ToLower(a.Config.LogMode), "prod") {
		gin.SetMode(gin.ReleaseMode)
	}
	h := httpapi.NewHandler(httpapi.Services{
		Progression:   a.Progression,
		Registrations: a.Registrations,
		Facilitator:   a.Facilitator,
		Enrollments:   a.Enrollments,
		Curriculum:    a.Curriculum,
	})
	return httpapi.NewRouter(httpapi.RouterConfig{
		Handler:     h,
		Logger:      a.log(),
		CORSOrigins: a.Config.CORSOrigins,
	})
}

func newServeCmd(a *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the progression API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, a, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", a.Config.HTTPAddr, "Listen address")
	return cmd
}

// serve runs the HTTP server until ctx is cancelled, then drains it.
func serve(ctx context.Context, a *App, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.NewHTTPHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log().Info("http server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.log().Info("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
