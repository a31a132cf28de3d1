package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/git-pkgs/wpupdates/internal/admin"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the admin screens and run scheduled checks",
		Long:  "Serve the plugin and theme admin screens with the force-check gate and run the update check on the configured schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, opts)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			if listen == "" {
				listen = a.cfg.Listen
			}

			scheduler, err := a.schedule(ctx)
			if err != nil {
				return err
			}
			scheduler.Start()
			defer scheduler.Stop()

			srv := &http.Server{
				Addr:              listen,
				Handler:           a.handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				a.logger.Printf("[HTTP] Starting server on %s", listen)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (overrides the config)")
	return cmd
}

// handler serves the admin area: every request passes the force-check gate
// before the screen is rendered.
func (a *app) handler() http.Handler {
	accounts := make([]admin.Account, 0, len(a.cfg.Admins))
	for _, ad := range a.cfg.Admins {
		accounts = append(accounts, admin.Account{Name: ad.Name, Token: ad.Token, Capabilities: ad.Capabilities})
	}
	h := admin.New(a.checkers,
		admin.WithPrincipals(admin.BearerPrincipals(accounts)),
		admin.WithLogger(a.logger),
	)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", a.health)
	mux.Handle("/", h.Logging(h.Middleware(h.Screens())))
	return mux
}

type healthResponse struct {
	Status   string            `json:"status"`
	Breakers map[string]string `json:"breakers"`
}

// health reports liveness and the circuit state of each release host.
func (a *app) health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Breakers: map[string]string{}}
	if a.breaker != nil {
		resp.Breakers = a.breaker.State()
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// schedule registers the periodic update check.
func (a *app) schedule(ctx context.Context) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(a.cfg.Schedule, func() {
		records, err := a.checkAll(ctx)
		if err != nil {
			a.logger.Printf("[cron] update check: %v", err)
			return
		}
		a.logger.Printf("[cron] update check: %d update(s) available", len(records))
	})
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", a.cfg.Schedule, err)
	}
	return c, nil
}
