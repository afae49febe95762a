package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/adrianliechti/sketchify/config"
	"github.com/adrianliechti/sketchify/pkg/auth"
	"github.com/adrianliechti/sketchify/pkg/sketch"
	"github.com/adrianliechti/sketchify/server/api"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Server struct {
	*config.Config
	http.Handler

	store *sketch.Store

	api *api.Handler
}

func New(cfg *config.Config) (*Server, error) {
	store := cfg.NewStore()

	handler, err := api.New(store, cfg.Styles)

	if err != nil {
		return nil, err
	}

	mux := chi.NewMux()

	s := &Server{
		Config:  cfg,
		Handler: mux,

		store: store,

		api: handler,
	}

	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(middleware.Recoverer)

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Content-Disposition"},
	}))

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	mux.Route("/v1", func(r chi.Router) {
		r.Use(s.handleAuth)
		s.api.Attach(r)
	})

	return s, nil
}

func (s *Server) ListenAndServe(ctx context.Context) error {
	go s.store.Run(ctx)
	defer s.store.Close()

	srv := &http.Server{
		Addr:    s.Address,
		Handler: otelhttp.NewHandler(s.Handler, "sketchify"),

		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()

		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server listening", "address", s.Address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) handleAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(s.Authorizers) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		var lastErr error

		for _, a := range s.Authorizers {
			ctx, err := a.Authenticate(r.Context(), r)

			if err == nil {
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			lastErr = err
		}

		slog.DebugContext(r.Context(), "request unauthorized", "error", lastErr)

		http.Error(w, auth.ErrUnauthorized.Error(), http.StatusUnauthorized)
	})
}
