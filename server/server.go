package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/adrianliechti/murmur/config"
	"github.com/adrianliechti/murmur/server/api"
	"github.com/adrianliechti/murmur/server/openai"
	"github.com/adrianliechti/murmur/server/shared"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Server struct {
	*config.Config
	http.Handler
}

func New(cfg *config.Config) (*Server, error) {
	api, err := api.New(cfg)

	if err != nil {
		return nil, err
	}

	openai, err := openai.New(cfg)

	if err != nil {
		return nil, err
	}

	mux := chi.NewMux()

	s := &Server{
		Config:  cfg,
		Handler: otelhttp.NewHandler(mux, "murmur"),
	}

	mux.Use(middleware.Recoverer)

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	mux.Get("/health", api.HandleHealth)

	mux.Group(func(r chi.Router) {
		r.Use(s.handleAuth)

		api.Attach(r)
	})

	mux.Route("/v1", func(r chi.Router) {
		r.Use(s.handleAuth)

		openai.Attach(r)
	})

	return s, nil
}

// ListenAndServe serves until ctx is cancelled and then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.Address,
		Handler: s,

		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
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
		ctx := r.Context()

		for _, p := range s.Authorizers {
			result, err := p.Authenticate(ctx, r)

			if err != nil {
				shared.WriteError(w, http.StatusUnauthorized, err)
				return
			}

			ctx = result
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
