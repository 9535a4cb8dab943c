package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/chrisdamba/foodiq/internal/models"
	"github.com/rs/cors"
)

type Server struct {
	httpServer *http.Server
}

// NewHandler routes the API. Everything under /api requires a bearer token
// when cfg.JWTSecret is set; /healthz never does.
func NewHandler(cfg models.APIConfig, svc RestaurantService, providerName string) http.Handler {
	secret := []byte(cfg.JWTSecret)

	api := http.NewServeMux()
	api.HandleFunc("GET /api/restaurants", SearchHandler(svc))
	api.HandleFunc("GET /api/restaurants/{id}", DetailsHandler(svc))
	api.HandleFunc("GET /api/categories/{category}", CategoryHandler(svc))

	mux := http.NewServeMux()
	mux.Handle("/api/", RequireToken(secret, api))
	mux.HandleFunc("GET /healthz", HealthHandler(providerName))

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"},
		AllowCredentials: true,
	})
	return c.Handler(mux)
}

func NewServer(cfg models.APIConfig, svc RestaurantService, providerName string) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           NewHandler(cfg, svc, providerName),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Printf("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}
