// Package httpapi exposes the account and profile services over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrijs2005/profilekeeper/internal/logging"
	"github.com/dmitrijs2005/profilekeeper/internal/server/config"
	"github.com/dmitrijs2005/profilekeeper/internal/server/services"
	"github.com/dmitrijs2005/profilekeeper/internal/server/sessions"
)

const shutdownTimeout = 5 * time.Second

type HTTPServer struct {
	address          string
	logger           logging.Logger
	users            *services.UserService
	profiles         *services.ProfileService
	sessions         sessions.Store
	jwtSecret        []byte
	strictRevocation bool
	cookieMaxAge     int
}

func NewHTTPServer(cfg *config.Config, l logging.Logger, us *services.UserService,
	ps *services.ProfileService, store sessions.Store) (*HTTPServer, error) {
	return &HTTPServer{
		address:          cfg.EndpointAddrHTTP,
		logger:           l.With("module", "http_server"),
		users:            us,
		profiles:         ps,
		sessions:         store,
		jwtSecret:        []byte(cfg.SecretKey),
		strictRevocation: cfg.StrictRevocation,
		cookieMaxAge:     int(cfg.AccessTokenValidityDuration.Seconds()),
	}, nil
}

// Router assembles the route tree. Split from Run so tests can drive the
// full middleware chain through httptest.
func (s *HTTPServer) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestID)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/user", func(r chi.Router) {
			r.Post("/signup", s.handleSignup)
			r.Post("/signin", s.handleSignin)

			r.Route("/protected", func(r chi.Router) {
				r.Use(s.authenticate)
				r.Get("/currentUser", s.handleCurrentUser)
			})
		})

		r.Route("/profile", func(r chi.Router) {
			r.Get("/fetch-image/{emailHash}", s.handleFetchImage)

			r.Route("/protected", func(r chi.Router) {
				r.Use(s.authenticate)
				r.Post("/add-image", s.handleAddImage)
				r.Get("/get-images", s.handleGetImages)
				r.Post("/update-profile", s.handleUpdateProfile)
			})
		})
	})

	return r
}

func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
