// Package httpapi exposes the service over HTTP: authentication and token
// lifecycle under /auth, user administration under /users, and currency
// conversion under /currency. All responses are JSON and errors share a
// uniform payload.
package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/curexhq/curex/internal/logging"
	"github.com/curexhq/curex/internal/server/models"
	"github.com/curexhq/curex/internal/server/services"
)

// AuthProvider covers registration, login, and the refresh-token lifecycle.
type AuthProvider interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*services.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)
}

// UserProvider covers user administration.
type UserProvider interface {
	List(ctx context.Context, requester *models.User) ([]*models.User, error)
	Delete(ctx context.Context, requester *models.User, id int64) error
}

// CurrencyProvider covers currency lookups and conversion.
type CurrencyProvider interface {
	List(ctx context.Context) (map[string]string, error)
	ActualRates(ctx context.Context, codes []string) (map[string]float64, error)
	ActualRate(ctx context.Context, code string) (float64, error)
	Convert(ctx context.Context, from, to string, amount float64) (float64, error)
}

// Server wires the HTTP handlers to the service layer.
type Server struct {
	auth     AuthProvider
	users    UserProvider
	currency CurrencyProvider
	logger   logging.Logger
}

func NewServer(auth AuthProvider, users UserProvider, currency CurrencyProvider, logger logging.Logger) *Server {
	return &Server{auth: auth, users: users, currency: currency, logger: logger}
}

// Routes builds the router with all endpoints and middleware mounted.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestLogger(s.logger))
	r.Use(MetricsMiddleware)

	r.Get("/", s.handleRoot)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Post("/refresh", s.handleRefresh)
		r.Post("/logout", s.handleLogout)
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(s.RequireAccessToken)
		r.Get("/user_info", s.handleUserInfo)

		r.Group(func(r chi.Router) {
			r.Use(s.RequireAdmin)
			r.Get("/list", s.handleUserList)
			r.Delete("/{user_id}", s.handleUserDelete)
		})
	})

	r.Route("/currency", func(r chi.Router) {
		r.Use(s.RequireAccessToken)
		r.Get("/list", s.handleCurrencyList)
		r.Get("/actual_rates", s.handleActualRates)
		r.Get("/actual_rate", s.handleActualRate)
		r.Post("/converter", s.handleConverter)
	})

	return r
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "API is running!"})
}
