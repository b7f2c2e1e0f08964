package app

import (
	"net/http"
	"strings"

	"github.com/finbook/finbook/internal/config"
	"github.com/finbook/finbook/internal/rest"
	"github.com/finbook/finbook/pkg/user"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// publicPaths are the API endpoints reachable without a bearer token.
var publicPaths = map[string]bool{
	"/api/auth/register":        true,
	"/api/auth/login":           true,
	"/api/auth/forgot-password": true,
	"/api/auth/reset-password":  true,
}

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Verify the bearer token on protected API routes and propagate the
	// authenticated user into the request context.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if !strings.HasPrefix(req.URL.Path, "/api/") || publicPaths[req.URL.Path] {
				next.ServeHTTP(w, req)
				return
			}

			header := req.Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				rest.Error(w, http.StatusUnauthorized, "Missing or malformed authorization header")
				return
			}

			userID, err := deps.AuthService.ValidateAccessToken(token)
			if err != nil {
				log.Debugf("rejected access token: %v", err)
				rest.Error(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := user.WithID(req.Context(), userID)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
}
