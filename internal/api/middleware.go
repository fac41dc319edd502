package api

// This file contains the middleware for handling authentication and role-based authorization.

import (
	"context"
	"net/http"
	"strings"

	"github.com/manna-app/manna-go/internal/models"
)

// contextKey is a private type to prevent collisions with other context keys.
type contextKey string

const userContextKey = contextKey("user")

// resolveUser looks up the requesting user from either the session
// cookie or a bearer token. Returns nil when no valid credential is
// present.
func (s *Server) resolveUser(r *http.Request) *models.User {
	if cookie, err := r.Cookie("session_token"); err == nil {
		if user, err := s.store.GetUserFromSession(cookie.Value); err == nil {
			return user
		}
	}

	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		claims, err := s.tokens.Parse(token)
		if err != nil {
			return nil
		}
		if user, err := s.store.GetUserByID(claims.UserID); err == nil {
			return user
		}
	}

	return nil
}

// AuthMiddleware verifies a user's session cookie or bearer token.
// The user's details are injected into the request's context for
// downstream handlers to use.
func (s *Server) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := s.resolveUser(r)
		if user == nil {
			RespondWithError(w, http.StatusUnauthorized, "Unauthorized: Invalid or missing credentials")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuthMiddleware attaches the user to the context when valid
// credentials are present, and lets the request through anonymously
// otherwise.
func (s *Server) OptionalAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user := s.resolveUser(r); user != nil {
			r = r.WithContext(context.WithValue(r.Context(), userContextKey, user))
		}
		next.ServeHTTP(w, r)
	})
}

// AdminOnlyMiddleware ensures only users with the 'admin' role can access a route.
// It must be chained *after* the AuthMiddleware.
func (s *Server) AdminOnlyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := getUserFromContext(r)

		// This should theoretically not happen if AuthMiddleware is used first, but it's a safe check.
		if user == nil {
			RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		if user.Role != models.RoleAdmin {
			RespondWithError(w, http.StatusForbidden, "Forbidden: Administrator access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// CreatorOnlyMiddleware restricts publishing routes to creators and
// admins. It must be chained *after* the AuthMiddleware.
func (s *Server) CreatorOnlyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := getUserFromContext(r)

		if user == nil {
			RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		if user.Role != models.RoleCreator && user.Role != models.RoleAdmin {
			RespondWithError(w, http.StatusForbidden, "Forbidden: Creator access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// getUserFromContext is a helper function to safely retrieve the user object from the request context.
// It returns nil if the user is not found in the context.
func getUserFromContext(r *http.Request) *models.User {
	user, ok := r.Context().Value(userContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// userID returns the requesting user's ID, or zero for anonymous
// requests.
func userID(r *http.Request) int64 {
	if user := getUserFromContext(r); user != nil {
		return user.ID
	}
	return 0
}
