package middleware

import (
	"context"
	"fmt"
	"net/http"

	"comanda/globals"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

// JWT claims
type Claims struct {
	Username string   `json:"username"`
	UserID   string   `json:"userId"`
	Role     []string `json:"role"`
	jwt.RegisteredClaims
}

func parseClaims(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		return globals.JwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

func Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		var raw string
		if websocket.IsWebSocketUpgrade(r) {
			// Browsers cannot set headers on upgrade requests; the token
			// rides in the query string instead.
			raw = r.URL.Query().Get("token")
			if raw == "" {
				http.Error(w, "Missing token", http.StatusUnauthorized)
				return
			}
		} else {
			tokenString := r.Header.Get("Authorization")
			if tokenString == "" {
				http.Error(w, "Missing token", http.StatusUnauthorized)
				return
			}
			if len(tokenString) < 8 || tokenString[:7] != "Bearer " {
				http.Error(w, "Invalid token format", http.StatusUnauthorized)
				return
			}
			raw = tokenString[7:]
		}

		claims, err := parseClaims(raw)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		// Store UserID and roles in context
		ctx := context.WithValue(r.Context(), globals.UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, globals.RoleKey, claims.Role)
		next(w, r.WithContext(ctx), ps)
	}
}

// RequireRoles allows the request through only when the authenticated user
// holds at least one of the given roles. Wrap inside Authenticate.
func RequireRoles(next httprouter.Handle, roles ...string) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		userRoles, _ := r.Context().Value(globals.RoleKey).([]string)
		for _, have := range userRoles {
			for _, want := range roles {
				if have == want {
					next(w, r, ps)
					return
				}
			}
		}
		http.Error(w, "Forbidden", http.StatusForbidden)
	}
}

