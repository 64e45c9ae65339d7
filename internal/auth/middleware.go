package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/furnidesk/FurniOrganizer/internal/account"
)

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// SessionCookieMiddleware guards protected routes. The session rides in an
// http-only cookie: the JWT must validate and the session must still be live
// (not revoked by logout, not purged by the sweep).
func (s *service) SessionCookieMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(AccessTokenCookieName)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "Session cookie is required")
				return
			}
			tokenString := cookie.Value

			userID, err := s.jwtManager.ValidateAccessToken(tokenString)
			if err != nil {
				if errors.Is(err, ErrExpiredJWTToken) {
					writeJSONError(w, http.StatusUnauthorized, ErrExpiredJWTToken.Error())
					return
				}
				writeJSONError(w, http.StatusUnauthorized, "Invalid or expired session")
				return
			}

			if _, err := s.sessionManager.VerifySession(tokenString); err != nil {
				writeJSONError(w, http.StatusUnauthorized, "Invalid or expired session")
				return
			}

			if _, err := s.accountService.GetAccountByID(userID); err != nil {
				if errors.Is(err, account.ErrAccountNotFound) {
					writeJSONError(w, http.StatusUnauthorized, account.ErrAccountNotFound.Error())
					return
				}
				writeJSONError(w, http.StatusInternalServerError, ErrInternalError.Error())
				return
			}

			ctx := context.WithValue(r.Context(), "userID", userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeJSONError writes an error response in JSON format
func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Status:  "error",
		Message: message,
	})
}
