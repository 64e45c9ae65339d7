package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/furnidesk/FurniOrganizer/internal/account"
)

// AccessTokenCookieName is the http-only cookie carrying the session JWT.
// The organizer gateway client attaches the same cookie to its requests.
const AccessTokenCookieName = "access_token"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInternalError      = errors.New("internal Server Error")
)

type Service interface {
	Login(login, password string) (string, error)
	Logout(token string)
	SessionCookieMiddleware() func(http.Handler) http.Handler
}

type service struct {
	accountService account.Service
	sessionManager SessionManagerInterface
	jwtManager     JWTManagerInterface
	sessionTTL     time.Duration
}

func NewAuthService(accountService account.Service, sessionManager SessionManagerInterface, jwtManager JWTManagerInterface) Service {
	return &service{
		accountService: accountService,
		sessionManager: sessionManager,
		jwtManager:     jwtManager,
		sessionTTL:     defaultSessionDuration,
	}
}

// Login checks the credentials and mints a session token. The token doubles
// as JWT (stateless identity) and session key (revocable on logout).
func (s *service) Login(login, password string) (string, error) {
	acc, err := s.accountService.VerifyCredentials(login, password)
	if err != nil {
		if errors.Is(err, account.ErrInvalidCredentials) {
			return "", ErrInvalidCredentials
		}
		return "", ErrInternalError
	}

	token, err := s.jwtManager.GenerateAccessJWT(acc.ID, s.sessionTTL)
	if err != nil {
		return "", ErrInternalError
	}
	s.sessionManager.RegisterSession(token, acc.ID, s.sessionTTL)
	return token, nil
}

func (s *service) Logout(token string) {
	s.sessionManager.RevokeSession(token)
}
