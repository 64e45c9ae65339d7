package account

import (
	"errors"
	"fmt"
	"strings"

	"github.com/badoux/checkmail"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxEmailLength = 60
	minEmailLength = 3
	maxLoginLength = 25
	minLoginLength = 3
	bcryptCost     = 12
)

var (
	ErrInvalidEmail       = errors.New("email address is not valid")
	ErrEmailLength        = fmt.Errorf("email address length must be between %d and %d", minEmailLength, maxEmailLength)
	ErrLoginLength        = fmt.Errorf("login length must be between %d and %d", minLoginLength, maxLoginLength)
	ErrWeakPassword       = errors.New("password must be at least 8 characters long")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrLoginAlreadyExists = errors.New("login already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInternalError      = errors.New("internal Server Error")
)

type Service interface {
	Register(email, login, password string) (*Account, error)
	GetAccountByID(id string) (*Account, error)
	VerifyCredentials(login, password string) (*Account, error)
}

type service struct {
	repo Repository
}

func NewAccountService(repo Repository) Service {
	return &service{
		repo: repo,
	}
}

func hashPassword(password string) (string, error) {
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(hashedPasswordBytes), err
}

func validateEmailAddress(email string) error {
	if len(email) > maxEmailLength || len(email) <= minEmailLength {
		return ErrEmailLength
	}
	if err := checkmail.ValidateFormat(email); err != nil {
		return ErrInvalidEmail
	}
	if err := checkmail.ValidateHost(email); err != nil {
		// MX lookups time out behind some resolvers; a format-valid address
		// is good enough then.
		if !strings.Contains(err.Error(), "timeout") {
			return ErrInvalidEmail
		}
	}
	return nil
}

func validateLogin(login string) error {
	if len(login) > maxLoginLength || len(login) < minLoginLength {
		return ErrLoginLength
	}
	return nil
}

// Register creates a game account. Accounts are active immediately; there is
// no mail verification step, the game client signs in right after.
func (s *service) Register(email, login, password string) (*Account, error) {
	if err := validateEmailAddress(email); err != nil {
		return nil, err
	}
	if err := validateLogin(login); err != nil {
		return nil, err
	}
	if len(password) < 8 {
		return nil, ErrWeakPassword
	}

	existing, err := s.repo.accountExistsByLoginOrEmail(login, email)
	if err != nil {
		return nil, ErrInternalError
	}
	if existing != nil {
		if existing.Email == email {
			return nil, ErrEmailAlreadyExists
		}
		return nil, ErrLoginAlreadyExists
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, ErrInternalError
	}

	account := &Account{
		Email:        email,
		Login:        login,
		PasswordHash: passwordHash,
	}
	if err := s.repo.createAccount(account); err != nil {
		return nil, ErrInternalError
	}
	return account, nil
}

func (s *service) GetAccountByID(id string) (*Account, error) {
	return s.repo.getAccountByID(id)
}

// VerifyCredentials resolves a login/password pair to the account it belongs
// to. A wrong login and a wrong password are indistinguishable to the caller.
func (s *service) VerifyCredentials(login, password string) (*Account, error) {
	account, err := s.repo.getAccountByLogin(login)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, ErrInternalError
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return account, nil
}
