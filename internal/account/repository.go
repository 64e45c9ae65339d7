package account

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrAccountNotFound = errors.New("account not found")

type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Login        string    `json:"login"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Repository interface {
	createAccount(account *Account) error
	getAccountByLogin(login string) (*Account, error)
	getAccountByID(id string) (*Account, error)
	accountExistsByLoginOrEmail(login, email string) (*Account, error)
}

type accountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) Repository {
	return &accountRepository{
		db: db,
	}
}

func (r *accountRepository) createAccount(account *Account) error {
	query := `
		INSERT INTO game_accounts (email, login, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id;
	`
	var id string
	err := r.db.QueryRow(query, account.Email, account.Login, account.PasswordHash).Scan(&id)
	if err != nil {
		return fmt.Errorf("could not create account: %v", err)
	}

	account.ID = id
	return nil
}

func (r *accountRepository) getAccountByLogin(login string) (*Account, error) {
	query := `
		SELECT id, email, login, password_hash, created_at, updated_at
		FROM game_accounts
		WHERE login = $1
	`
	var account Account
	err := r.db.QueryRow(query, login).Scan(&account.ID, &account.Email, &account.Login, &account.PasswordHash, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("could not find account: %v", err)
	}
	return &account, nil
}

func (r *accountRepository) getAccountByID(id string) (*Account, error) {
	query := `
		SELECT id, email, login, password_hash, created_at, updated_at
		FROM game_accounts
		WHERE id = $1
	`
	var account Account
	err := r.db.QueryRow(query, id).Scan(&account.ID, &account.Email, &account.Login, &account.PasswordHash, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("could not find account: %v", err)
	}
	return &account, nil
}

func (r *accountRepository) accountExistsByLoginOrEmail(login, email string) (*Account, error) {
	query := `
		SELECT id, email, login, password_hash, created_at, updated_at
		FROM game_accounts
		WHERE login = $1 OR email = $2
	`
	var account Account
	err := r.db.QueryRow(query, login, email).Scan(&account.ID, &account.Email, &account.Login, &account.PasswordHash, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not check account existence: %v", err)
	}
	return &account, nil
}
