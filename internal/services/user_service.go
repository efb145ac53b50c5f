package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fintrack/fintrack-be/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// Every account starts with this balance.
const defaultAccountBalance = 1000.0

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetAllUsers(ctx context.Context) ([]models.User, error)
	RegisterUser(ctx context.Context, firstName, lastName string, age *int, email, password string) (models.User, error)
	AuthenticateUser(ctx context.Context, email, password string) (models.User, error)
}

// UserService provides business logic for registration and login.
type UserService struct {
	db           *sql.DB
	eventService EventServiceProvider
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, eventService EventServiceProvider) *UserService {
	return &UserService{db: db, eventService: eventService}
}

// GetAllUsers retrieves all users. Password hashes stay in the struct's
// unexported-to-JSON field and never reach the client.
func (s *UserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, first_name, last_name, age, account_balance, email, created_at
		FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.FirstName, &user.LastName, &user.Age,
			&user.AccountBalance, &user.Email, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// RegisterUser creates a new account, hashing the password. Emails are
// unique; a taken email fails with ErrDuplicate.
func (s *UserService) RegisterUser(ctx context.Context, firstName, lastName string, age *int, email, password string) (models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.User{}, err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE email = ?", email).Scan(&exists); err != nil {
		return models.User{}, err
	}
	if exists > 0 {
		return models.User{}, fmt.Errorf("user %s: %w", email, ErrDuplicate)
	}

	user := models.User{
		FirstName:      firstName,
		LastName:       lastName,
		Age:            age,
		AccountBalance: defaultAccountBalance,
		Email:          email,
		PasswordHash:   string(hashedPassword),
		CreatedAt:      time.Now().UTC(),
	}
	res, err := tx.ExecContext(ctx, `
		INSERT INTO users (first_name, last_name, age, account_balance, email, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.FirstName, user.LastName, user.Age, user.AccountBalance,
		user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		return models.User{}, err
	}
	if user.ID, err = res.LastInsertId(); err != nil {
		return models.User{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.User{}, err
	}

	s.eventService.CreateEvent(ctx, "user.register", "info",
		fmt.Sprintf("User %s registered.", user.Email))

	// Return user without password hash
	user.PasswordHash = ""
	return user, nil
}

// AuthenticateUser verifies a user's credentials. An unknown email and a
// wrong password both fail with ErrInvalidCredentials.
func (s *UserService) AuthenticateUser(ctx context.Context, email, password string) (models.User, error) {
	var user models.User
	row := s.db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, age, account_balance, email, password_hash, created_at
		FROM users WHERE email = ?`, email)
	err := row.Scan(&user.ID, &user.FirstName, &user.LastName, &user.Age,
		&user.AccountBalance, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}
