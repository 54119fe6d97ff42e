// Package services contains server-side business logic. UserService handles
// signup, login and verification of the session tokens login issues.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/cryptox"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

var (
	newID = uuid.NewString
	now   = time.Now
)

// UserService provides authentication operations:
//   - Signup: create a user with a bcrypt-hashed password
//   - Login: verify credentials and mint a session token
//   - Authenticate: resolve a session token back to its user
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *cryptox.Hasher
	jwtSecret   []byte
	tokenTTL    time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      cryptox.NewHasher(cfg.BcryptCost),
		jwtSecret:   []byte(cfg.SecretKey),
		tokenTTL:    cfg.TokenTTL,
	}
}

// Signup stores a new user and returns its public view. A taken email is
// reported as common.ErrConflict by the store's unique constraint; there is
// no lookup beforehand.
func (s *UserService) Signup(ctx context.Context, email, password string) (*models.PublicUser, error) {
	if err := requireCredentials(email, password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, cryptox.ErrPasswordTooLong) {
			return nil, common.NewValidationError("password must be at most 72 bytes")
		}
		return nil, fmt.Errorf("signup: hash password: %w: %w", common.ErrInternal, err)
	}

	user := &models.User{
		ID:           newID(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now().UTC(),
	}

	repo := s.repomanager.Users(s.db)
	created, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, fmt.Errorf("signup: %w", common.ErrConflict)
		}
		return nil, fmt.Errorf("signup: %w: %w", common.ErrInternal, err)
	}

	return created.Public(), nil
}

// Login checks the password of the user with this exact email and returns a
// signed session token. Unknown emails give common.ErrNotFound, wrong
// passwords common.ErrUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	if err := requireCredentials(email, password); err != nil {
		return "", err
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", fmt.Errorf("login: %w", common.ErrNotFound)
		}
		return "", fmt.Errorf("login: %w: %w", common.ErrInternal, err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		if errors.Is(err, cryptox.ErrMismatch) {
			return "", fmt.Errorf("login: %w", common.ErrUnauthorized)
		}
		return "", fmt.Errorf("login: compare hash: %w: %w", common.ErrInternal, err)
	}

	token, err := auth.GenerateToken(user.ID, user.Email, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("login: sign token: %w: %w", common.ErrInternal, err)
	}
	return token, nil
}

// Authenticate verifies token and loads the user it was issued to. Every
// token problem, including a user that no longer exists, is
// common.ErrUnauthorized.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.PublicUser, error) {
	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w: %w", common.ErrUnauthorized, err)
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("authenticate: %w", common.ErrUnauthorized)
		}
		return nil, fmt.Errorf("authenticate: %w: %w", common.ErrInternal, err)
	}
	return user.Public(), nil
}

// Ready reports whether the credential store answers.
func (s *UserService) Ready(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

func requireCredentials(email, password string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return common.NewValidationError("email and password are required")
	}
	// PostgreSQL text columns cannot hold NUL.
	if strings.ContainsRune(email, 0) {
		return common.NewValidationError("email must not contain NUL characters")
	}
	return nil
}
