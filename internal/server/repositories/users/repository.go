// Package users is the credential store: persistence of user rows keyed by a
// unique email.
package users

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Repository persists users.
//
// Create must report a duplicate email as common.ErrConflict; the database
// unique constraint is the only duplicate check. Lookups return
// common.ErrNotFound when no row matches.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
