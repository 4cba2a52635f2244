package store

import (
	"context"

	"employee-directory/internal/models"
	"employee-directory/internal/query"
)

// UserStore persists operator accounts. Email is unique; a duplicate insert
// fails with apperr.ErrEmailTaken.
type UserStore interface {
	CreateUser(ctx context.Context, u models.User) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, bool, error)
	GetUserByID(ctx context.Context, id string) (models.User, bool, error)
}

// EmployeeStore persists employee records. Every single-record operation is
// scoped by owner; a record that does not exist and a record owned by someone
// else are both reported as apperr.ErrNotFound.
type EmployeeStore interface {
	ListEmployees(ctx context.Context, q query.Expression) ([]models.Employee, int, error)
	CreateEmployee(ctx context.Context, e models.Employee) (models.Employee, error)
	GetEmployee(ctx context.Context, id, ownerID string) (models.Employee, error)
	UpdateEmployee(ctx context.Context, e models.Employee) (models.Employee, error)
	DeleteEmployee(ctx context.Context, id, ownerID string) error
}

// Store is the full persistence surface used by the server.
type Store interface {
	UserStore
	EmployeeStore
	Ping(ctx context.Context) error
}
