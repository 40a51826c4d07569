package user

import (
	"context"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	ListByCompany(ctx context.Context, companyID string, role *Role) ([]User, error)
	Create(ctx context.Context, newUser User) (User, error)
	Update(ctx context.Context, companyID string, req UpdateUserRequest, passwordHash *string) (User, error)
	Delete(ctx context.Context, companyID, id string) error
}
